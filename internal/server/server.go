// Package server exposes the analyzer over HTTP: a health probe and a
// multipart upload endpoint that returns the analysis envelope as JSON.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/lucentbytes/insightloom-cli/internal/analyzer"
)

// allowedExtensions lists the upload formats the analyzer accepts.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".txt":  true,
	".xlsx": true,
	".xlsm": true,
}

// Server handles analysis requests over HTTP.
type Server struct {
	analyzer  *analyzer.Analyzer
	maxUpload int64
	http      *http.Server
}

// New builds a Server around an analyzer. maxUploadMB bounds the request
// body; non-positive values fall back to 50MB.
func New(a *analyzer.Analyzer, addr string, maxUploadMB int) *Server {
	if maxUploadMB <= 0 {
		maxUploadMB = 50
	}
	s := &Server{
		analyzer:  a,
		maxUpload: int64(maxUploadMB) << 20,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes assembles the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	return r
}

// ListenAndServe blocks serving requests until ctx is cancelled, then
// drains in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.http.Shutdown(shutCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, analyzer.Failure("archivo demasiado grande o formulario inválido"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, analyzer.Failure("no se proporcionó ningún archivo"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeJSON(w, http.StatusBadRequest, analyzer.Failure(fmt.Sprintf("formato de archivo no soportado: %s", ext)))
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, analyzer.Failure("no se pudo leer el archivo"))
		return
	}

	w.Header().Set("X-Analysis-ID", uuid.NewString())
	res := s.analyzer.Analyze(r.Context(), raw, header.Filename)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}
