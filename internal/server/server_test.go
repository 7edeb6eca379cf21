package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucentbytes/insightloom-cli/internal/analyzer"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	opts := analyzer.DefaultOptions()
	opts.Charts = false
	return New(analyzer.New(opts), ":0", 50)
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyzeUpload(t *testing.T) {
	srv := testServer(t)
	body, ctype := multipartBody(t, "datos.csv", []byte("a,b\n1,x\n2,y\n3,z\n"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Analysis-ID"))

	var res struct {
		Success   bool `json:"success"`
		BasicInfo struct {
			Dimensions struct {
				Rows    int `json:"rows"`
				Columns int `json:"columns"`
			} `json:"dimensions"`
		} `json:"basic_info"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.BasicInfo.Dimensions.Rows)
	assert.Equal(t, 2, res.BasicInfo.Dimensions.Columns)
}

func TestAnalyzeEmptyFileIsBadRequest(t *testing.T) {
	srv := testServer(t)
	body, ctype := multipartBody(t, "vacio.csv", nil)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var res analyzer.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "vacío")
}

func TestAnalyzeRejectsUnknownExtension(t *testing.T) {
	srv := testServer(t)
	body, ctype := multipartBody(t, "datos.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "formato de archivo no soportado")
}

func TestAnalyzeMissingFileField(t *testing.T) {
	srv := testServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("nombre", "datos"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ningún archivo")
}

func TestUploadLimitEnforced(t *testing.T) {
	opts := analyzer.DefaultOptions()
	opts.Charts = false
	srv := New(analyzer.New(opts), ":0", 1)

	big := bytes.Repeat([]byte("a,b\n1,2\n"), 1<<18) // ~2MB
	body, ctype := multipartBody(t, "grande.csv", big)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "demasiado grande")
}
