package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lucentbytes/insightloom-cli/internal/analyzer"
	"github.com/lucentbytes/insightloom-cli/internal/server"
)

var (
	srvAddr        string
	srvMaxUploadMB int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			loadConfig()
		}
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = srvAddr
		}
		maxUpload := cfg.MaxUploadMB
		if cmd.Flags().Changed("max-upload-mb") {
			maxUpload = srvMaxUploadMB
		}

		a := analyzer.New(cfg.AnalyzerOptions())
		srv := server.New(a, addr, maxUpload)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("✓ Listening on %s\n", addr)
		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&srvMaxUploadMB, "max-upload-mb", 50, "maximum upload size in MB")
}
