package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/campus-nav/internal/observability"
	"github.com/xkilldash9x/campus-nav/internal/server"
)

// newServeCmd creates the `serve` command hosting the HTTP API.
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the campus navigation HTTP API server",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("server.host", cmd.Flags().Lookup("host")); err != nil {
				return err
			}
			if err := viper.BindPFlag("server.port", cmd.Flags().Lookup("port")); err != nil {
				return err
			}
			return viper.BindPFlag("storage.backend", cmd.Flags().Lookup("storage"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			srv, err := server.NewServer(ctx, cfg, logger)
			if err != nil {
				return err
			}
			return srv.Start(ctx)
		},
	}

	serveCmd.Flags().String("host", "127.0.0.1", "interface to listen on")
	serveCmd.Flags().Int("port", 8420, "port to listen on")
	serveCmd.Flags().String("storage", "file", "storage backend: file or postgres")
	return serveCmd
}
