package main

import (
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-stars-must-align/internal/api"
	"github.com/Veraticus/the-stars-must-align/internal/certs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timing scanner over HTTP or HTTPS",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}

			pipeline, closeEph, err := buildPipeline(settings)
			if err != nil {
				return err
			}
			defer closeEph()

			store, err := initStorage(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var tlsConfig *tls.Config
			if settings.Server.TLS {
				hosts, _ := cmd.Flags().GetStringSlice("host")
				certStore := certs.NewStore(settings.Server.CertDir, hosts...)
				tlsConfig, err = certStore.TLSConfig()
				if err != nil {
					return fmt.Errorf("failed to prepare certificate: %w", err)
				}
				certFile, _ := certStore.Paths()
				slog.Info("Serving with self-signed certificate", "cert", certFile)
			}

			server := api.NewServer(pipeline,
				api.WithStorage(store),
				api.WithAccessLog(cmd.ErrOrStderr()))
			return server.ListenAndServe(ctx, settings.Server.Addr, tlsConfig)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default: server.addr)")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	cmd.Flags().StringSlice("host", nil, "extra host names or IPs for the certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}
