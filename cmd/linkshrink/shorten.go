package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/linkshrink/internal/app"
	"github.com/vadimbarashkov/linkshrink/internal/metrics"
)

func newShortenCmd(opts *rootOptions) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "shorten <url>",
		Short: "Shorten a URL directly against the configured storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			logger := app.NewLogger(cfg)

			storage, err := app.OpenStorage(cmd.Context(), cfg, logger.Logger)
			if err != nil {
				return err
			}
			defer storage.Close()

			sink := metrics.NewPrometheus(prometheus.NewRegistry())
			svc := app.NewLinkService(cfg, storage.Repo, logger.Logger, sink)

			link, err := svc.ShortenURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Code: %s\n", link.ShortCode)
			if baseURL != "" {
				fmt.Fprintf(out, "URL:  %s/%s\n", baseURL, link.ShortCode)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "public base URL printed in front of the code")

	return cmd
}
