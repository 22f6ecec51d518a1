package main

import (
	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/linkshrink/internal/app"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			return app.Run(cmd.Context(), cfg)
		},
	}
}
