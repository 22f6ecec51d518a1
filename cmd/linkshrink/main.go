package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/linkshrink/internal/config"
)

const defaultConfigPath = "config/local.yml"

type rootOptions struct {
	configPath string
	envFile    string
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	return config.Load(path, o.envFile)
}

func newRootCmd() *cobra.Command {
	opts := new(rootOptions)

	cmd := &cobra.Command{
		Use:           "linkshrink",
		Short:         "URL shortener with click counting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config (defaults to $CONFIG_PATH, then "+defaultConfigPath+")")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config is read")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newShortenCmd(opts),
	)

	return cmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}
