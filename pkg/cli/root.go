// Package cli implements the azml command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"azmlclient"
	"azmlclient/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type rootOptions struct {
	configPath string
	service    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "azml",
		Short:         "Client for remote tabular scoring services",
		Long:          "Invoke a remote tabular-data scoring service, either synchronously or as a batch job through blob storage.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to the service catalog file")
	rootCmd.PersistentFlags().StringVarP(&opts.service, "service", "s", "", "Service name from the catalog")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the catalog log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRRCmd(opts))
	rootCmd.AddCommand(newBatchCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func defaultConfigPath() string {
	if v := os.Getenv("AZML_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".azml", "config.yaml")
}

// buildClient resolves the catalog entry named by the flags into a connected
// client and a logger at the configured level.
func buildClient(opts *rootOptions) (*azmlclient.Client, *slog.Logger, error) {
	if opts.service == "" {
		return nil, nil, fmt.Errorf("--service is required")
	}
	catalog, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.logLevel != "" {
		catalog.LogLevel = opts.logLevel
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: catalog.SlogLevel()}))
	for _, w := range catalog.Warnings {
		logger.Warn(w)
	}

	svc, err := catalog.Service(opts.service)
	if err != nil {
		return nil, nil, err
	}
	cfg := azmlclient.Config{
		BaseURL:      svc.BaseURL,
		APIKey:       svc.APIKey,
		PollInterval: svc.PollInterval(),
		Logger:       logger,
	}
	if svc.Blob != nil {
		connectionString, err := svc.Blob.Resolve()
		if err != nil {
			return nil, nil, err
		}
		cfg.Blob = &azmlclient.BlobConfig{
			ConnectionString: connectionString,
			Container:        svc.Blob.Container,
			PathPrefix:       svc.Blob.PathPrefix,
			Charset:          svc.Blob.Charset,
		}
	}
	client, err := azmlclient.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}
