package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback"

	"github.com/netprobe/netprobe-ui/internal/apiclient"
	"github.com/netprobe/netprobe-ui/internal/config"
	"github.com/netprobe/netprobe-ui/internal/credentials"
	"github.com/netprobe/netprobe-ui/internal/logger"
	"github.com/netprobe/netprobe-ui/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "netprobe-ui",
		Short:         "Network probing tools web interface",
		Long:          `Serves the network probing tools UI and provides command line access to the probing API`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version.Get().String()

	cmd.AddCommand(
		newServeCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newTokenCmd(),
		newCallCmd(),
		newRoutesCmd(),
	)

	return cmd
}

// env is the process state shared by the subcommands.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *credentials.FileStore
}

func loadEnv() (*env, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}

	log := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	slog.SetDefault(log)

	return &env{
		cfg:    cfg,
		logger: log,
		store:  credentials.NewFileStore(cfg.TokenFile),
	}, nil
}

// apiClient builds the one client the process uses.
func (e *env) apiClient() (*apiclient.Client, error) {
	client, err := apiclient.New(
		apiclient.ClientConfig{
			BaseURL: e.cfg.APIBaseURL,
			Timeout: e.cfg.APITimeout,
		},
		credentials.Provider(e.store, e.logger),
		apiclient.WithLogger(e.logger),
		apiclient.WithLanguage(e.cfg.LanguageTag()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}
