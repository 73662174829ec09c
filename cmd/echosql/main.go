package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/kiosk404/echosql/internal/config"
	"github.com/kiosk404/echosql/internal/options"
	"github.com/kiosk404/echosql/internal/server"
	"github.com/kiosk404/echosql/pkg/logger"
)

func main() {
	if err := newEchoSQLCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newEchoSQLCommand() *cobra.Command {
	opts := options.NewOptions()
	var configFile string

	cmd := &cobra.Command{
		Use:   "echosql",
		Short: "echosql turns natural-language requests into validated SQL and result pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configFile, opts)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML/JSON/TOML config file (overrides flag defaults, overridden by ECHOSQL_* env vars).")

	fss := opts.Flags()
	for _, name := range fss.Order {
		cmd.Flags().AddFlagSet(fss.FlagSet(name))
	}
	cmd.Flags().SortFlags = false

	return cmd
}

func run(configFile string, opts *options.Options) error {
	if err := config.Load(configFile, opts); err != nil {
		return err
	}

	cfg, err := config.CreateConfigFromOptions(opts)
	if err != nil {
		return err
	}

	ctx := context.Background()
	srv, err := server.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	logger.Info("starting echosql")
	if err := srv.Run(); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}
