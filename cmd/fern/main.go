package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ramsey-B/fern/config"
	appctx "github.com/Ramsey-B/fern/pkg/context"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fern",
		Short:         "Brand configuration builder service",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runServe,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE:  runMigrate,
	})

	export := &cobra.Command{
		Use:   "export <config-id>",
		Short: "Print a config version as a standalone JSON document",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	export.Flags().String("brand", "", "brand id that owns the config")
	export.Flags().Int("version", 0, "version to export (defaults to the latest)")
	_ = export.MarkFlagRequired("brand")
	root.AddCommand(export)

	return root
}

func newApp() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	zapLogger, err := newZapLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := zapadapter.NewZapEctoLogger(zapLogger, nil)

	return &app{cfg: cfg, logger: logger}, func() { _ = zapLogger.Sync() }, nil
}

func newZapLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	return zapCfg.Build()
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, flush, err := newApp()
	if err != nil {
		return err
	}
	defer flush()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		a.logger.WithError(err).Error("Fern exited with an error")
		return err
	}
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, flush, err := newApp()
	if err != nil {
		return err
	}
	defer flush()

	if a.cfg.DatabaseHost == "" {
		return fmt.Errorf("DB_HOST is required to run migrations")
	}
	if err := a.startDatabase(cmd.Context()); err != nil {
		return err
	}
	return a.stopDatabase(cmd.Context())
}

func runExport(cmd *cobra.Command, args []string) error {
	configID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid config id: %w", err)
	}
	brand, _ := cmd.Flags().GetString("brand")
	if _, err := uuid.Parse(brand); err != nil {
		return fmt.Errorf("invalid brand id: %w", err)
	}
	version, _ := cmd.Flags().GetInt("version")

	a, flush, err := newApp()
	if err != nil {
		return err
	}
	defer flush()

	if a.cfg.DatabaseHost == "" {
		return fmt.Errorf("DB_HOST is required to export a config")
	}
	if err := a.startDatabase(cmd.Context()); err != nil {
		return err
	}
	defer func() { _ = a.stopDatabase(context.Background()) }()

	return exportConfig(cmd, a, configID, brand, version)
}

func exportConfig(cmd *cobra.Command, a *app, configID uuid.UUID, brand string, version int) error {
	svc, _, err := a.newService()
	if err != nil {
		return err
	}

	ctx := appctx.SetBrandID(cmd.Context(), brand)
	doc, err := svc.Export(ctx, configID, version)
	if err != nil {
		a.logger.WithContext(ctx).WithError(err).Error("Failed to export config")
		return err
	}

	body, err := doc.JSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return err
}
