package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"logconf/internal/logging"
)

func newDemoCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var withFile bool
	var level string
	var patterns []string
	var runID bool

	cmd := &cobra.Command{
		Use:         "demo",
		Short:       "Configure logging and emit sample records",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := logging.Configure(ctx.configPath())
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			builder.WithConsoleWriter(cmd.OutOrStdout())
			if withFile || strings.TrimSpace(filePath) != "" {
				builder.WithFile(strings.TrimSpace(filePath))
			}
			if level != "" {
				builder.WithLevel(level)
			}
			for _, entry := range patterns {
				pattern, lvl, ok := strings.Cut(entry, "=")
				if !ok {
					return fmt.Errorf("pattern %q: expected PATTERN=LEVEL", entry)
				}
				builder.WithPattern(strings.TrimSpace(pattern), strings.TrimSpace(lvl))
			}
			if runID {
				builder.WithRunID()
			}
			cfg, err := builder.Config()
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			if err := builder.Build(); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			defer logging.Close()

			emitDemoRecords(cmd)

			if cfg.File.Enabled {
				fmt.Fprintf(cmd.OutOrStdout(), "JSON records written to %s\n", cfg.File.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Write JSON records to this path (enables file output)")
	cmd.Flags().BoolVar(&withFile, "with-file", false, "Enable file output at the configured path")
	cmd.Flags().StringVar(&level, "level", "", "Override the global level")
	cmd.Flags().StringArrayVar(&patterns, "pattern", nil, "Add a PATTERN=LEVEL override (repeatable)")
	cmd.Flags().BoolVar(&runID, "run-id", false, "Tag records with a per-process run_id")
	return cmd
}

func emitDemoRecords(cmd *cobra.Command) {
	app := logging.GetLogger("demo.app")
	db := logging.GetLogger("demo.db")

	app.Debug("debug detail", "step", 1)
	app.Info("demo started", "pid", os.Getpid())
	db.Warn("slow query", "table", "events", "took", 1250*time.Millisecond)

	reqCtx := logging.ContextWith(cmd.Context(), logging.String("request_id", "demo-1"))
	app.InfoContext(reqCtx, "request handled", "status", 200)

	app.Error("operation failed", logging.Error(fmt.Errorf("save report: %w", os.ErrPermission)))
	logging.Critical(reqCtx, app, "critical condition", "component", "demo")

	logging.ZapLogger("demo.vendor").Info("message from zap", zap.String("library", "zap"))

	again, err := logging.Configure("")
	if err == nil {
		err = again.WithConsoleWriter(cmd.OutOrStdout()).Build()
	}
	if errors.Is(err, logging.ErrAlreadyConfigured) {
		app.Info("second configuration rejected", logging.String("reason", err.Error()))
	}
}
