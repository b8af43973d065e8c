package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"logconf/internal/config"
)

const defaultConfigFile = "logging.toml"

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigLevelCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = defaultConfigFile
			}
			expanded, err := config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			target = expanded

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Point --config (or %s) at it to use it.\n", config.EnvConfig)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if path := ctx.configPath(); path != "" {
				fmt.Fprintf(out, "Config path: %s\n", path)
			} else {
				fmt.Fprintln(out, "No config file given; built-in defaults were used")
			}
			fmt.Fprintf(out, "Level: %s, patterns: %d, file output: %s\n", cfg.Level, cfg.Patterns.Len(), yesNo(cfg.File.Enabled))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, settingsRows(cfg), nil))

			entries := cfg.Patterns.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No logger patterns configured")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				rows = append(rows, []string{strconv.Itoa(i + 1), entry.Pattern, entry.Level.String()})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Pattern", "Level"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
			return nil
		},
	}
}

func settingsRows(cfg *config.Config) [][]string {
	maxAge := "keep"
	if cfg.File.MaxAgeDays > 0 {
		maxAge = fmt.Sprintf("%d days", cfg.File.MaxAgeDays)
	}
	return [][]string{
		{"level", cfg.Level.String()},
		{"run_id", yesNo(cfg.RunID)},
		{"file.enabled", yesNo(cfg.File.Enabled)},
		{"file.path", cfg.File.Path},
		{"file.max_size", fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(cfg.File.MaxSize)), cfg.File.MaxSize)},
		{"file.backup_count", strconv.Itoa(cfg.File.BackupCount)},
		{"file.encoding", cfg.File.Encoding},
		{"file.max_age", maxAge},
		{"file.compress", yesNo(cfg.File.Compress)},
		{"console.colors", yesNo(cfg.Console.Colors)},
		{"console.rich_tracebacks", yesNo(cfg.Console.RichErrors)},
	}
}

func newConfigLevelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "level <logger-name>...",
		Short: "Show the level applied to logger names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rows := make([][]string, 0, len(args))
			for _, name := range args {
				source := "global"
				if entry, ok := cfg.Patterns.Match(name); ok {
					source = "pattern " + entry.Pattern
				}
				rows = append(rows, []string{name, cfg.EffectiveLevel(name).String(), source})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Logger", "Level", "Source"}, rows, nil))
			return nil
		},
	}
}
