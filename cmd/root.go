package cmd

import (
	"context"
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/tabloom-cli/internal/config"
	"github.com/KaramelBytes/tabloom-cli/internal/logger"
	"github.com/KaramelBytes/tabloom-cli/internal/session"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string

	// Root command flags
	rootFile string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "tabloom",
	Short: "TabLoom CLI: explore, clean and chart tabular data from the terminal",
	Long: `TabLoom is an interactive, menu-driven explorer for CSV, TSV and JSON tables.
Load a dataset, inspect it, sort and filter rows, handle missing values,
print descriptive statistics and render charts to image files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		s := session.New(cmd.InOrStdin(), cmd.OutOrStdout(), session.OptionsFromConfig(currentConfig()))
		if rootFile != "" {
			s.Load(ctx, rootFile)
		}
		return s.Run(ctx)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.Flags().StringVarP(&rootFile, "file", "f", "", "dataset to load before the menu starts")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	level := cfg.LogLevel
	if rootCmd.PersistentFlags().Changed("log-level") && logLevel != "" {
		level = logLevel
	}
	if debug {
		level = "debug"
	}
	if _, err := logger.Setup(level, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
}

// currentConfig returns the loaded configuration, or defaults when loading was skipped.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		cfg = cfgpkg.Default()
	}
	return cfg
}

// commandContext carries the process logger in the command's context.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithLogger(ctx, logger.Global())
}
