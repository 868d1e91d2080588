package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/TFMV/echograph3d/config"
)

var version = "0.3.0"

var (
	cfgPath   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "echograph3d",
	Short: "echograph3d: animated 3D force-directed graphs",
	Long: Brand.Sprint("echograph3d") + ": lay out graphs in 3D and watch them settle\n" +
		Subtle.Sprint("Render to the terminal, snapshot to SVG, or serve a live view"),
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate("echograph3d {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json")

	rootCmd.AddCommand(
		runCmd(),
		snapshotCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file and applies the persistent flags
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg, newLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr), nil
}
