// CLAUDE:SUMMARY Entry point for the pagebridge CLI: convert, analyze, serve, MCP.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

const version = "0.4.0"

// Config is the serve-side configuration, read from an optional YAML
// file and overridable through the environment.
type Config struct {
	Addr     string `yaml:"addr"`
	RunDB    string `yaml:"run_db"`
	AuthUser string `yaml:"auth_user"`
	AuthHash string `yaml:"auth_hash"` // bcrypt hash; empty disables auth
	LogLevel string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		Addr:     ":8086",
		RunDB:    "db/runs.db",
		LogLevel: "info",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.Addr = env("ADDR", cfg.Addr)
	cfg.RunDB = env("RUN_DB", cfg.RunDB)
	cfg.AuthUser = env("AUTH_USER", cfg.AuthUser)
	cfg.AuthHash = env("AUTH_HASH", cfg.AuthHash)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	return cfg, nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

var (
	cfgPath  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pagebridge",
		Short: "Page builder conversion engine",
		Long: `pagebridge converts page builder exports between frameworks while
preserving all settings it does not understand.

Convert a page:      pagebridge transform elementor html page.json
Convert an export:   pagebridge transform-site elementor html export.zip
Inspect a page:      pagebridge analyze elementor page.json
Run the HTTP API:    pagebridge serve
Run as MCP server:   pagebridge mcp`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pagebridge v%s\n", version)
		},
	})

	rootCmd.AddCommand(transformCmd())
	rootCmd.AddCommand(transformSiteCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(pairsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(mcpCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// cliLogger applies --log-level (or LOG_LEVEL) for the one-shot
// commands that do not load the full config.
func cliLogger() *slog.Logger {
	lvl := logLevel
	if lvl == "" {
		lvl = env("LOG_LEVEL", "info")
	}
	return setupLogger(lvl)
}
