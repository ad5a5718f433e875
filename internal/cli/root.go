// Package cli implements the page-enhancer CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/page-enhancer/internal/config"
	"github.com/rcliao/page-enhancer/internal/enhance"
	"github.com/rcliao/page-enhancer/internal/logging"
	"github.com/rcliao/page-enhancer/internal/store"
)

var (
	dbPath     string
	configPath string
	formatFlag string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "page-enhancer",
	Short: "Enhance static business pages",
	Long: "Rewrites a static HTML page with partner logo carousels, reveal animations " +
		"and an on-page question answering assistant. Chat history is SQLite-backed.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $PAGE_ENHANCER_DB, db_path from config, or ~/.page-enhancer/enhancer.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.page-enhancer/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".page-enhancer")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configFile())
	if err != nil {
		exitErr("load config", err)
	}
	if err := cfg.Validate(); err != nil {
		exitErr("invalid config", err)
	}
	return cfg
}

func newLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: verbose,
	})
	if err != nil {
		exitErr("init logger", err)
	}
	return logger
}

func getDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("PAGE_ENHANCER_DB"); env != "" {
		return env
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath
	}
	return filepath.Join(homeDir(), "enhancer.db")
}

func openStore(cfg *config.Config) *store.SQLiteStore {
	s, err := store.NewSQLiteStore(getDBPath(cfg))
	if err != nil {
		exitErr("open store", err)
	}
	return s
}

// enhancePage runs the full pipeline over the page at path ("-" is stdin).
func enhancePage(cmd *cobra.Command, cfg *config.Config, kv store.KV, logger *zap.Logger, path string) *enhance.Result {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			exitErr("open page", err)
		}
		defer f.Close()
		r = f
	}

	res, err := enhance.New(cfg, kv, logger).Run(cmd.Context(), r)
	if err != nil {
		exitErr("enhance", err)
	}
	return res
}

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
