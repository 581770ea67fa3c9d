// Package cli implements the pdbselect CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdbselect/internal/config"
	"pdbselect/internal/logging"
	"pdbselect/internal/registry"
	"pdbselect/internal/source"
)

var (
	configPath   string
	registryPath string
	cacheDir     string
	logLevel     string
	logFormat    string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "pdbselect",
	Short: "Select protein structures for ML datasets",
	Long: "Evaluates protein structures against selection criteria and keeps the\n" +
		"verdicts in a JSON registry. Structure files are downloaded from RCSB\n" +
		"and cached locally.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.ParseLevel(logLevel), logFormat)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $PDBSELECT_CONFIG)")
	RootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "Registry file (default: $PDBSELECT_REGISTRY or "+config.DefaultRegistryFile+")")
	RootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Structure cache directory (default: $PDBSELECT_CACHE_DIR or "+source.DefaultCacheDir+")")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	RootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

// loadConfig resolves settings with flags over environment over config
// file over defaults.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("PDBSELECT_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if registryPath != "" {
		cfg.RegistryFile = registryPath
	} else if env := os.Getenv("PDBSELECT_REGISTRY"); env != "" {
		cfg.RegistryFile = env
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	} else if env := os.Getenv("PDBSELECT_CACHE_DIR"); env != "" {
		cfg.CacheDir = env
	}
	return cfg, nil
}

func openRegistry() (*registry.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	src, err := source.NewRCSBSource(source.Config{
		BaseURL:  cfg.DownloadURL,
		CacheDir: cfg.CacheDir,
		Timeout:  cfg.FetchTimeout(),
	}, logging.New("source"))
	if err != nil {
		return nil, err
	}
	reg, err := registry.New(cfg.RegistryFile, src, cfg.Criteria, logging.New("registry"))
	if err != nil {
		return nil, err
	}
	if cfg.HistoryDB != "" {
		evalLog, err := registry.OpenEvalLog(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		reg.SetEvalLog(evalLog)
	}
	return reg, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
