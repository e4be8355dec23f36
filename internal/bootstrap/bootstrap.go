// Package bootstrap turns configuration into the components the CLI
// commands share.
package bootstrap

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/learnmap/models"
	"github.com/dtnitsch/learnmap/pkg/analysis"
	"github.com/dtnitsch/learnmap/pkg/caching"
	"github.com/dtnitsch/learnmap/pkg/content"
	"github.com/dtnitsch/learnmap/pkg/db"
	"github.com/dtnitsch/learnmap/pkg/fetcher"
	"github.com/dtnitsch/learnmap/pkg/language"
	"github.com/dtnitsch/learnmap/pkg/logger"
	"github.com/dtnitsch/learnmap/pkg/summary"
)

// Config loads configuration for the running command, applies the global
// flag overrides and initialises logging.
func Config(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if c.Bool("quiet") {
		cfg.Log.Level = "error"
	}
	if v := c.String("db"); v != "" {
		cfg.DB.Path = v
	}
	if v := c.String("model"); v != "" {
		cfg.LLM.Model = v
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// Analyzer wires the summary generator and, when enabled, the language detector.
func Analyzer(cfg *models.Config) (*analysis.Analyzer, error) {
	gen, err := summary.NewGenerator(summary.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, err
	}

	var opts []analysis.Option
	if cfg.Language.Enabled {
		detector, err := language.NewDetector(cfg.Language.Codes)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize language detection: %w", err)
		}
		opts = append(opts, analysis.WithLanguageDetector(detector))
	}

	logger.Log.WithField("model", cfg.LLM.Model).WithField("endpoint", cfg.LLM.BaseURL).Debug("analyzer ready")
	return analysis.New(gen, opts...), nil
}

// Resolver wires page fetching with the optional on-disk cache.
func Resolver(cfg *models.Config) (*content.Resolver, error) {
	var opts []fetcher.Option
	if cfg.Fetch.CacheDir != "" {
		cache, err := caching.NewCache(cfg.Fetch.CacheDir, cfg.Fetch.CacheTTL)
		if err != nil {
			return nil, err
		}
		if removed, err := cache.Prune(); err != nil {
			logger.Log.WithError(err).Warn("failed to prune page cache")
		} else if removed > 0 {
			logger.Log.WithField("removed", removed).Info("pruned expired pages from cache")
		}
		opts = append(opts, fetcher.WithCache(cache))
	}
	return content.NewResolver(fetcher.NewFetcher(cfg.Fetch.Timeout, opts...)), nil
}

// History opens the analysis store. It returns nil when history is disabled.
func History(cfg *models.Config) (*db.DB, error) {
	if cfg.DB.Path == "" {
		return nil, nil
	}
	store, err := db.Open(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return store, nil
}

// RequireHistory is History for commands that cannot run without it.
func RequireHistory(cfg *models.Config) (*db.DB, error) {
	if cfg.DB.Path == "" {
		return nil, fmt.Errorf("history is disabled; set db.path, LEARNMAP_DB or --db")
	}
	return History(cfg)
}

// GlobalFlags are accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   models.DefaultConfigFile,
			Usage:   "path to the YAML config file",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, warn, error",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only log errors",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "analysis history database path (enables history)",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "summarization model name",
		},
	}
}
