package main

import (
	"io"
	"log/slog"

	"github.com/andreyvit/sdict"
	"github.com/andreyvit/sdict/geom"
	"github.com/andreyvit/sdict/surrogate"
)

type env struct {
	opts   *Options
	stdout io.Writer
	stderr io.Writer
}

// config merges the config file, the environment and global flags.
func (e *env) config() (*Config, error) {
	cfg, err := LoadConfig(e.opts.Config)
	if err != nil {
		return nil, err
	}
	if e.opts.DB != "" {
		cfg.DB = e.opts.DB
	}
	if e.opts.Bucket != "" {
		cfg.Bucket = e.opts.Bucket
	}
	if e.opts.Verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e *env) open() (*sdict.Store, *Config, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))

	surrogates := surrogate.NewRegistry()
	geom.AddSurrogates(surrogates)

	store, err := sdict.Open(cfg.DB, sdict.Options{
		Logger:     logger,
		Verbose:    cfg.Verbose,
		Surrogates: surrogates,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opened", "db", cfg.DB, "bucket", cfg.Bucket)
	return store, cfg, nil
}
