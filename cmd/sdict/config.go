package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultDB     = "sdict.db"
	defaultBucket = "default"
)

type Config struct {
	DB      string `yaml:"db"`
	Bucket  string `yaml:"bucket"`
	Verbose bool   `yaml:"verbose"`
}

// LoadConfig reads the YAML file at path (if path is not empty), then
// applies environment overrides and defaults.
func LoadConfig(path string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("SDICT_DB"); ok && v != "" {
		c.DB = v
	}
	if v, ok := lookup("SDICT_BUCKET"); ok && v != "" {
		c.Bucket = v
	}
	if v, ok := lookup("SDICT_VERBOSE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SDICT_VERBOSE: %w", err)
		}
		c.Verbose = b
	}
	return nil
}

// Validate fills in defaults and checks that db can be a database file.
func (c *Config) Validate() error {
	if c.DB == "" {
		c.DB = defaultDB
	}
	if c.Bucket == "" {
		c.Bucket = defaultBucket
	}
	if fi, err := os.Stat(c.DB); err == nil && fi.IsDir() {
		return fmt.Errorf("db %s is a directory", c.DB)
	}
	return nil
}
