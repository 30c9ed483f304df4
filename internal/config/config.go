package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root   string   `yaml:"root"`
		Ignore []string `yaml:"ignore"`
	} `yaml:"project"`
	Index struct {
		Database string `yaml:"database"`
	} `yaml:"index"`
}

// LoadConfig reads the YAML config, layering .env and environment
// variable overrides on top.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if db := os.Getenv("STUBDEX_DB"); db != "" {
		cfg.Index.Database = db
	}
	if root := os.Getenv("STUBDEX_ROOT"); root != "" {
		cfg.Project.Root = root
	}

	if cfg.Index.Database == "" {
		cfg.Index.Database = "stubdex.db"
	}
	if cfg.Project.Root == "" {
		cfg.Project.Root = "."
	}

	return &cfg, nil
}
