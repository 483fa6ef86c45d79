package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the CLI configuration.
type Config struct {
	Provider    string
	DatabaseURL string
	Debug       bool
}

// Load reads configuration from, in rising priority: the config file
// (.quill.yaml in the working directory, the home directory or
// ~/.config/quill), QUILL_-prefixed environment variables, and .env /
// .env.local files.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(".quill")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "quill"))

	v.SetEnvPrefix("QUILL")
	v.AutomaticEnv()

	v.SetDefault("provider", "sqlite")
	v.SetDefault("debug", false)

	// A missing config file is fine; env and .env still apply.
	_ = v.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		Provider:    v.GetString("provider"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Debug:       v.GetBool("debug"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = v.GetString("database_url")
	}
	return cfg, nil
}

// Save writes the configuration to ~/.config/quill/.quill.yaml.
func Save(cfg *Config) error {
	v := viper.New()
	v.Set("provider", cfg.Provider)
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("debug", cfg.Debug)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(home, ".config", "quill")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}
	return v.WriteConfigAs(filepath.Join(configPath, ".quill.yaml"))
}
