package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// settings holds the environment-derived defaults shared by every
// command. Paths fall back to ~/.watchdag when neither the environment
// nor a flag provides them.
type settings struct {
	RegistryPath string `env:"WATCHDAG_REGISTRY"`
	DatabasePath string `env:"WATCHDAG_DB"`
	BaseURL      string `env:"WATCHDAG_BASE_URL" envDefault:"http://localhost:8080"`
}

func loadSettings() (settings, error) {
	var s settings
	if err := env.Parse(&s); err != nil {
		return settings{}, fmt.Errorf("parse environment: %w", err)
	}

	if s.RegistryPath == "" || s.DatabasePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return settings{}, fmt.Errorf("determine home directory: %w", err)
		}
		if s.RegistryPath == "" {
			s.RegistryPath = filepath.Join(home, ".watchdag", "registry.json")
		}
		if s.DatabasePath == "" {
			s.DatabasePath = filepath.Join(home, ".watchdag", "watchdag.db")
		}
	}

	return s, nil
}
