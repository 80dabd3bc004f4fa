package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Load reads the optional .env files into the process environment and then
// parses env tags into cfg.
//
//	type Config struct {
//	    Port     int    `env:"SERVER_PORT" envDefault:"8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", f, err)
			}
			log.Printf("notice: %s not found, using system environment variables", f)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
