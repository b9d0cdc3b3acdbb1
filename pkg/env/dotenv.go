// Package env loads .env files into the process environment.
package env

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func LoadFromDir(dir string) error {
	return Load(filepath.Join(dir, ".env"))
}

// Load applies path without overwriting variables already set. A missing
// file is not an error.
func Load(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}
