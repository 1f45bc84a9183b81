package config

import (
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/talc/internal/files"
	"git.home.luguber.info/inful/talc/internal/logfields"
)

// envFiles are loaded in order; earlier files win because godotenv never
// overrides variables that are already set.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles(dir string) {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if !files.Exists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(path), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.Path(path))
	}
}
