package sqlite

import (
	"fmt"
	"path/filepath"
)

// Config is SQLite connection configuration: a file path or ":memory:".
type Config struct {
	Path string `yaml:"path"`
}

func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("sqlite path is required")
	}
	if c.Path == ":memory:" {
		return nil
	}
	if !filepath.IsAbs(c.Path) {
		absPath, err := filepath.Abs(c.Path)
		if err != nil {
			return fmt.Errorf("invalid sqlite path: %w", err)
		}
		c.Path = absPath
	}
	return nil
}

func (c *Config) DSN() string {
	return c.Path
}
