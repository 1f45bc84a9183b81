// Package config loads talc.yaml.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/talc/internal/files"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "talc.yaml"

// Config is the site configuration. Directory values are relative to Root
// unless absolute.
type Config struct {
	// Root is the directory holding the configuration file.
	Root string `yaml:"-"`

	Assets     string         `yaml:"assets,omitempty"`
	Built      string         `yaml:"built"`
	DateFormat string         `yaml:"date_format"`
	Drafts     string         `yaml:"drafts"`
	Published  string         `yaml:"published"`
	Updating   string         `yaml:"updating"`
	Pages      PagesConfig    `yaml:"pages"`
	Feed       *FeedConfig    `yaml:"feed,omitempty"`
	Logging    LoggingConfig  `yaml:"logging"`
	Metrics    *MetricsConfig `yaml:"metrics,omitempty"`
}

// PagesConfig lists the templates rendered for every build.
type PagesConfig struct {
	Directory string           `yaml:"directory"`
	Templates []TemplateConfig `yaml:"templates"`
}

// TemplateConfig describes one template and its role.
type TemplateConfig struct {
	Template    string             `yaml:"template"`
	Type        string             `yaml:"type"`
	SortBy      []string           `yaml:"sort_by,omitempty"`
	Transformer *TransformerConfig `yaml:"transformer,omitempty"`
	Filename    string             `yaml:"filename,omitempty"`
}

// Role returns the normalized role of the template.
func (t TemplateConfig) Role() TemplateRole {
	return NormalizeTemplateRole(t.Type)
}

// TransformerConfig selects a listing transformer by name.
type TransformerConfig struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options,omitempty"`
}

// FeedConfig enables an Atom or RSS feed of published documents.
type FeedConfig struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
	Email       string `yaml:"email,omitempty"`
	Filename    string `yaml:"filename,omitempty"`
	Format      string `yaml:"format,omitempty"`
	Limit       int    `yaml:"limit,omitempty"`
}

// LoggingConfig controls the slog handler installed by the CLI.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig enables writing build metrics after each build.
type MetricsConfig struct {
	// Textfile is written in the Prometheus text format.
	Textfile string `yaml:"textfile,omitempty"`
}

// Find locates the configuration file by walking up from dir.
func Find(dir string) (string, error) {
	root, ok := files.FindRoot(dir, FileName)
	if !ok {
		return "", errors.NotFoundError("no " + FileName + " found").
			WithContext("path", dir).
			Build()
	}
	return filepath.Join(root, FileName), nil
}

// Load reads, expands, defaults and validates the configuration at path.
// Environment files next to it are loaded first and never override
// variables that are already set.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration path").WithContext("path", path).Build()
	}
	root := filepath.Dir(abs)
	loadEnvFiles(root)

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("configuration file not found").WithContext("path", abs).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").WithContext("path", abs).Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").WithContext("path", abs).Build()
	}
	cfg.Root = root

	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to apply defaults").WithContext("path", abs).Build()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML without applying defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// Path resolves a configured directory against Root.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// TemplatesDir returns the resolved templates directory.
func (c *Config) TemplatesDir() string {
	return c.Path(c.Pages.Directory)
}

// AssetsDir returns the resolved assets directory, or "" when unset.
func (c *Config) AssetsDir() string {
	return c.Path(c.Assets)
}
