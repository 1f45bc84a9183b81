package config

import (
	"strings"

	"git.home.luguber.info/inful/talc/internal/dates"
)

// Default directory names, relative to the configuration root.
const (
	DefaultBuiltDir     = "built"
	DefaultDraftsDir    = "drafts"
	DefaultPublishedDir = "published"
	DefaultUpdatingDir  = "updating"
	DefaultPagesDir     = "templates"
	DefaultFeedLimit    = 20
)

// ConfigDefaultApplier fills in defaults for one configuration domain.
type ConfigDefaultApplier interface {
	Domain() string
	ApplyDefaults(cfg *Config) error
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []ConfigDefaultApplier
}

// NewDefaultApplier creates a composite applier with every domain applier.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []ConfigDefaultApplier{
			directoryDefaults{},
			pagesDefaults{},
			feedDefaults{},
			loggingDefaults{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

type directoryDefaults struct{}

func (directoryDefaults) Domain() string { return "directories" }

func (directoryDefaults) ApplyDefaults(cfg *Config) error {
	setDefault(&cfg.Built, DefaultBuiltDir)
	setDefault(&cfg.Drafts, DefaultDraftsDir)
	setDefault(&cfg.Published, DefaultPublishedDir)
	setDefault(&cfg.Updating, DefaultUpdatingDir)
	setDefault(&cfg.DateFormat, dates.DefaultPattern)
	cfg.Assets = strings.TrimSpace(cfg.Assets)
	return nil
}

type pagesDefaults struct{}

func (pagesDefaults) Domain() string { return "pages" }

func (pagesDefaults) ApplyDefaults(cfg *Config) error {
	setDefault(&cfg.Pages.Directory, DefaultPagesDir)
	for i := range cfg.Pages.Templates {
		t := &cfg.Pages.Templates[i]
		t.Template = strings.TrimSpace(t.Template)
		if t.Role() == RoleListing && len(t.SortBy) == 0 {
			t.SortBy = []string{"publish_date"}
		}
	}
	return nil
}

type feedDefaults struct{}

func (feedDefaults) Domain() string { return "feed" }

func (feedDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Feed == nil {
		return nil
	}
	setDefault(&cfg.Feed.Format, string(FeedFormatAtom))
	if cfg.Feed.Filename == "" {
		if NormalizeFeedFormat(cfg.Feed.Format) == FeedFormatRSS {
			cfg.Feed.Filename = "rss.xml"
		} else {
			cfg.Feed.Filename = "atom.xml"
		}
	}
	if cfg.Feed.Limit == 0 {
		cfg.Feed.Limit = DefaultFeedLimit
	}
	return nil
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = string(NormalizeLogLevel(cfg.Logging.Level))
	cfg.Logging.Format = string(NormalizeLogFormat(cfg.Logging.Format))
	return nil
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}
