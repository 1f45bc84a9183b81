package config

import (
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/talc/internal/dates"
	"git.home.luguber.info/inful/talc/internal/files"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/logfields"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if c.Assets != "" && !files.IsDir(c.AssetsDir()) {
		return errors.ConfigError("assets directory does not exist").
			WithContext("path", c.AssetsDir()).
			Build()
	}
	if err := dates.Validate(c.DateFormat); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid date_format").
			WithContext("date_format", c.DateFormat).
			Build()
	}

	for i, t := range c.Pages.Templates {
		if t.Template == "" {
			return errors.ConfigError("template path is required").
				WithContext("index", i).
				Build()
		}
		switch t.Role() {
		case RoleUnclassified:
			slog.Warn("Template has unknown type and will be ignored",
				logfields.Template(t.Template),
				slog.String("type", t.Type))
		case RoleListing:
			for _, key := range t.SortBy {
				if strings.TrimSpace(key) == "" {
					return errors.ConfigError("empty sort key").
						WithContext("template", t.Template).
						Build()
				}
			}
		case RolePost:
		}
	}

	if c.Feed != nil {
		if err := c.Feed.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f *FeedConfig) validate() error {
	if _, err := ParseFeedFormat(f.Format); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid feed format").Build()
	}
	var missing []string
	if strings.TrimSpace(f.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(f.Link) == "" {
		missing = append(missing, "link")
	}
	if len(missing) > 0 {
		return errors.ConfigError(fmt.Sprintf("feed is missing %s", strings.Join(missing, ", "))).Build()
	}
	if f.Limit < 0 {
		return errors.ConfigError("feed limit must not be negative").
			WithContext("limit", f.Limit).
			Build()
	}
	return nil
}
