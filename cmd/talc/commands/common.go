// Package commands implements the talc subcommands.
package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/talc/internal/config"
	"git.home.luguber.info/inful/talc/internal/dates"
	"git.home.luguber.info/inful/talc/internal/drafts"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (default: talc.yaml found from the working directory upwards)"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log format (text|json)" env:"TALC_LOG_FORMAT"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Render published documents into the output directory"`
	New     NewCmd     `cmd:"" help:"Create a new draft"`
	Publish PublishCmd `cmd:"" help:"Publish a draft"`
	Update  UpdateCmd  `cmd:"" help:"Start or finish updating a published document"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever sources change"`
	Init    InitCmd    `cmd:"" help:"Create a configuration file, directories and starter templates"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(c.LogFormat, level))
	return nil
}

// loadConfig loads the configuration and applies its logging settings
// unless the command line already chose them.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.Config
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to resolve working directory").Build()
		}
		if path, err = config.Find(wd); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if !c.Verbose {
		format := c.LogFormat
		if format == "" {
			format = cfg.Logging.Format
		}
		slog.SetDefault(newLogger(format, config.NormalizeLogLevel(cfg.Logging.Level).SlogLevel()))
	}
	slog.Debug("Loaded configuration", slog.String("path", path))
	return cfg, nil
}

func newLogger(format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if config.NormalizeLogFormat(strings.TrimSpace(format)) == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newDraftService(cfg *config.Config) (*drafts.Service, error) {
	d, err := dates.New(cfg.DateFormat)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid date_format").Build()
	}
	return drafts.NewService(drafts.Dirs{
		Drafts:    cfg.Path(cfg.Drafts),
		Published: cfg.Path(cfg.Published),
		Updating:  cfg.Path(cfg.Updating),
	}, d), nil
}
