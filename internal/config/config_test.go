package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/talc/internal/dates"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/logfields"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
pages:
  templates:
    - template: post.html
      type: post
    - template: index.html
      type: listing
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Root)
	assert.Equal(t, DefaultBuiltDir, cfg.Built)
	assert.Equal(t, DefaultDraftsDir, cfg.Drafts)
	assert.Equal(t, DefaultPublishedDir, cfg.Published)
	assert.Equal(t, DefaultUpdatingDir, cfg.Updating)
	assert.Equal(t, dates.DefaultPattern, cfg.DateFormat)
	assert.Equal(t, filepath.Join(dir, DefaultPagesDir), cfg.TemplatesDir())
	assert.Empty(t, cfg.AssetsDir())
	assert.Equal(t, string(LogLevelInfo), cfg.Logging.Level)
	assert.Equal(t, string(LogFormatText), cfg.Logging.Format)

	require.Len(t, cfg.Pages.Templates, 2)
	assert.Equal(t, RolePost, cfg.Pages.Templates[0].Role())
	assert.Empty(t, cfg.Pages.Templates[0].SortBy)
	assert.Equal(t, RoleListing, cfg.Pages.Templates[1].Role())
	assert.Equal(t, []string{"publish_date"}, cfg.Pages.Templates[1].SortBy)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TALC_TEST_BUILT", "public")
	path := writeConfig(t, dir, "built: ${TALC_TEST_BUILT}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "public", cfg.Built)
	assert.Equal(t, filepath.Join(dir, "public"), cfg.Path(cfg.Built))
}

func TestLoadReadsEnvFileWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TALC_TEST_DRAFTS", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("TALC_TEST_DRAFTS=from-file\nTALC_TEST_UPDATING=pending\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("TALC_TEST_UPDATING") })
	path := writeConfig(t, dir, "drafts: ${TALC_TEST_DRAFTS}\nupdating: ${TALC_TEST_UPDATING}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Drafts)
	assert.Equal(t, "pending", cfg.Updating)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bilt: out\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets"), 0o750))

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "existing assets", mutate: func(c *Config) { c.Assets = "assets" }},
		{name: "missing assets", mutate: func(c *Config) { c.Assets = "nope" }, wantErr: true},
		{name: "date format without conversion", mutate: func(c *Config) { c.DateFormat = "YYYY" }, wantErr: true},
		{name: "template without path", mutate: func(c *Config) {
			c.Pages.Templates = []TemplateConfig{{Type: "post"}}
		}, wantErr: true},
		{name: "unknown role is ignored", mutate: func(c *Config) {
			c.Pages.Templates = []TemplateConfig{{Template: "x.html", Type: "sidebar"}}
		}},
		{name: "blank sort key", mutate: func(c *Config) {
			c.Pages.Templates = []TemplateConfig{{Template: "x.html", Type: "listing", SortBy: []string{" "}}}
		}, wantErr: true},
		{name: "feed without link", mutate: func(c *Config) {
			c.Feed = &FeedConfig{Title: "Site", Format: "atom"}
		}, wantErr: true},
		{name: "feed with bad format", mutate: func(c *Config) {
			c.Feed = &FeedConfig{Title: "Site", Link: "https://example.com", Format: "json"}
		}, wantErr: true},
		{name: "rss feed", mutate: func(c *Config) {
			c.Feed = &FeedConfig{Title: "Site", Link: "https://example.com", Format: "RSS"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Root: dir}
			tt.mutate(cfg)
			require.NoError(t, NewDefaultApplier().ApplyDefaults(cfg))
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidate_UnknownRoleWarning(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := &Config{Root: t.TempDir(), Pages: PagesConfig{Templates: []TemplateConfig{{Template: "x.html", Type: "sidebar"}}}}
	require.NoError(t, NewDefaultApplier().ApplyDefaults(cfg))
	require.NoError(t, cfg.Validate())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "x.html", entry[logfields.KeyTemplate])
	assert.Equal(t, "sidebar", entry["type"])
}

func TestFeedDefaults(t *testing.T) {
	cfg := &Config{Feed: &FeedConfig{Format: "rss"}}
	require.NoError(t, NewDefaultApplier().ApplyDefaults(cfg))
	assert.Equal(t, "rss.xml", cfg.Feed.Filename)
	assert.Equal(t, DefaultFeedLimit, cfg.Feed.Limit)

	cfg = &Config{Feed: &FeedConfig{}}
	require.NoError(t, NewDefaultApplier().ApplyDefaults(cfg))
	assert.Equal(t, "atom", cfg.Feed.Format)
	assert.Equal(t, "atom.xml", cfg.Feed.Filename)
}

func TestNormalizeTemplateRole(t *testing.T) {
	assert.Equal(t, RolePost, NormalizeTemplateRole(" Post "))
	assert.Equal(t, RoleListing, NormalizeTemplateRole("listing"))
	assert.Equal(t, RoleUnclassified, NormalizeTemplateRole("other"))
	assert.Equal(t, RoleUnclassified, NormalizeTemplateRole(""))
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	path, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), path)

	_, err = Find(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, false))

	cfg, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.Len(t, cfg.Pages.Templates, 2)
	assert.FileExists(t, filepath.Join(dir, DefaultPagesDir, "post.html"))
	assert.DirExists(t, filepath.Join(dir, DefaultDraftsDir))

	err = Init(dir, false)
	require.Error(t, err)
	require.NoError(t, Init(dir, true))
}
