package drafts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/talc/internal/dates"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/frontmatter"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (*Service, Dirs, *clock) {
	t.Helper()
	root := t.TempDir()
	dirs := Dirs{
		Drafts:    filepath.Join(root, "drafts"),
		Published: filepath.Join(root, "published"),
		Updating:  filepath.Join(root, "updating"),
	}
	c := &clock{now: time.Date(2022, 2, 2, 9, 30, 5, 0, time.UTC)}
	d, err := dates.New("", dates.WithClock(c.Now), dates.WithLocation(time.UTC))
	require.NoError(t, err)
	return NewService(dirs, d), dirs, c
}

func readFields(t *testing.T, path string) (map[string]any, string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := frontmatter.Split(raw)
	require.NoError(t, err)
	fields, err := doc.Fields()
	require.NoError(t, err)
	return fields, string(doc.Body)
}

func TestNew(t *testing.T) {
	svc, dirs, _ := newTestService(t)

	path, err := svc.New("  Hello World  ")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dirs.Drafts, "hello-world.md"), path)

	fields, body := readFields(t, path)
	assert.Equal(t, "Hello World", fields["title"])
	assert.Equal(t, "2022-02-02 09:30:05", fields["create_date"])
	assert.Len(t, fields["uid"], 36)
	assert.Equal(t, "# Hello World\n\n", body)

	_, err = svc.New("Hello World")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = svc.New("   ")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestPublish(t *testing.T) {
	svc, dirs, c := newTestService(t)
	draft, err := svc.New("First Post")
	require.NoError(t, err)

	c.now = c.now.Add(24 * time.Hour)
	dest, err := svc.Publish("first-post")
	require.NoError(t, err)

	assert.NoFileExists(t, draft)
	assert.Equal(t, filepath.Join(dirs.Published, "first-post.md"), dest)

	fields, _ := readFields(t, dest)
	assert.Equal(t, "2022-02-03 09:30:05", fields["publish_date"])
	assert.NotEmpty(t, fields[mdfp.FingerprintField])

	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "---\ntitle: First Post\ncreate_date: 2022-02-02 09:30:05\n"))
}

func TestPublish_MissingDraft(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Publish("nope")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestUpdateCycle_StampsOnlyOnChange(t *testing.T) {
	svc, dirs, c := newTestService(t)
	_, err := svc.New("Post")
	require.NoError(t, err)
	published, err := svc.Publish("post.md")
	require.NoError(t, err)

	// Unchanged content keeps the document free of update_date.
	c.now = c.now.Add(time.Hour)
	updating, err := svc.Update(ActionStart, "post")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dirs.Updating, "post.md"), updating)
	_, err = svc.Update(ActionFinish, "post")
	require.NoError(t, err)
	assert.NoFileExists(t, updating)
	fields, _ := readFields(t, published)
	assert.NotContains(t, fields, "update_date")

	// Edited content gets stamped.
	_, err = svc.StartUpdate("post")
	require.NoError(t, err)
	raw, err := os.ReadFile(updating)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(updating, append(raw, []byte("More words.\n")...), 0o600))

	c.now = c.now.Add(time.Hour)
	_, err = svc.FinishUpdate("post")
	require.NoError(t, err)
	fields, body := readFields(t, published)
	assert.Equal(t, "2022-02-02 11:30:05", fields["update_date"])
	assert.Contains(t, body, "More words.")
}

func TestUpdate_UnknownAction(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Update("restart", "post")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Contains(t, err.Error(), `"restart" is not a known update action`)
}

func TestStartUpdate_BlankNameIsNoop(t *testing.T) {
	svc, dirs, _ := newTestService(t)
	path, err := svc.StartUpdate("  ")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NoDirExists(t, dirs.Updating)
}

func TestFingerprint_IgnoresWorkflowFields(t *testing.T) {
	body := []byte("# Title\n")
	a, err := Fingerprint(map[string]any{"title": "x", "uid": "1", "publish_date": "2020-01-01"}, body)
	require.NoError(t, err)
	b, err := Fingerprint(map[string]any{"title": "x", "uid": "2", "update_date": "2021-01-01", mdfp.FingerprintField: "old"}, body)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Fingerprint(map[string]any{"title": "y"}, body)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
