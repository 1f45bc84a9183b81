// Package drafts moves Markdown documents through the drafts, published and
// updating directories and stamps their front matter along the way.
package drafts

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/talc/internal/dates"
	"git.home.luguber.info/inful/talc/internal/files"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/frontmatter"
	"git.home.luguber.info/inful/talc/internal/logfields"
)

// Update actions accepted by Service.Update.
const (
	ActionStart  = "start"
	ActionFinish = "finish"
)

// Dirs locates the workflow directories.
type Dirs struct {
	Drafts    string
	Published string
	Updating  string
}

// Service runs draft workflow operations.
type Service struct {
	dirs  Dirs
	dates *dates.Dates
}

// NewService returns a Service stamping dates with d.
func NewService(dirs Dirs, d *dates.Dates) *Service {
	return &Service{dirs: dirs, dates: d}
}

// New creates a draft for title and returns its path.
func (s *Service) New(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.ValidationError("draft title is required").Build()
	}
	name, err := slug.Normalize(title)
	if err != nil || name == "" {
		return "", errors.ValidationError("draft title has no usable characters").
			WithCause(err).
			WithContext("title", title).
			Build()
	}

	path := filepath.Join(s.dirs.Drafts, files.EnsureExt(name, "md"))
	if files.Exists(path) {
		return "", errors.ValidationError("draft already exists").WithContext("path", path).Build()
	}

	contents, err := frontmatter.Update([]byte(fmt.Sprintf("# %s\n\n", title)),
		frontmatter.Field{Key: keyTitle, Value: title},
		frontmatter.Field{Key: keyCreateDate, Value: s.dates.Current()},
		frontmatter.Field{Key: keyUID, Value: uuid.NewString()},
	)
	if err != nil {
		return "", errors.InternalError("failed to build draft front matter").WithCause(err).Build()
	}
	if err := files.WriteFile(path, string(contents)); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to write draft").WithContext("path", path).Build()
	}

	slog.Info("Draft created", logfields.Path(path))
	return path, nil
}

// Publish moves a draft into the published directory, stamping publish_date.
func (s *Service) Publish(name string) (string, error) {
	filename := files.EnsureExt(strings.TrimSpace(name), "md")
	src := filepath.Join(s.dirs.Drafts, filename)
	doc, fields, err := readDocument(src, "draft")
	if err != nil {
		return "", err
	}

	fp, err := Fingerprint(fields, doc.Body)
	if err != nil {
		return "", errors.InternalError("failed to fingerprint draft").WithCause(err).WithContext("path", src).Build()
	}
	if err := doc.Set(
		frontmatter.Field{Key: keyPublishDate, Value: s.dates.Current()},
		frontmatter.Field{Key: mdfp.FingerprintField, Value: fp},
	); err != nil {
		return "", errors.MarkdownError("failed to update front matter").WithCause(err).WithContext("path", src).Build()
	}

	dest := filepath.Join(s.dirs.Published, filename)
	if err := move(src, dest, doc.Bytes()); err != nil {
		return "", err
	}
	slog.Info("Draft published", logfields.Document(filename), logfields.Path(dest))
	return dest, nil
}

// Update dispatches a named update action.
func (s *Service) Update(action, name string) (string, error) {
	switch action {
	case ActionStart:
		return s.StartUpdate(name)
	case ActionFinish:
		return s.FinishUpdate(name)
	default:
		return "", errors.ValidationError(fmt.Sprintf("%q is not a known update action", action)).
			WithContext("known", ActionStart+", "+ActionFinish).
			Build()
	}
}

// StartUpdate copies a published document into the updating directory. A
// blank name does nothing.
func (s *Service) StartUpdate(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	filename := files.EnsureExt(name, "md")
	src := filepath.Join(s.dirs.Published, filename)
	contents, ok, err := files.ReadFile(src)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to read published document").WithContext("path", src).Build()
	}
	if !ok {
		return "", errors.NotFoundError("published document not found").WithContext("path", src).Build()
	}

	dest := filepath.Join(s.dirs.Updating, filename)
	if err := files.WriteFile(dest, contents); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to write updating copy").WithContext("path", dest).Build()
	}
	slog.Info("Update started", logfields.Document(filename), logfields.Path(dest))
	return dest, nil
}

// FinishUpdate moves a document from the updating directory back into the
// published directory. update_date is stamped only when the content
// fingerprint changed.
func (s *Service) FinishUpdate(name string) (string, error) {
	filename := files.EnsureExt(strings.TrimSpace(name), "md")
	src := filepath.Join(s.dirs.Updating, filename)
	doc, fields, err := readDocument(src, "updating document")
	if err != nil {
		return "", err
	}

	fp, err := Fingerprint(fields, doc.Body)
	if err != nil {
		return "", errors.InternalError("failed to fingerprint document").WithCause(err).WithContext("path", src).Build()
	}

	changed := fp != storedFingerprint(fields)
	if changed {
		if err := doc.Set(
			frontmatter.Field{Key: keyUpdateDate, Value: s.dates.Current()},
			frontmatter.Field{Key: mdfp.FingerprintField, Value: fp},
		); err != nil {
			return "", errors.MarkdownError("failed to update front matter").WithCause(err).WithContext("path", src).Build()
		}
	}

	dest := filepath.Join(s.dirs.Published, filename)
	if err := move(src, dest, doc.Bytes()); err != nil {
		return "", err
	}
	slog.Info("Update finished", logfields.Document(filename), slog.Bool("changed", changed))
	return dest, nil
}

func readDocument(path, what string) (frontmatter.Document, map[string]any, error) {
	contents, ok, err := files.ReadFile(path)
	if err != nil {
		return frontmatter.Document{}, nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read "+what).WithContext("path", path).Build()
	}
	if !ok {
		return frontmatter.Document{}, nil, errors.NotFoundError(what+" not found").WithContext("path", path).Build()
	}
	doc, err := frontmatter.Split([]byte(contents))
	if err != nil {
		return frontmatter.Document{}, nil, errors.WrapError(err, errors.CategoryMarkdown, "invalid front matter").WithContext("path", path).Build()
	}
	fields, err := doc.Fields()
	if err != nil {
		return frontmatter.Document{}, nil, errors.WrapError(err, errors.CategoryMarkdown, "invalid front matter").WithContext("path", path).Build()
	}
	return doc, fields, nil
}

func move(src, dest string, contents []byte) error {
	if err := files.WriteFile(dest, string(contents)); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write document").WithContext("path", dest).Build()
	}
	if err := files.DeleteFile(src); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to remove source document").WithContext("path", src).Build()
	}
	return nil
}
