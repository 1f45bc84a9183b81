package build

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/talc/internal/files"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/logfields"
	"git.home.luguber.info/inful/talc/internal/markdown"
	"git.home.luguber.info/inful/talc/internal/templates"
)

// Metadata keys with special handling.
const (
	KeyTitle       = "title"
	KeyTags        = "tags"
	KeyExcerpt     = "excerpt"
	KeyFilename    = "filename"
	KeySlug        = "slug"
	KeySource      = "source"
	KeyCreateDate  = "create_date"
	KeyPublishDate = "publish_date"
	KeyUpdateDate  = "update_date"
)

// DateKeys are normalized with the configured date format and sort newest first.
var DateKeys = []string{KeyCreateDate, KeyPublishDate, KeyUpdateDate}

const excerptLength = 280

var slugSeparators = regexp.MustCompile(`[^0-9a-z]+`)

// Document is a converted and normalized published document.
type Document struct {
	// Source is the Markdown filename inside the published directory.
	Source   string
	HTML     string
	Metadata templates.Metadata
}

// Slugify lowercases title and replaces each run of characters outside
// [0-9a-z] with a single hyphen.
func Slugify(title string) string {
	return slugSeparators.ReplaceAllString(cases.Lower(language.Und).String(title), "-")
}

func (r *run) processDocuments(ctx context.Context) error {
	dir := r.cfg.Path(r.cfg.Published)
	sources, err := files.ReadFiles(dir, "md")
	if stderrors.Is(err, fs.ErrNotExist) {
		slog.Warn("Published directory does not exist", logfields.Path(dir))
		sources, err = nil, nil
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read published documents").
			WithContext("path", dir).
			Fatal().
			Build()
	}

	roots := make([]*templates.Node, len(r.posts))
	for i, t := range r.posts {
		root, err := r.parser.Parse(t.Template)
		if err != nil {
			return err
		}
		if root == nil {
			slog.Warn("Post template is missing or empty", logfields.Template(t.Template))
		}
		roots[i] = root
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := r.convert(src)
		if err != nil {
			return err
		}
		r.docs = append(r.docs, doc)
		r.files = append(r.files, r.renderPosts(doc, roots)...)
		slog.Debug("Processed document", logfields.Document(src.Filename), logfields.Output(doc.Metadata.String(KeyFilename)))
	}

	r.recorder.AddRendered("post", len(r.files))
	slog.Info("Processed documents", logfields.Count(len(r.docs)))
	return nil
}

// convert runs the Markdown collaborator and normalizes the metadata.
func (r *run) convert(src files.File) (Document, error) {
	res, err := r.converter.Convert([]byte(src.Contents))
	if err != nil {
		return Document{}, errors.WrapError(err, errors.CategoryMarkdown, "failed to convert document").
			WithContext("document", src.Filename).
			Build()
	}

	meta := templates.Metadata(res.Metadata).Clone()
	for _, key := range DateKeys {
		v, ok := meta[key]
		if !ok {
			continue
		}
		normalized, err := r.dates.Normalize(v)
		if err != nil {
			return Document{}, errors.WrapError(err, errors.CategoryValidation, "invalid date").
				WithContext("document", src.Filename).
				WithContext("key", key).
				Build()
		}
		if normalized == "" {
			delete(meta, key)
			continue
		}
		meta[key] = normalized
	}
	if v, ok := meta[KeyTags]; ok {
		meta[KeyTags] = NormalizeTags(v)
	}
	if strings.TrimSpace(meta.String(KeyExcerpt)) == "" {
		if excerpt := markdown.Excerpt(res.HTML, excerptLength); excerpt != "" {
			meta[KeyExcerpt] = excerpt
		}
	}

	title := strings.TrimSpace(meta.String(KeyTitle))
	if title == "" {
		title = strings.TrimSuffix(src.Filename, filepath.Ext(src.Filename))
	}
	slug := Slugify(title)
	meta[KeySlug] = slug
	meta[KeyFilename] = slug + ".html"
	meta[KeySource] = src.Filename

	return Document{Source: src.Filename, HTML: res.HTML, Metadata: meta}, nil
}

// NormalizeTags accepts a comma separated string or a list and returns
// trimmed lowercase tags with empties dropped.
func NormalizeTags(v any) []string {
	var raw []string
	switch val := v.(type) {
	case nil:
	case string:
		raw = strings.Split(val, ",")
	case []string:
		raw = val
	case []any:
		for _, item := range val {
			raw = append(raw, templates.Stringify(item))
		}
	default:
		raw = strings.Split(templates.Stringify(val), ",")
	}

	lower := cases.Lower(language.Und)
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = lower.String(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// renderPosts renders doc through every post template. Without post
// templates the converted HTML is the output.
func (r *run) renderPosts(doc Document, roots []*templates.Node) []RenderedFile {
	filename := doc.Metadata.String(KeyFilename)
	if len(roots) == 0 {
		return []RenderedFile{{Filename: filename, Contents: doc.HTML, Metadata: doc.Metadata}}
	}

	out := make([]RenderedFile, 0, len(roots))
	for _, root := range roots {
		out = append(out, RenderedFile{
			Filename: filename,
			Contents: r.renderer.Render(root, doc.Metadata, nil, doc.HTML),
			Metadata: doc.Metadata,
		})
	}
	return out
}
