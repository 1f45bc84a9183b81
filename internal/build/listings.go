package build

import (
	"context"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/talc/internal/config"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/logfields"
	"git.home.luguber.info/inful/talc/internal/templates"
)

// DefaultListingFilename names listing outputs without a filename.
const DefaultListingFilename = "index.html"

// FilesVariable holds the listed documents inside a listing template.
const FilesVariable = "files"

type listingTemplate struct {
	config.TemplateConfig
	transformer Transformer
}

func (r *run) compileListings(ctx context.Context) error {
	rendered := 0
	for _, lt := range r.listings {
		if err := ctx.Err(); err != nil {
			return err
		}

		docs := make([]templates.Metadata, len(r.docs))
		for i, doc := range r.docs {
			docs[i] = doc.Metadata.Clone()
		}
		NewSorter(lt.SortBy, r.dates).Sort(docs)

		outputs, err := lt.transformer.Transform(docs)
		if err != nil {
			return errors.WrapError(err, errors.CategoryBuild, "listing transformer failed").
				WithContext("template", lt.Template).
				Build()
		}

		for _, out := range outputs {
			file, err := r.renderListing(lt, out)
			if err != nil {
				return err
			}
			r.files = append(r.files, file)
			rendered++
			slog.Debug("Rendered listing", logfields.Template(lt.Template), logfields.Output(file.Filename), logfields.Count(len(out.Files)))
		}
	}

	r.recorder.AddRendered("listing", rendered)
	if rendered > 0 {
		slog.Info("Compiled listings", logfields.Count(rendered))
	}
	return nil
}

func (r *run) renderListing(lt listingTemplate, out Output) (RenderedFile, error) {
	name := lt.Template
	if out.Template != "" {
		name = out.Template
	}
	root, err := r.parser.Parse(name)
	if err != nil {
		return RenderedFile{}, err
	}

	data := templates.Metadata{}
	for k, v := range out.Metadata {
		data[k] = v
	}
	data[FilesVariable] = out.Files

	filename := out.Filename
	if filename == "" {
		filename = lt.Filename
	}
	if filename == "" {
		filename = DefaultListingFilename
	}

	return RenderedFile{
		Filename: filename,
		Contents: tidyListing(r.renderer.Render(root, data, nil, "")),
		Metadata: data,
	}, nil
}

// tidyListing empties whitespace-only lines and ends the text with exactly
// one newline.
func tidyListing(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}
