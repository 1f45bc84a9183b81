package build

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/gorilla/feeds"

	"git.home.luguber.info/inful/talc/internal/config"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/logfields"
	"git.home.luguber.info/inful/talc/internal/templates"
)

// KeyUID is the document identifier stamped by the draft workflow.
const KeyUID = "uid"

func (r *run) generateFeed(ctx context.Context) error {
	fc := r.cfg.Feed
	if fc == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	metas := make([]templates.Metadata, len(r.docs))
	htmlBySource := make(map[string]string, len(r.docs))
	for i, doc := range r.docs {
		metas[i] = doc.Metadata
		htmlBySource[doc.Source] = doc.HTML
	}
	NewSorter([]string{KeyPublishDate}, r.dates).Sort(metas)

	feed := &feeds.Feed{
		Title:       fc.Title,
		Link:        &feeds.Link{Href: fc.Link},
		Description: fc.Description,
		Id:          fc.Link,
	}
	if fc.Author != "" || fc.Email != "" {
		feed.Author = &feeds.Author{Name: fc.Author, Email: fc.Email}
	}

	for _, meta := range metas {
		if fc.Limit > 0 && len(feed.Items) >= fc.Limit {
			break
		}
		published, ok := r.parseDate(meta, KeyPublishDate)
		if !ok {
			slog.Debug("Skipping document without publish date in feed", logfields.Document(meta.String(KeySource)))
			continue
		}
		updated, ok := r.parseDate(meta, KeyUpdateDate)
		if !ok {
			updated = published
		}

		link, err := url.JoinPath(fc.Link, meta.String(KeyFilename))
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid feed link").
				WithContext("link", fc.Link).
				Build()
		}
		id := meta.String(KeyUID)
		if id == "" {
			id = link
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Title:       meta.String(KeyTitle),
			Link:        &feeds.Link{Href: link},
			Description: meta.String(KeyExcerpt),
			Id:          id,
			Created:     published,
			Updated:     updated,
			Content:     htmlBySource[meta.String(KeySource)],
		})
		if updated.After(feed.Updated) {
			feed.Updated = updated
		}
		if published.After(feed.Created) {
			feed.Created = published
		}
	}

	var contents string
	var err error
	switch config.NormalizeFeedFormat(fc.Format) {
	case config.FeedFormatRSS:
		contents, err = feed.ToRss()
	case config.FeedFormatAtom:
		contents, err = feed.ToAtom()
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryBuild, "failed to generate feed").
			WithContext("format", fc.Format).
			Build()
	}

	r.files = append(r.files, RenderedFile{Filename: fc.Filename, Contents: contents})
	r.recorder.AddRendered("feed", 1)
	slog.Info("Generated feed", logfields.Output(fc.Filename), logfields.Count(len(feed.Items)))
	return nil
}

func (r *run) parseDate(meta templates.Metadata, key string) (time.Time, bool) {
	raw := meta.String(key)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := r.dates.Parse(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
