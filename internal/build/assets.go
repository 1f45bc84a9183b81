package build

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/talc/internal/files"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
	"git.home.luguber.info/inful/talc/internal/logfields"
	"git.home.luguber.info/inful/talc/internal/templates"
)

// contentAssetPattern matches asset markers written in Markdown, such as
// ![logo](%talc:asset:img/logo.png%). Goldmark escapes % in link
// destinations, so the %25 spelling is accepted as well.
var contentAssetPattern = regexp.MustCompile(`%(?:25)?talc:asset:([^%\s"'<>]+)%(?:25)?`)

// CollectAssets rewrites content asset markers in every file to their bare
// path and records each path in set, in first-seen order.
func CollectAssets(outputs []RenderedFile, set *templates.AssetSet) []RenderedFile {
	out := make([]RenderedFile, len(outputs))
	for i, f := range outputs {
		f.Contents = contentAssetPattern.ReplaceAllStringFunc(f.Contents, func(marker string) string {
			p := contentAssetPattern.FindStringSubmatch(marker)[1]
			set.Add(p)
			return p
		})
		out[i] = f
	}
	return out
}

type assetCopy struct {
	asset  string
	source string
	dest   string
}

// resolveAsset maps an asset reference to its source file and its path below
// the output directory. With an assets root, references are relative to it
// and a leading root prefix is stripped from the destination. References
// that climb out of their root are rejected.
func resolveAsset(root, assetsRoot, assetsName, asset string) (assetCopy, error) {
	rel := path.Clean(strings.TrimPrefix(asset, "/"))
	base := root
	if assetsRoot != "" {
		prefix := path.Clean(filepath.ToSlash(assetsName)) + "/"
		rel = strings.TrimPrefix(rel, prefix)
		base = assetsRoot
	}
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return assetCopy{}, &AssetPathError{Path: asset}
	}
	return assetCopy{asset: asset, source: filepath.Join(base, filepath.FromSlash(rel)), dest: rel}, nil
}

// collectAssets gathers content and template assets, checks that every
// source exists and renames duplicate outputs.
func (r *run) collectAssets(ctx context.Context) error {
	content := templates.NewAssetSet()
	r.files = CollectAssets(r.files, content)
	content.Merge(r.assets)
	r.assets = content

	r.copies = r.copies[:0]
	for _, asset := range r.assets.Paths() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := resolveAsset(r.cfg.Root, r.cfg.AssetsDir(), r.cfg.Assets, asset)
		if err != nil {
			return errors.WrapError(err, errors.CategoryAsset, "invalid asset path").
				WithContext("asset", asset).
				Build()
		}
		if !files.Exists(c.source) {
			return errors.WrapError(&MissingAssetError{Path: asset, Source: c.source}, errors.CategoryAsset, "missing asset").
				WithContext("asset", asset).
				Build()
		}
		r.copies = append(r.copies, c)
		slog.Debug("Collected asset", logfields.Asset(asset))
	}

	r.files = DedupeFilenames(r.files)
	r.recorder.AddAssets(len(r.copies))
	return nil
}

// write writes rendered files into the output directory and copies assets.
func (r *run) write(ctx context.Context) (int, error) {
	dir := r.cfg.Path(r.cfg.Built)
	batch := make([]files.File, len(r.files))
	for i, f := range r.files {
		batch[i] = files.File{Filename: f.Filename, Contents: f.Contents}
	}

	written, err := files.WriteFiles(dir, batch)
	if err != nil {
		return written, errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", dir).
			Fatal().
			Build()
	}

	if err := ctx.Err(); err != nil {
		return written, err
	}
	sources := make([]string, len(r.copies))
	dests := make(map[string]string, len(r.copies))
	for i, c := range r.copies {
		sources[i] = c.source
		dests[c.source] = c.dest
	}
	rename := func(src string) string { return dests[src] }
	if err := files.CopyFiles(dir, sources, rename); err != nil {
		return written, errors.WrapError(err, errors.CategoryAsset, "failed to copy assets").
			WithContext("path", dir).
			Build()
	}

	slog.Info("Wrote output", logfields.Path(dir), logfields.Count(written), slog.Int("assets", len(r.copies)))
	return written, nil
}
