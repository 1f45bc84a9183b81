package config

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/talc/internal/files"
	"git.home.luguber.info/inful/talc/internal/foundation/errors"
)

const exampleConfig = `# talc site configuration
built: built
date_format: "%Y-%m-%d %H:%M:%S"
drafts: drafts
published: published
updating: updating
# assets: assets

pages:
  directory: templates
  templates:
    - template: post.html
      type: post
    - template: index.html
      type: listing
      sort_by: [publish_date]
      filename: index.html

# feed:
#   title: My site
#   link: https://example.com/
#   format: atom

logging:
  level: info
  format: text
`

const examplePostTemplate = `<!DOCTYPE html>
<html>
<head><title><!-- talc:title --></title></head>
<body>
<article>
<!-- talc:content -->
</article>
</body>
</html>
`

const exampleIndexTemplate = `<!DOCTYPE html>
<html>
<body>
<ul>
<!-- talc:for:files -->
<li><a href="<!-- talc:filename -->"><!-- talc:title --></a></li>
<!-- talc:endfor -->
</ul>
</body>
</html>
`

// Init writes an example configuration, the content directories and
// starter templates into dir. Existing files are kept unless force is set.
func Init(dir string, force bool) error {
	path := filepath.Join(dir, FileName)
	if files.Exists(path) && !force {
		return errors.ConfigError("configuration already exists").
			WithContext("path", path).
			Build()
	}

	for _, sub := range []string{DefaultBuiltDir, DefaultDraftsDir, DefaultPublishedDir, DefaultUpdatingDir, DefaultPagesDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
				WithContext("path", sub).
				Build()
		}
	}

	starters := map[string]string{
		path: exampleConfig,
		filepath.Join(dir, DefaultPagesDir, "post.html"):  examplePostTemplate,
		filepath.Join(dir, DefaultPagesDir, "index.html"): exampleIndexTemplate,
	}
	for target, contents := range starters {
		if target != path && files.Exists(target) && !force {
			continue
		}
		if err := files.WriteFile(target, contents); err != nil {
			return err
		}
	}
	return nil
}
