package build

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/talc/internal/templates"
)

func TestCollectAssets(t *testing.T) {
	set := templates.NewAssetSet()
	in := []RenderedFile{
		{Filename: "a.html", Contents: `<img src="%talc:asset:img/logo.png%"><img src="%25talc:asset:img/b.png%25">`},
		{Filename: "b.html", Contents: `<a href="%talc:asset:img/logo.png%">x</a> 100% sure`},
	}

	out := CollectAssets(in, set)

	assert.Equal(t, `<img src="img/logo.png"><img src="img/b.png">`, out[0].Contents)
	assert.Equal(t, `<a href="img/logo.png">x</a> 100% sure`, out[1].Contents)
	assert.Equal(t, []string{"img/logo.png", "img/b.png"}, set.Paths())
	assert.Contains(t, in[0].Contents, "%talc:asset:")
}

func TestResolveAsset(t *testing.T) {
	root := filepath.FromSlash("/site")

	c, err := resolveAsset(root, "", "", "img/logo.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "img", "logo.png"), c.source)
	assert.Equal(t, "img/logo.png", c.dest)

	assetsRoot := filepath.Join(root, "static")
	c, err = resolveAsset(root, assetsRoot, "static", "static/img/logo.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(assetsRoot, "img", "logo.png"), c.source)
	assert.Equal(t, "img/logo.png", c.dest)

	c, err = resolveAsset(root, assetsRoot, "static", "css/site.css")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(assetsRoot, "css", "site.css"), c.source)
	assert.Equal(t, "css/site.css", c.dest)

	c, err = resolveAsset(root, "", "", "img/../css/site.css")
	require.NoError(t, err)
	assert.Equal(t, "css/site.css", c.dest)
}

func TestResolveAsset_RejectsEscapingPaths(t *testing.T) {
	root := filepath.FromSlash("/site")
	assetsRoot := filepath.Join(root, "assets")

	tests := []struct {
		name       string
		assetsRoot string
		assetsName string
		asset      string
	}{
		{"parent of site root", "", "", "../../etc/passwd"},
		{"absolute path climbing out", "", "", "/../etc/passwd"},
		{"nested climb", "", "", "img/../../secret.txt"},
		{"parent of assets root", assetsRoot, "assets", "../../etc/passwd"},
		{"prefixed climb", assetsRoot, "assets", "assets/../../etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveAsset(root, tt.assetsRoot, tt.assetsName, tt.asset)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAssetOutsideRoot)

			var pathErr *AssetPathError
			require.ErrorAs(t, err, &pathErr)
			assert.Equal(t, tt.asset, pathErr.Path)
		})
	}
}

func TestTidyListing(t *testing.T) {
	assert.Equal(t, "<ul>\n\n<li>a</li>\n\n</ul>\n", tidyListing("<ul>\n   \n<li>a</li>\n\t\n</ul>\n\n\n"))
	assert.Equal(t, "x\n", tidyListing("x"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "he-is-here", Slugify("He is Here"))
	assert.Equal(t, "finally-", Slugify("Finally!"))
	assert.Equal(t, "c-and-go-1-22", Slugify("C++ and Go 1.22"))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"birth", "ben", "love"}, NormalizeTags("Birth, ben ,LOVE,"))
	assert.Equal(t, []string{"go", "web"}, NormalizeTags([]any{" Go", "WEB", ""}))
	assert.Empty(t, NormalizeTags(nil))
}
