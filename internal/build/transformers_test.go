package build

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/talc/internal/config"
	"git.home.luguber.info/inful/talc/internal/templates"
)

func numberedDocs(n int) []templates.Metadata {
	docs := make([]templates.Metadata, n)
	for i := range docs {
		docs[i] = templates.Metadata{KeyTitle: fmt.Sprintf("doc %d", i+1)}
	}
	return docs
}

func TestTransformerRegistry_New(t *testing.T) {
	reg := DefaultTransformers()
	assert.Equal(t, []string{"identity", "limit", "paginate", "tags"}, reg.Names())

	tr, err := reg.New(nil, TransformerSpec{})
	require.NoError(t, err)
	out, err := tr.Transform(numberedDocs(3))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Files, 3)
	assert.Empty(t, out[0].Filename)

	_, err = reg.New(&config.TransformerConfig{Name: "shuffle"}, TransformerSpec{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTransformer))
	assert.Contains(t, err.Error(), "paginate")
}

func TestTransformerRegistry_Register(t *testing.T) {
	reg := NewTransformerRegistry()
	reg.Register("Reverse", func(TransformerSpec) (Transformer, error) {
		return TransformerFunc(func(docs []templates.Metadata) ([]Output, error) {
			out := make([]templates.Metadata, 0, len(docs))
			for i := len(docs) - 1; i >= 0; i-- {
				out = append(out, docs[i])
			}
			return []Output{{Files: out, Filename: "reversed.html"}}, nil
		}), nil
	})

	tr, err := reg.New(&config.TransformerConfig{Name: "reverse"}, TransformerSpec{})
	require.NoError(t, err)
	out, err := tr.Transform(numberedDocs(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"doc 2", "doc 1"}, titles(out[0].Files))
}

func TestPaginate(t *testing.T) {
	tr, err := DefaultTransformers().New(
		&config.TransformerConfig{Name: "paginate", Options: map[string]any{"size": 2, "filename": "page/{page}.html"}},
		TransformerSpec{Filename: "blog.html"},
	)
	require.NoError(t, err)

	out, err := tr.Transform(numberedDocs(5))
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "blog.html", out[0].Filename)
	assert.Equal(t, "page/2.html", out[1].Filename)
	assert.Equal(t, "page/3.html", out[2].Filename)
	assert.Equal(t, []string{"doc 1", "doc 2"}, titles(out[0].Files))
	assert.Equal(t, []string{"doc 5"}, titles(out[2].Files))

	assert.Equal(t, 1, out[0].Metadata[KeyPage])
	assert.Equal(t, 3, out[0].Metadata[KeyPages])
	assert.Equal(t, "", out[0].Metadata[KeyPrevPage])
	assert.Equal(t, "page/2.html", out[0].Metadata[KeyNextPage])
	assert.Equal(t, "blog.html", out[1].Metadata[KeyPrevPage])
	assert.Equal(t, "", out[2].Metadata[KeyNextPage])
}

func TestPaginate_EmptyAndInvalid(t *testing.T) {
	tr, err := DefaultTransformers().New(&config.TransformerConfig{Name: "paginate"}, TransformerSpec{})
	require.NoError(t, err)
	out, err := tr.Transform(nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, DefaultListingFilename, out[0].Filename)

	_, err = DefaultTransformers().New(&config.TransformerConfig{Name: "paginate", Options: map[string]any{"size": 0}}, TransformerSpec{})
	require.Error(t, err)
	_, err = DefaultTransformers().New(&config.TransformerConfig{Name: "paginate", Options: map[string]any{"filename": "page.html"}}, TransformerSpec{})
	require.Error(t, err)
}

func TestTags(t *testing.T) {
	tr, err := DefaultTransformers().New(&config.TransformerConfig{Name: "tags"}, TransformerSpec{})
	require.NoError(t, err)

	docs := []templates.Metadata{
		{KeyTitle: "a", KeyTags: []string{"go", "web dev"}},
		{KeyTitle: "b", KeyTags: "Go"},
		{KeyTitle: "c"},
	}
	out, err := tr.Transform(docs)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "tags/go.html", out[0].Filename)
	assert.Equal(t, "go", out[0].Metadata[KeyTag])
	assert.Equal(t, []string{"a", "b"}, titles(out[0].Files))
	assert.Equal(t, "tags/web-dev.html", out[1].Filename)
	assert.Equal(t, []string{"a"}, titles(out[1].Files))
}

func TestLimit(t *testing.T) {
	tr, err := DefaultTransformers().New(&config.TransformerConfig{Name: "limit", Options: map[string]any{"count": "2"}}, TransformerSpec{})
	require.NoError(t, err)
	out, err := tr.Transform(numberedDocs(5))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"doc 1", "doc 2"}, titles(out[0].Files))

	out, err = tr.Transform(numberedDocs(1))
	require.NoError(t, err)
	assert.Len(t, out[0].Files, 1)
}
