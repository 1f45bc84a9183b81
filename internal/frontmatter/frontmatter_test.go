package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontMatter(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	doc, err := Split(input)
	require.NoError(t, err)
	assert.False(t, doc.Had)
	assert.Empty(t, doc.Raw)
	assert.Equal(t, input, doc.Body)
}

func TestSplit_FrontMatterAndBody(t *testing.T) {
	doc, err := Split([]byte("---\ntitle: Hello\n---\n# Title\n"))
	require.NoError(t, err)
	assert.True(t, doc.Had)
	assert.Equal(t, []byte("title: Hello\n"), doc.Raw)
	assert.Equal(t, []byte("# Title\n"), doc.Body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	doc, err := Split([]byte("---\ntitle: Hello\n---"))
	require.NoError(t, err)
	assert.True(t, doc.Had)
	assert.Equal(t, []byte("title: Hello\n"), doc.Raw)
	assert.Empty(t, doc.Body)
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, err := Split([]byte("---\ntitle: Hello\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestBytes_RoundTrip(t *testing.T) {
	cases := []string{
		"# Title\n\nHello\n",
		"---\ntitle: x\n---\n# Title\n",
		"---\n---\n# Title\n",
		"---\r\ntitle: x\r\n---\r\n# Title\r\n",
	}
	for _, input := range cases {
		doc, err := Split([]byte(input))
		require.NoError(t, err)
		assert.Equal(t, input, string(doc.Bytes()))
	}
}

func TestFields(t *testing.T) {
	doc, err := Split([]byte("---\ntitle: Hello\ntags:\n  - one\n---\nbody"))
	require.NoError(t, err)

	fields, err := doc.Fields()
	require.NoError(t, err)
	assert.Equal(t, "Hello", fields["title"])
	assert.Equal(t, []any{"one"}, fields["tags"])

	doc.Raw = []byte(": not yaml")
	_, err = doc.Fields()
	require.Error(t, err)
}

func TestUpdate_PreservesOrderAndAppends(t *testing.T) {
	input := "---\ntitle: Hello # greeting\ncreate_date: 2022-01-01 10:00:00\ntags: a, b\n---\n\nBody text\n"

	out, err := Update([]byte(input),
		Field{Key: "create_date", Value: "2022-02-02 09:30:05"},
		Field{Key: "publish_date", Value: "2022-02-03 08:00:00"},
		Field{Key: "tags", Value: nil},
	)
	require.NoError(t, err)

	want := "---\ntitle: Hello # greeting\ncreate_date: 2022-02-02 09:30:05\npublish_date: 2022-02-03 08:00:00\n---\n\nBody text\n"
	assert.Equal(t, want, string(out))
}

func TestUpdate_AddsBlockWhenMissing(t *testing.T) {
	out, err := Update([]byte("Just text\n"), Field{Key: "title", Value: "New"})
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: New\n---\nJust text\n", string(out))
}

func TestUpdate_RejectsNonMapping(t *testing.T) {
	_, err := Update([]byte("---\n- a\n- b\n---\n"), Field{Key: "title", Value: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence")
}

func TestCanonical_SortsKeys(t *testing.T) {
	out, err := Canonical(map[string]any{
		"title": "x",
		"draft": true,
		"meta":  map[string]any{"z": 1, "a": "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "draft: true\nmeta:\n  a: b\n  z: 1\ntitle: x\n", string(out))

	empty, err := Canonical(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
