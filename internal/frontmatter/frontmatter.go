// Package frontmatter reads and rewrites the YAML block at the top of a
// Markdown document.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates a document opened a front matter
// block but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

const delimiter = "---"

// Document is a Markdown source split into front matter and body.
type Document struct {
	// Raw is the YAML between the delimiters, without them.
	Raw  []byte
	Body []byte
	// Had reports whether the source carried a front matter block.
	Had bool
	// Newline is the line ending detected in the source.
	Newline string
}

// Split separates a `---` delimited YAML block from the body. Sources that
// do not start with a delimiter are all body.
func Split(content []byte) (Document, error) {
	nl := detectNewline(content)
	doc := Document{Body: content, Newline: nl}

	open := []byte(delimiter + nl)
	if !bytes.HasPrefix(content, open) {
		return doc, nil
	}
	rest := content[len(open):]

	if bytes.HasPrefix(rest, open) {
		doc.Raw, doc.Body, doc.Had = []byte{}, rest[len(open):], true
		return doc, nil
	}

	closing := []byte(nl + delimiter + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A closing delimiter on the last line has no trailing newline.
		if bytes.HasSuffix(rest, []byte(nl+delimiter)) {
			idx = len(rest) - len(nl+delimiter)
			doc.Raw, doc.Body, doc.Had = rest[:idx+len(nl)], []byte{}, true
			return doc, nil
		}
		return Document{}, ErrMissingClosingDelimiter
	}

	doc.Raw, doc.Body, doc.Had = rest[:idx+len(nl)], rest[idx+len(closing):], true
	return doc, nil
}

// Bytes reassembles the document. Documents without front matter return the
// body unchanged.
func (d Document) Bytes() []byte {
	if !d.Had {
		return d.Body
	}
	nl := d.Newline
	if nl == "" {
		nl = "\n"
	}
	var buf bytes.Buffer
	buf.Grow(len(d.Raw) + len(d.Body) + 2*(len(delimiter)+len(nl)))
	buf.WriteString(delimiter + nl)
	buf.Write(d.Raw)
	buf.WriteString(delimiter + nl)
	buf.Write(d.Body)
	return buf.Bytes()
}

// Fields decodes the front matter into a map. An empty block yields an
// empty map.
func (d Document) Fields() (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(d.Raw)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(d.Raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
