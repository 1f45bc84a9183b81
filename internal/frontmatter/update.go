package frontmatter

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Field is one front matter key to set. A nil Value removes the key.
type Field struct {
	Key   string
	Value any
}

// Set rewrites the front matter with fields applied. Existing keys keep
// their position and comments; new keys are appended in argument order.
// A document without front matter gains a block.
func (d *Document) Set(fields ...Field) error {
	root, err := d.mapping()
	if err != nil {
		return err
	}

	for _, f := range fields {
		idx := indexOfKey(root, f.Key)
		if f.Value == nil {
			if idx >= 0 {
				root.Content = append(root.Content[:idx], root.Content[idx+2:]...)
			}
			continue
		}
		value, err := nodeFor(f.Value)
		if err != nil {
			return fmt.Errorf("front matter key %s: %w", f.Key, err)
		}
		if idx >= 0 {
			value.HeadComment = root.Content[idx+1].HeadComment
			value.LineComment = root.Content[idx+1].LineComment
			root.Content[idx+1] = value
			continue
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}, value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if len(root.Content) > 0 {
		if err := enc.Encode(root); err != nil {
			_ = enc.Close()
			return err
		}
	}
	if err := enc.Close(); err != nil {
		return err
	}

	raw := buf.Bytes()
	if d.Newline != "" && d.Newline != "\n" {
		raw = bytes.ReplaceAll(raw, []byte("\n"), []byte(d.Newline))
	}
	d.Raw = raw
	d.Had = true
	return nil
}

// Update splits content, applies fields and reassembles it.
func Update(content []byte, fields ...Field) ([]byte, error) {
	doc, err := Split(content)
	if err != nil {
		return nil, err
	}
	if err := doc.Set(fields...); err != nil {
		return nil, err
	}
	return doc.Bytes(), nil
}

func (d Document) mapping() (*yaml.Node, error) {
	empty := &yaml.Node{Kind: yaml.MappingNode}
	if len(bytes.TrimSpace(d.Raw)) == 0 {
		return empty, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(d.Raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return empty, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("front matter is a %s, not a mapping", kindName(root.Kind))
	}
	return root, nil
}

func indexOfKey(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func nodeFor(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case string:
		if looksLikeTimestamp(val) {
			// Untagged so the encoder keeps the date plain instead of quoting it.
			return &yaml.Node{Kind: yaml.ScalarNode, Value: val}, nil
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(val)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(val, 10)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(val, 'g', -1, 64)}, nil
	case time.Time:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val.Format(time.RFC3339)}, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range val {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return seq, nil
	}
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

// timestampLayouts are the YAML 1.1 timestamp forms.
var timestampLayouts = []string{
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999",
	"2006-1-2",
}

func looksLikeTimestamp(s string) bool {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
