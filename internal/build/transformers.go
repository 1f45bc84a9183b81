package build

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/talc/internal/config"
	"git.home.luguber.info/inful/talc/internal/templates"
)

// Built-in transformer names.
const (
	TransformerIdentity = "identity"
	TransformerPaginate = "paginate"
	TransformerTags     = "tags"
	TransformerLimit    = "limit"
)

// Output is one listing produced by a transformer. Empty fields fall back to
// the listing template and its configured filename.
type Output struct {
	Filename string
	Files    []templates.Metadata
	Template string
	Metadata templates.Metadata
}

// Transformer fans a sorted document list out into listing outputs.
type Transformer interface {
	Transform(docs []templates.Metadata) ([]Output, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(docs []templates.Metadata) ([]Output, error)

func (f TransformerFunc) Transform(docs []templates.Metadata) ([]Output, error) {
	return f(docs)
}

// TransformerSpec is what a factory receives for one listing template.
type TransformerSpec struct {
	// Filename is the listing template's configured output filename.
	Filename string
	Options  map[string]any
}

// TransformerFactory builds a transformer from its options.
type TransformerFactory func(spec TransformerSpec) (Transformer, error)

// TransformerRegistry maps transformer names to factories.
type TransformerRegistry struct {
	factories map[string]TransformerFactory
}

// NewTransformerRegistry returns an empty registry.
func NewTransformerRegistry() *TransformerRegistry {
	return &TransformerRegistry{factories: make(map[string]TransformerFactory)}
}

// DefaultTransformers returns a registry with the built-in transformers.
func DefaultTransformers() *TransformerRegistry {
	r := NewTransformerRegistry()
	r.Register(TransformerIdentity, func(TransformerSpec) (Transformer, error) { return Identity(), nil })
	r.Register(TransformerPaginate, newPaginate)
	r.Register(TransformerTags, newTags)
	r.Register(TransformerLimit, newLimit)
	return r
}

// Register adds or replaces a factory.
func (r *TransformerRegistry) Register(name string, factory TransformerFactory) {
	r.factories[strings.ToLower(strings.TrimSpace(name))] = factory
}

// Names returns the registered names in sorted order.
func (r *TransformerRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New resolves cfg. A nil cfg or an empty name selects the identity transformer.
func (r *TransformerRegistry) New(cfg *config.TransformerConfig, spec TransformerSpec) (Transformer, error) {
	if cfg == nil || strings.TrimSpace(cfg.Name) == "" {
		return Identity(), nil
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w %q, valid options: %v", ErrUnknownTransformer, cfg.Name, r.Names())
	}
	spec.Options = cfg.Options
	return factory(spec)
}

// Identity produces one listing covering every document.
func Identity() Transformer {
	return TransformerFunc(func(docs []templates.Metadata) ([]Output, error) {
		return []Output{{Files: docs}}, nil
	})
}

// Pagination metadata keys.
const (
	KeyPage     = "page"
	KeyPages    = "pages"
	KeyPrevPage = "prev_page"
	KeyNextPage = "next_page"
)

// newPaginate splits documents into pages of `size`. The first page keeps
// the template filename; later pages use the `filename` pattern with {page}.
func newPaginate(spec TransformerSpec) (Transformer, error) {
	size, err := intOption(spec.Options, "size", 10)
	if err != nil {
		return nil, err
	}
	pattern := stringOption(spec.Options, "filename", "page-{page}.html")
	if !strings.Contains(pattern, "{page}") {
		return nil, fmt.Errorf("paginate filename %q must contain {page}", pattern)
	}
	first := spec.Filename
	if first == "" {
		first = DefaultListingFilename
	}

	name := func(page int) string {
		if page == 1 {
			return first
		}
		return strings.ReplaceAll(pattern, "{page}", strconv.Itoa(page))
	}

	return TransformerFunc(func(docs []templates.Metadata) ([]Output, error) {
		pages := (len(docs) + size - 1) / size
		if pages == 0 {
			pages = 1
		}
		out := make([]Output, 0, pages)
		for page := 1; page <= pages; page++ {
			lo := min((page-1)*size, len(docs))
			hi := min(page*size, len(docs))
			meta := templates.Metadata{KeyPage: page, KeyPages: pages, KeyPrevPage: "", KeyNextPage: ""}
			if page > 1 {
				meta[KeyPrevPage] = name(page - 1)
			}
			if page < pages {
				meta[KeyNextPage] = name(page + 1)
			}
			out = append(out, Output{Filename: name(page), Files: docs[lo:hi], Metadata: meta})
		}
		return out, nil
	}), nil
}

// KeyTag is set on every output of the tags transformer.
const KeyTag = "tag"

// newTags produces one listing per distinct tag, in tag order.
func newTags(spec TransformerSpec) (Transformer, error) {
	pattern := stringOption(spec.Options, "filename", "tags/{tag}.html")
	if !strings.Contains(pattern, "{tag}") {
		return nil, fmt.Errorf("tags filename %q must contain {tag}", pattern)
	}
	template := stringOption(spec.Options, "template", "")

	return TransformerFunc(func(docs []templates.Metadata) ([]Output, error) {
		byTag := make(map[string][]templates.Metadata)
		for _, doc := range docs {
			for _, tag := range NormalizeTags(doc[KeyTags]) {
				byTag[tag] = append(byTag[tag], doc)
			}
		}
		tags := make([]string, 0, len(byTag))
		for tag := range byTag {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		out := make([]Output, 0, len(tags))
		for _, tag := range tags {
			out = append(out, Output{
				Filename: strings.ReplaceAll(pattern, "{tag}", Slugify(tag)),
				Files:    byTag[tag],
				Template: template,
				Metadata: templates.Metadata{KeyTag: tag},
			})
		}
		return out, nil
	}), nil
}

// newLimit keeps the first `count` documents.
func newLimit(spec TransformerSpec) (Transformer, error) {
	count, err := intOption(spec.Options, "count", 10)
	if err != nil {
		return nil, err
	}
	return TransformerFunc(func(docs []templates.Metadata) ([]Output, error) {
		return []Output{{Files: docs[:min(count, len(docs))]}}, nil
	}), nil
}

func intOption(opts map[string]any, key string, def int) (int, error) {
	v, ok := opts[key]
	if !ok || v == nil {
		return def, nil
	}
	var n int
	switch val := v.(type) {
	case int:
		n = val
	case int64:
		n = int(val)
	case float64:
		n = int(val)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("option %s: %w", key, err)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("option %s: unsupported value %v", key, v)
	}
	if n <= 0 {
		return 0, fmt.Errorf("option %s must be positive, got %d", key, n)
	}
	return n, nil
}

func stringOption(opts map[string]any, key, def string) string {
	if v, ok := opts[key]; ok && v != nil {
		if s := strings.TrimSpace(templates.Stringify(v)); s != "" {
			return s
		}
	}
	return def
}
