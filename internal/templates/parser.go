package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	ferrors "git.home.luguber.info/inful/talc/internal/foundation/errors"
)

// ErrMalformedTemplate is wrapped by every ParseError.
var ErrMalformedTemplate = errors.New("malformed template")

// ParseError describes directive nesting that cannot form a tree.
type ParseError struct {
	Template string
	Line     int
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Template, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedTemplate
}

// Parser builds template trees from files in fsys. Partials are parsed
// through the same Cache, so a file is read at most once per cache.
type Parser struct {
	fsys    fs.FS
	cache   *Cache
	matcher *Matcher
	loading map[string]bool
}

// NewParser returns a parser reading templates from fsys. A nil cache gets a
// fresh one.
func NewParser(fsys fs.FS, cache *Cache) *Parser {
	if cache == nil {
		cache = NewCache()
	}
	return &Parser{
		fsys:    fsys,
		cache:   cache,
		matcher: ParserMatcher,
		loading: make(map[string]bool),
	}
}

// Cache returns the cache shared by every Parse call on p.
func (p *Parser) Cache() *Cache {
	return p.cache
}

// Parse returns the tree for the named template. A missing or empty
// template yields a nil tree and no error. Malformed nesting returns a
// classified template error wrapping a *ParseError.
func (p *Parser) Parse(name string) (*Node, error) {
	name = cleanName(name)
	if root, ok := p.cache.Get(name); ok {
		return root, nil
	}

	raw, err := fs.ReadFile(p.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		p.cache.Put(name, nil)
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read template").
			WithContext("template", name).
			Build()
	}

	p.loading[name] = true
	defer delete(p.loading, name)

	root, err := p.build(name, string(raw))
	if err != nil {
		return nil, err
	}
	p.cache.Put(name, root)
	return root, nil
}

func (p *Parser) build(name, source string) (*Node, error) {
	b := &treeBuilder{}
	offset := 0
	for {
		rest := source[offset:]
		m, ok := p.matcher.Next(rest)
		if !ok {
			b.text(rest)
			break
		}
		b.text(rest[:m.Start])
		at := offset + m.Start
		offset += m.End

		switch m.Kind {
		case DirectiveForStart:
			b.open(&Node{Kind: NodeFor, Variable: m.Arg})
		case DirectiveIfStart:
			b.open(&Node{Kind: NodeIf, Condition: strings.TrimSpace(m.Arg)})
		case DirectiveForEnd:
			if reason := b.close(NodeFor); reason != "" {
				return nil, malformed(name, source, at, reason)
			}
		case DirectiveIfEnd:
			if reason := b.close(NodeIf); reason != "" {
				return nil, malformed(name, source, at, reason)
			}
		case DirectiveImport:
			target := cleanName(m.Arg)
			if p.loading[target] {
				return nil, malformed(name, source, at, fmt.Sprintf("import cycle through %s", target))
			}
			partial, err := p.Parse(target)
			if err != nil {
				return nil, err
			}
			if partial != nil {
				b.append(&Node{Kind: NodePartial, Path: target, Partial: partial})
			}
		}
	}

	if b.parent != nil {
		return nil, malformed(name, source, len(source), fmt.Sprintf("unclosed %s block", b.parent.Kind))
	}
	return b.first, nil
}

// treeBuilder carries the insertion cursor while a single file is parsed.
type treeBuilder struct {
	first    *Node
	parent   *Node
	previous *Node
}

func (b *treeBuilder) text(s string) {
	if s == "" {
		return
	}
	b.append(&Node{Kind: NodeText, Text: s})
}

func (b *treeBuilder) append(n *Node) {
	n.Parent = b.parent
	switch {
	case b.previous != nil:
		b.previous.Next = n
	case b.parent != nil:
		b.parent.Child = n
	default:
		b.first = n
	}
	b.previous = n
}

func (b *treeBuilder) open(n *Node) {
	b.append(n)
	b.parent = n
	b.previous = nil
}

// close ends the current scope and returns a reason when it cannot.
func (b *treeBuilder) close(kind NodeKind) string {
	if b.parent == nil {
		return fmt.Sprintf("end%s without open %s block", kind, kind)
	}
	if b.parent.Kind != kind {
		return fmt.Sprintf("end%s closes open %s block", kind, b.parent.Kind)
	}
	b.previous = b.parent
	b.parent = b.parent.Parent
	return ""
}

func malformed(name, source string, offset int, reason string) error {
	perr := &ParseError{
		Template: name,
		Line:     strings.Count(source[:offset], "\n") + 1,
		Reason:   reason,
	}
	return ferrors.TemplateError("malformed template").
		WithCause(perr).
		WithContext("template", name).
		WithContext("line", perr.Line).
		Build()
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(name)), "/")
}
