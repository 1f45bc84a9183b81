package templates

import "strings"

const (
	// ContentVariable always resolves to the HTML body passed to Render.
	ContentVariable = "content"
	// ItemVariable resolves to the loop element when it is not an object.
	// The singular form of the loop variable (tags -> tag) is an alias.
	ItemVariable = "item"
)

// Renderer turns parsed trees into text. Template asset references are
// recorded in the renderer's asset set when one is configured.
type Renderer struct {
	assets *AssetSet
}

// NewRenderer returns a renderer recording assets into assets, which may be nil.
func NewRenderer(assets *AssetSet) *Renderer {
	return &Renderer{assets: assets}
}

// Render renders the chain starting at root. ctx is the loop or transformer
// context; when it is an object its keys resolve after metadata. content is
// the value of the reserved content variable.
//
// Imported partials render with the same metadata and the same content but
// without ctx, so <!-- talc:content --> inside a partial expands to the
// document body while loop element keys do not resolve there.
func (r *Renderer) Render(root *Node, metadata Metadata, ctx any, content string) string {
	s := &renderState{
		renderer: r,
		metadata: metadata,
		ctx:      ctx,
		content:  content,
	}
	var b strings.Builder
	s.render(&b, root)
	return b.String()
}

type renderState struct {
	renderer *Renderer
	metadata Metadata
	ctx      any
	content  string
	// alias names the scalar loop element besides ItemVariable.
	alias string
}

func (s *renderState) render(b *strings.Builder, n *Node) {
	for ; n != nil; n = n.Next {
		switch n.Kind {
		case NodeText:
			s.substitute(b, n.Text)
		case NodeFor:
			v, _ := s.lookup(n.Variable)
			list, ok := asList(v)
			if !ok {
				continue
			}
			alias := singular(n.Variable)
			for _, item := range list {
				inner := s.with(item)
				inner.alias = alias
				inner.render(b, n.Child)
			}
		case NodeIf:
			if s.evaluate(n.Condition) {
				s.render(b, n.Child)
			}
		case NodePartial:
			s.with(nil).render(b, n.Partial)
		}
	}
}

func (s *renderState) with(ctx any) *renderState {
	next := *s
	next.ctx = ctx
	next.alias = ""
	return &next
}

// substitute writes text with variable and asset references replaced. The
// inserted values are not scanned again.
func (s *renderState) substitute(b *strings.Builder, text string) {
	for {
		m, ok := RenderMatcher.Next(text)
		if !ok {
			b.WriteString(text)
			return
		}
		b.WriteString(text[:m.Start])
		switch m.Kind {
		case DirectiveAsset:
			if s.renderer.assets != nil {
				s.renderer.assets.Add(m.Arg)
			}
			b.WriteString(m.Arg)
		case DirectiveVariable:
			b.WriteString(s.variable(m.Arg))
		}
		text = text[m.End:]
	}
}

func (s *renderState) variable(name string) string {
	if name == ContentVariable {
		return s.content
	}
	v, _ := s.lookup(name)
	return Stringify(v)
}

// lookup resolves name against metadata, then the object context, then the
// scalar loop element. Only nil values count as unresolved.
func (s *renderState) lookup(name string) (any, bool) {
	if v, ok := s.metadata[name]; ok && v != nil {
		return v, true
	}
	if obj, ok := asObject(s.ctx); ok {
		if v, ok := obj[name]; ok && v != nil {
			return v, true
		}
		return nil, false
	}
	if s.ctx != nil && (name == ItemVariable || (s.alias != "" && name == s.alias)) {
		return s.ctx, true
	}
	return nil, false
}

func singular(name string) string {
	if len(name) > 1 && strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") {
		return strings.TrimSuffix(name, "s")
	}
	return ""
}
