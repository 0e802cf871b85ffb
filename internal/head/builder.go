// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single request (or render call).  The
// SEO controller writes into it through the Document interface, then the
// theme’s base layout decides where to emit each slice.
//
// Features
// --------
//   - SetTitle           – single <title> (last call wins).
//   - Find/Create/Append – Document sink used by internal/seo.
//   - Meta, Link         – raw-attribute shortcuts for handlers.
//   - Render helpers     – Title, Metas, Links, Scripts, JSON, and HTML
//     return template.HTML with every attribute value escaped.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder is safe for concurrent use; typical use is still one goroutine
// per request.
type Builder struct {
	mu sync.Mutex

	title string
	els   []*element
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// element is the Builder's Node.  Mutations lock the owning Builder.
type element struct {
	owner    *Builder
	tag      string
	attrs    []Attr
	text     string
	attached bool
}

// ------------------------------------------------------------------
// Document implementation
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Find returns attached elements matching tag and attrs, in order.
func (b *Builder) Find(tag string, match ...Attr) []Node {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Node
	for _, el := range b.els {
		if tag != "" && el.tag != tag {
			continue
		}
		if matches(el.attrLocked, match) {
			out = append(out, el)
		}
	}
	return out
}

// Create returns a detached element owned by b.
func (b *Builder) Create(tag string) Node {
	return &element{owner: b, tag: strings.ToLower(tag)}
}

// Append attaches n at the end of the head.  Appending an attached node
// moves it to the end.
func (b *Builder) Append(n Node) {
	el := b.own(n)
	b.mu.Lock()
	defer b.mu.Unlock()
	if el.attached {
		b.detachLocked(el)
	}
	el.attached = true
	b.els = append(b.els, el)
}

// Remove detaches n.  Removing a detached node is a no-op.
func (b *Builder) Remove(n Node) {
	el := b.own(n)
	b.mu.Lock()
	defer b.mu.Unlock()
	if el.attached {
		b.detachLocked(el)
	}
}

func (b *Builder) detachLocked(el *element) {
	for i, cur := range b.els {
		if cur == el {
			b.els = append(b.els[:i], b.els[i+1:]...)
			break
		}
	}
	el.attached = false
}

func (b *Builder) own(n Node) *element {
	el, ok := n.(*element)
	if !ok || el.owner != b {
		panic("head: node does not belong to this Builder")
	}
	return el
}

// ------------------------------------------------------------------
// Shortcuts for handlers
// ------------------------------------------------------------------

// Meta appends a <meta> carrying attrs unless an identical one exists.
func (b *Builder) Meta(attrs ...Attr) { b.addUnique("meta", attrs) }

// Link appends a <link> carrying attrs unless an identical one exists.
func (b *Builder) Link(attrs ...Attr) { b.addUnique("link", attrs) }

func (b *Builder) addUnique(tag string, attrs []Attr) {
	if len(b.Find(tag, attrs...)) > 0 {
		return
	}
	n := b.Create(tag)
	for _, a := range attrs {
		n.SetAttr(a.Key, a.Val)
	}
	b.Append(n)
}

// ------------------------------------------------------------------
// Node implementation
// ------------------------------------------------------------------

func (e *element) Tag() string { return e.tag }

func (e *element) Attr(key string) (string, bool) {
	e.owner.mu.Lock()
	defer e.owner.mu.Unlock()
	return e.attrLocked(key)
}

func (e *element) attrLocked(key string) (string, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (e *element) SetAttr(key, val string) {
	e.owner.mu.Lock()
	defer e.owner.mu.Unlock()
	for i := range e.attrs {
		if e.attrs[i].Key == key {
			e.attrs[i].Val = val
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Key: key, Val: val})
}

func (e *element) RemoveAttr(key string) {
	e.owner.mu.Lock()
	defer e.owner.mu.Unlock()
	for i := range e.attrs {
		if e.attrs[i].Key == key {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

func (e *element) Text() string {
	e.owner.mu.Lock()
	defer e.owner.mu.Unlock()
	return e.text
}

func (e *element) SetText(s string) {
	e.owner.mu.Lock()
	e.text = s
	e.owner.mu.Unlock()
}

// ------------------------------------------------------------------
// Rendering helpers called from theme templates
// ------------------------------------------------------------------

// Title returns the raw title text.
func (b *Builder) Title() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.title
}

// TitleTag returns the escaped <title> element, or "" when unset.
func (b *Builder) TitleTag() template.HTML {
	t := b.Title()
	if t == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(t) + "</title>")
}

func (b *Builder) Metas() template.HTML { return b.render(isTag("meta")) }
func (b *Builder) Links() template.HTML { return b.render(isTag("link")) }

// Scripts renders every <script> except JSON-LD blocks.
func (b *Builder) Scripts() template.HTML {
	return b.render(func(e *element) bool { return e.tag == "script" && !isJSONLD(e) })
}

// JSON renders the JSON-LD <script> blocks.
func (b *Builder) JSON() template.HTML { return b.render(isJSONLD) }

// HTML renders the title followed by every element in insertion order.
func (b *Builder) HTML() template.HTML {
	return b.TitleTag() + b.render(func(*element) bool { return true })
}

func (b *Builder) render(keep func(*element) bool) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	for _, el := range b.els {
		if keep(el) {
			writeElement(&sb, el)
		}
	}
	return template.HTML(sb.String())
}

func isTag(tag string) func(*element) bool {
	return func(e *element) bool { return e.tag == tag }
}

func isJSONLD(e *element) bool {
	if e.tag != "script" {
		return false
	}
	t, _ := e.attrLocked("type")
	return t == "application/ld+json"
}

// writeElement emits el.  Script bodies are written raw; callers are
// responsible for JSON that cannot close the element early (encoding/json
// escapes "<" already).
func writeElement(sb *strings.Builder, el *element) {
	sb.WriteByte('<')
	sb.WriteString(el.tag)
	for _, a := range el.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(template.HTMLEscapeString(a.Val))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	switch el.tag {
	case "meta", "link", "base":
		return
	case "script", "style":
		sb.WriteString(el.text)
	default:
		sb.WriteString(template.HTMLEscapeString(el.text))
	}
	sb.WriteString("</")
	sb.WriteString(el.tag)
	sb.WriteByte('>')
}
