// internal/head/htmldoc.go
//
// HTMLDocument is a Document backed by a parsed HTML page.
//
// Context
// -------
// The static exporter (cmd/seoctl inject) loads one page shell, then
// applies many pages’ metadata to it in turn.  The tree is held as
// golang.org/x/net/html nodes; lookups go through goquery so selectors
// read the same as they would in a browser (`head > meta[name="x"]`).
//
// Notes
// -----
//   - html.Parse always synthesises <html>, <head>, and <body>, but the
//     find-or-create helpers stay in place for hand-built trees.
//   - Script text is stored as a single text child.  html.Render writes
//     raw-text elements unescaped.
package head

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLDocument is safe for concurrent use.
type HTMLDocument struct {
	mu    sync.Mutex
	doc   *goquery.Document
	head  *html.Node
	nodes map[*html.Node]*htmlNode // stable Node identity per element
}

// Parse reads an HTML page and prepares its <head> for editing.
func Parse(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	root := doc.Get(0)
	htmlTag := findOrCreateChild(root, "html", false)
	return &HTMLDocument{
		doc:   doc,
		head:  findOrCreateChild(htmlTag, "head", true),
		nodes: make(map[*html.Node]*htmlNode),
	}, nil
}

// Render writes the full document, including doctype, to w.
func (d *HTMLDocument) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.doc.Get(0))
}

// String renders the document, returning "" on error.
func (d *HTMLDocument) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Selection exposes the goquery document for read-only inspection.
func (d *HTMLDocument) Selection() *goquery.Selection {
	return d.doc.Selection
}

// ------------------------------------------------------------------
// Document implementation
// ------------------------------------------------------------------

func (d *HTMLDocument) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := findOrCreateChild(d.head, "title", true)
	setText(t, title)
}

func (d *HTMLDocument) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t := findChild(d.head, "title"); t != nil {
		return textOf(t)
	}
	return ""
}

func (d *HTMLDocument) Find(tag string, match ...Attr) []Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []Node
	d.doc.FindNodes(d.head).ChildrenFiltered(selector(tag, match)).Each(
		func(_ int, s *goquery.Selection) {
			out = append(out, d.wrapLocked(s.Get(0)))
		})
	return out
}

func (d *HTMLDocument) Create(tag string) Node {
	tag = strings.ToLower(tag)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrapLocked(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// wrapLocked returns the one htmlNode for n, so equal elements compare
// equal as Node values.
func (d *HTMLDocument) wrapLocked(n *html.Node) *htmlNode {
	if hn, ok := d.nodes[n]; ok {
		return hn
	}
	hn := &htmlNode{owner: d, n: n}
	d.nodes[n] = hn
	return hn
}

func (d *HTMLDocument) Append(n Node) {
	hn := d.own(n)
	d.mu.Lock()
	defer d.mu.Unlock()
	if hn.n.Parent != nil {
		hn.n.Parent.RemoveChild(hn.n)
	}
	d.head.AppendChild(hn.n)
	d.nodes[hn.n] = hn
}

func (d *HTMLDocument) Remove(n Node) {
	hn := d.own(n)
	d.mu.Lock()
	defer d.mu.Unlock()
	if hn.n.Parent != nil {
		hn.n.Parent.RemoveChild(hn.n)
	}
	delete(d.nodes, hn.n)
}

func (d *HTMLDocument) own(n Node) *htmlNode {
	hn, ok := n.(*htmlNode)
	if !ok || hn.owner != d {
		panic("head: node does not belong to this HTMLDocument")
	}
	return hn
}

// selector builds a CSS selector such as meta[name="description"].
func selector(tag string, match []Attr) string {
	var sb strings.Builder
	if tag == "" {
		sb.WriteByte('*')
	} else {
		sb.WriteString(tag)
	}
	for _, a := range match {
		sb.WriteByte('[')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(cssEscaper.Replace(a.Val))
		sb.WriteString(`"]`)
	}
	return sb.String()
}

var cssEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)

// ------------------------------------------------------------------
// Node implementation
// ------------------------------------------------------------------

type htmlNode struct {
	owner *HTMLDocument
	n     *html.Node
}

func (h *htmlNode) Tag() string { return h.n.Data }

func (h *htmlNode) Attr(key string) (string, bool) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	for _, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (h *htmlNode) SetAttr(key, val string) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	for i := range h.n.Attr {
		if h.n.Attr[i].Namespace == "" && h.n.Attr[i].Key == key {
			h.n.Attr[i].Val = val
			return
		}
	}
	h.n.Attr = append(h.n.Attr, html.Attribute{Key: key, Val: val})
}

func (h *htmlNode) RemoveAttr(key string) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	for i := range h.n.Attr {
		if h.n.Attr[i].Namespace == "" && h.n.Attr[i].Key == key {
			h.n.Attr = append(h.n.Attr[:i], h.n.Attr[i+1:]...)
			return
		}
	}
}

func (h *htmlNode) Text() string {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	return textOf(h.n)
}

func (h *htmlNode) SetText(s string) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	setText(h.n, s)
}

// ------------------------------------------------------------------
// Tree helpers
// ------------------------------------------------------------------

func findChild(parent *html.Node, tag string) *html.Node {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// findOrCreateChild returns the first tag child of parent, creating it
// (prepended or appended) when absent.
func findOrCreateChild(parent *html.Node, tag string, prepend bool) *html.Node {
	if c := findChild(parent, tag); c != nil {
		return c
	}
	c := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if prepend && parent.FirstChild != nil {
		parent.InsertBefore(c, parent.FirstChild)
	} else {
		parent.AppendChild(c)
	}
	return c
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func setText(n *html.Node, s string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if s != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

// SetInnerHTML replaces the children of every element matching sel with
// markup and reports how many elements matched.  The exporter uses it to
// drop page copy into the shell's <main>.
func (d *HTMLDocument) SetInnerHTML(sel, markup string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.doc.Find(sel)
	s.SetHtml(markup)
	return s.Length()
}
