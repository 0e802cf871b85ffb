// internal/head/document.go
//
// Document sink contracts.
//
// Context
// -------
// The SEO layer never touches a concrete page.  It receives a Document,
// which exposes only the handful of `<head>` operations the injector
// needs: set the title, find children by tag and attributes, create a
// detached element, append it, and remove it.  Two sinks live in this
// package:
//
//   - Builder       – in-memory, one per request, rendered by templates.
//   - HTMLDocument  – a parsed HTML page (x/net/html + goquery), used by
//     the static exporter and by tests that assert on real markup.
//
// Notes
// -----
//   - Find returns head children only, never nested descendants.
//   - Nodes belong to the Document that created them.  Passing a node to
//     another Document is a programming error and panics.
//   - Oxford commas, two spaces after periods.
package head

// Attr is one attribute key/value pair.
type Attr struct {
	Key string
	Val string
}

// A is shorthand for building an Attr inline.
func A(key, val string) Attr { return Attr{Key: key, Val: val} }

// Node is one element inside the document head.
type Node interface {
	Tag() string
	Attr(key string) (string, bool)
	SetAttr(key, val string)
	RemoveAttr(key string)
	Text() string
	SetText(s string)
}

// Document is the capability the SEO injector writes through.
type Document interface {
	SetTitle(title string)
	Title() string

	// Find returns every head child whose tag equals tag (any tag when
	// tag is empty) and whose attributes equal every match pair, in
	// document order.
	Find(tag string, match ...Attr) []Node

	// Create returns a detached element.  It is not visible to Find
	// until Append is called.
	Create(tag string) Node

	Append(n Node)
	Remove(n Node)
}

// matches reports whether get satisfies every pair in want.
func matches(get func(string) (string, bool), want []Attr) bool {
	for _, a := range want {
		v, ok := get(a.Key)
		if !ok || v != a.Val {
			return false
		}
	}
	return true
}
