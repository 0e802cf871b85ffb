// Package theme holds the data structures that describe one visual theme.
// A Theme combines:
//
//   - Name      the theme directory name (for example, "base").
//   - Root      path to that directory on disk.
//   - pages     one parsed template set per page template.
//   - AssetFunc helper injected into templates so they can resolve
//     `{{ asset "css/site.css" }}` to a URL.
//
// Page templates share the layouts and partials but each gets its own
// clone, so two pages may both define "content" without clobbering one
// another.
package theme

import (
	"fmt"
	"html/template"
	"io"
	"path"
	"sort"
)

// LayoutName is the template every page render starts from.
const LayoutName = "layout"

// Theme is returned by the Manager once all templates are parsed.
type Theme struct {
	Name      string
	Root      string
	AssetFunc func(string) string

	pages map[string]*template.Template
}

// New constructs a Theme with an AssetFunc that points to the assets folder.
func New(name, root string) *Theme {
	prefix := path.Join("/themes", name, "assets") + "/"
	return &Theme{
		Name:      name,
		Root:      root,
		AssetFunc: func(p string) string { return prefix + p },
		pages:     make(map[string]*template.Template),
	}
}

// Has reports whether the theme ships page template name.
func (t *Theme) Has(name string) bool {
	_, ok := t.pages[name]
	return ok
}

// Pages lists the page template names, sorted.
func (t *Theme) Pages() []string {
	out := make([]string, 0, len(t.pages))
	for name := range t.pages {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Render executes the layout with page's "content" block.
func (t *Theme) Render(w io.Writer, page string, data any) error {
	tpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("theme %s: no page template %q", t.Name, page)
	}
	return tpl.ExecuteTemplate(w, LayoutName, data)
}
