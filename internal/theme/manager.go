package theme

import (
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Manager discovers and loads themes.
type Manager struct {
	BaseDir string // e.g., "themes" (relative) or "/srv/site/themes" (absolute)
}

// Load parses the templates for theme name.  Layout:
//
//	themes/<name>/templates/layouts/*.html   must define "layout"
//	themes/<name>/templates/partials/*.html  shared blocks
//	themes/<name>/templates/pages/*.html     one per page, define "content"
//
// Layouts and partials form the base set; each page file is parsed into
// its own clone of the base.
func (m *Manager) Load(name string) (*Theme, error) {
	root := filepath.Join(m.BaseDir, name)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("theme %s not found at %s", name, root)
	}
	fsys := os.DirFS(filepath.Join(root, "templates"))

	th := New(name, root)
	base := template.New(name).Funcs(FuncMap(th.AssetFunc))

	for _, dir := range []string{"layouts", "partials"} {
		files, err := CollectHTML(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", name, err)
		}
		if len(files) == 0 {
			continue
		}
		if _, err := base.ParseFS(fsys, files...); err != nil {
			return nil, fmt.Errorf("theme %s: parse %s: %w", name, dir, err)
		}
	}
	if base.Lookup(LayoutName) == nil {
		return nil, fmt.Errorf("theme %s: no %q template in layouts", name, LayoutName)
	}

	pages, err := CollectHTML(fsys, "pages")
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}
	for _, file := range pages {
		tpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tpl.ParseFS(fsys, file); err != nil {
			return nil, fmt.Errorf("theme %s: parse %s: %w", name, file, err)
		}
		th.pages[pageName(file)] = tpl
	}

	zap.L().Info("theme loaded",
		zap.String("theme", name),
		zap.Strings("pages", th.Pages()))
	return th, nil
}

// pageName maps "pages/city.html" to "city".
func pageName(file string) string {
	return strings.TrimSuffix(path.Base(file), path.Ext(file))
}
