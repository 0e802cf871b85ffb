// internal/content/library.go
//
// Content library loader.
//
// Context
// -------
// Load walks `<dir>/<section>/*.yaml` once at startup and builds an
// immutable Library keyed by route path.  Slugs come from file names via
// routing.SlugFromFile; `pages/home.yaml` is the root page.  Markdown is
// rendered and sanitised during load so request handlers only copy bytes.
//
// Notes
// -----
//   - Unknown section directories are ignored with a DEBUG log.
//   - Drafts are skipped.  Duplicate paths, a missing title, or an alias
//     that collides with a live page abort the load.
//   - Blog posts sort newest first; every other section sorts by title.
//   - Oxford commas, two spaces after periods.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/c0de128/4seasons/internal/routing"
)

// ErrNotFound is returned for an unknown path.
var ErrNotFound = errors.New("content: page not found")

const homeSlug = "home"

// Library is safe for concurrent reads.
type Library struct {
	pages    map[string]*Page
	sections map[Section][]*Page
	aliases  map[string]string
}

// Load reads every page under dir.
func Load(dir string) (*Library, error) {
	lib, err := LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("%w (dir %s)", err, dir)
	}
	return lib, nil
}

// LoadFS reads every page in fsys.
func LoadFS(fsys fs.FS) (*Library, error) {
	lib := &Library{
		pages:    make(map[string]*Page),
		sections: make(map[Section][]*Page),
		aliases:  make(map[string]string),
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("content: read root: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && !isKnown(Section(e.Name())) {
			zap.L().Debug("content: unknown section ignored", zap.String("dir", e.Name()))
		}
	}

	for _, sec := range Sections {
		files, err := fs.Glob(fsys, string(sec)+"/*.y*ml")
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			p, err := loadPage(fsys, sec, f)
			if err != nil {
				return nil, err
			}
			if p == nil {
				continue
			}
			if prev, dup := lib.pages[p.Path]; dup {
				return nil, fmt.Errorf("content: %s and %s both map to %s", prev.File, p.File, p.Path)
			}
			lib.pages[p.Path] = p
			lib.sections[sec] = append(lib.sections[sec], p)
		}
	}

	for _, p := range lib.pages {
		for _, a := range p.Aliases {
			a = routing.BuildPath("", a)
			if _, live := lib.pages[a]; live {
				return nil, fmt.Errorf("content: %s alias %s shadows a live page", p.File, a)
			}
			lib.aliases[a] = p.Path
		}
	}

	for sec, list := range lib.sections {
		sortSection(sec, list)
	}

	zap.L().Info("content library loaded",
		zap.Int("pages", len(lib.pages)),
		zap.Int("aliases", len(lib.aliases)))
	return lib, nil
}

// loadPage parses one file.  A nil page means the file is a draft.
func loadPage(fsys fs.FS, sec Section, file string) (*Page, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", file, err)
	}
	var p Page
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", file, err)
	}
	if p.Draft {
		zap.L().Debug("content: draft skipped", zap.String("file", file))
		return nil, nil
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("content: %s: title is required", file)
	}

	p.Section = sec
	p.File = file
	p.Slug = routing.SlugFromFile(path.Base(file))
	if sec == Pages && p.Slug == homeSlug {
		p.Path = "/"
	} else {
		p.Path = routing.BuildPath(sec.Prefix(), p.Slug)
	}

	if p.HTML, err = RenderMarkdown(p.Body); err != nil {
		return nil, fmt.Errorf("content: %s: %w", file, err)
	}
	return &p, nil
}

func sortSection(sec Section, list []*Page) {
	if sec == Blog {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Published.After(list[j].Published)
		})
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Title < list[j].Title })
}

// Page returns the page at path.
func (l *Library) Page(path string) (*Page, error) {
	if p, ok := l.pages[routing.BuildPath("", path)]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

// Section returns the pages of sec in display order.  The slice is shared;
// callers must not modify it.
func (l *Library) Section(sec Section) []*Page { return l.sections[sec] }

// All returns every page sorted by path.
func (l *Library) All() []*Page {
	out := make([]*Page, 0, len(l.pages))
	for _, p := range l.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Aliases returns a copy of the alias→path table.
func (l *Library) Aliases() map[string]string {
	out := make(map[string]string, len(l.aliases))
	for k, v := range l.aliases {
		out[k] = v
	}
	return out
}

// Len reports the number of live pages.
func (l *Library) Len() int { return len(l.pages) }

// ReadPage loads one file outside a library.  The section comes from the
// parent directory name; anything unrecognised is a root page.
func ReadPage(file string) (*Page, error) {
	dir, name := filepath.Split(filepath.Clean(file))
	if dir == "" {
		dir = "."
	}
	sec := Section(filepath.Base(dir))
	if !isKnown(sec) {
		sec = Pages
	}
	p, err := loadPage(os.DirFS(dir), sec, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("content: %s is a draft", file)
	}
	p.File = file
	return p, nil
}

func isKnown(sec Section) bool {
	for _, s := range Sections {
		if s == sec {
			return true
		}
	}
	return false
}
