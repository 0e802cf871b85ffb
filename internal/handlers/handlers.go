// internal/handlers/handlers.go
//
// HTTP handlers for the public site.
//
// Context
// -------
// Every HTML response follows the same path:
//
//  1. Resolve the content page (or synthesise one for indexes and the
//     calculator).
//  2. Build its seo.PageMetadata, overlay any page_meta row, and apply it
//     to a fresh head.Builder through a seo.Controller.
//  3. Execute the theme layout with the builder as `.Head`.
//  4. Store the bytes in the page cache, keyed by path.
//
// Steps 1 to 3 run only on a cache miss.  Request-specific values never
// reach a cached template; the calculator, whose defaults depend on the
// visitor's region, adds the region to its cache key.
//
// Notes
// -----
//   - The store and the cache are optional.  A nil store skips overrides
//     and a nil cache renders on every request.
//   - Oxford commas, two spaces after periods.
package handlers

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"

	"github.com/c0de128/4seasons/internal/config"
	"github.com/c0de128/4seasons/internal/content"
	"github.com/c0de128/4seasons/internal/head"
	"github.com/c0de128/4seasons/internal/pagecache"
	"github.com/c0de128/4seasons/internal/seo"
	"github.com/c0de128/4seasons/internal/store"
	"github.com/c0de128/4seasons/internal/theme"
)

// OverrideSource is the slice of *store.Store the handlers use.
type OverrideSource interface {
	ByPath(ctx context.Context, path string) (*store.Override, error)
	UpdatedSince(ctx context.Context, t time.Time) ([]store.Override, error)
}

// Deps wires a Handler.  Library, Theme, and Site are required.
type Deps struct {
	Site      config.Site
	Library   *content.Library
	Theme     *theme.Theme
	Overrides OverrideSource   // optional
	Cache     *pagecache.Cache // optional
	Debug     bool             // mount /debug/request
}

// Handler serves the site.
type Handler struct {
	site     config.Site
	seo      seo.SiteDefaults
	business seo.Business
	lang     string

	lib   atomic.Pointer[content.Library]
	theme *theme.Theme
	store OverrideSource
	cache *pagecache.Cache
	debug bool
}

// View is the data every theme template receives.
type View struct {
	Head *head.Builder
	Site config.Site
	Lang string
	Path string

	Section content.Section
	Page    *content.Page
	Pages   []*content.Page

	Featured []*content.Page // home: city guides
	Latest   []*content.Page // home: recent posts

	Calculator *CalculatorDefaults
}

// New builds a Handler from d.
func New(d Deps) *Handler {
	h := &Handler{
		site:     d.Site,
		seo:      d.Site.SEODefaults(),
		business: d.Site.Business(),
		lang:     htmlLang(d.Site.Locale),
		theme:    d.Theme,
		store:    d.Overrides,
		cache:    d.Cache,
		debug:    d.Debug,
	}
	h.lib.Store(d.Library)
	return h
}

func (h *Handler) library() *content.Library { return h.lib.Load() }

// SetLibrary swaps in a freshly loaded library and drops every cached page.
func (h *Handler) SetLibrary(lib *content.Library) {
	h.lib.Store(lib)
	if h.cache != nil {
		h.cache.Purge()
	}
}

// Routes returns the site router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.GetHead)

	r.Get("/healthz", h.health)
	r.Get("/robots.txt", h.robots)
	r.Get("/sitemap.xml", h.sitemap)
	if h.debug {
		r.Get("/debug/request", h.debugRequest)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/affordability", h.affordability)
		r.Post("/payment", h.payment)
	})

	assets := "/themes/" + h.theme.Name + "/assets/"
	r.Handle(assets+"*", http.StripPrefix(assets, cacheForever(
		http.FileServer(http.Dir(filepath.Join(h.theme.Root, "assets"))))))

	r.Get(CalculatorPath, h.calculator)
	r.Get("/", h.home)
	r.Get("/{first}", h.sectionOrPage)
	r.Get("/{section}/{slug}", h.page)
	r.NotFound(h.notFound)
	return r
}

// htmlLang maps a locale such as "en_US" onto the BCP 47 base "en".
func htmlLang(locale string) string {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	return base.String()
}

func cacheForever(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		next.ServeHTTP(w, r)
	})
}
