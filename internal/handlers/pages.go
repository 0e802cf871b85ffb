package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/c0de128/4seasons/internal/content"
	"github.com/c0de128/4seasons/internal/head"
	"github.com/c0de128/4seasons/internal/metrics"
	"github.com/c0de128/4seasons/internal/pagecache"
	"github.com/c0de128/4seasons/internal/requestinfo"
	"github.com/c0de128/4seasons/internal/seo"
	"github.com/c0de128/4seasons/internal/store"
)

const (
	featuredCities = 6
	latestPosts    = 3
)

/*──────────────────────────── routes ───────────────────────────────────────*/

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	p, err := h.library().Page("/")
	if err != nil {
		h.notFound(w, r)
		return
	}
	ctx := context.WithoutCancel(r.Context())
	h.serve(w, r, "/", "home", func() (*pagecache.Page, bool, error) {
		meta := p.Metadata(h.seo)
		meta.StructuredData = meta.StructuredData.Append(
			seo.RealEstateAgent(h.business),
			seo.WebSite(h.site.Name, h.site.BaseURL, ""),
		)
		ok := h.override(ctx, "/", &meta)
		v := &View{
			Page:     p,
			Section:  p.Section,
			Featured: firstN(h.library().Section(content.Cities), featuredCities),
			Latest:   firstN(h.library().Section(content.Blog), latestPosts),
		}
		return h.render("home", http.StatusOK, v, meta, ok)
	})
}

// sectionOrPage serves "/about" style root pages and the "/cities" and
// "/blog" indexes.  A root page wins over an index of the same name.
func (h *Handler) sectionOrPage(w http.ResponseWriter, r *http.Request) {
	if p, err := h.library().Page(r.URL.Path); err == nil {
		h.servePage(w, r, p)
		return
	}
	sec := content.Section(chi.URLParam(r, "first"))
	if sec == content.Pages || !isSection(sec) {
		h.notFound(w, r)
		return
	}

	path := "/" + sec.Prefix()
	pages := h.library().Section(sec)
	ctx := context.WithoutCancel(r.Context())
	h.serve(w, r, path, string(sec), func() (*pagecache.Page, bool, error) {
		meta := content.SectionMetadata(sec, pages, h.seo)
		ok := h.override(ctx, path, &meta)
		return h.render("section", http.StatusOK, &View{Section: sec, Pages: pages}, meta, ok)
	})
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	p, err := h.library().Page(r.URL.Path)
	if err != nil {
		h.notFound(w, r)
		return
	}
	h.servePage(w, r, p)
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, p *content.Page) {
	ctx := context.WithoutCancel(r.Context())
	section := string(p.Section)
	h.serve(w, r, p.Path, section, func() (*pagecache.Page, bool, error) {
		meta := p.Metadata(h.seo)
		ok := h.override(ctx, p.Path, &meta)
		return h.render("page", http.StatusOK, &View{Page: p, Section: p.Section}, meta, ok)
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "", "notfound", func() (*pagecache.Page, bool, error) {
		meta := seo.PageMetadata{
			Title:  "Page not found | " + h.site.Name,
			Robots: "noindex, follow",
		}
		return h.render("notfound", http.StatusNotFound, &View{Path: r.URL.Path}, meta, false)
	})
}

/*──────────────────────────── rendering ────────────────────────────────────*/

// serve answers from the cache, rendering on a miss.  An empty key skips
// the cache.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, key, section string, render pagecache.RenderFunc) {
	var (
		page *pagecache.Page
		err  error
	)
	if h.cache != nil && key != "" {
		page, _, err = h.cache.Get(key, render)
	} else {
		page, _, err = render()
	}
	if err != nil {
		zap.L().Error("render page", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	metrics.PageRendersTotal.WithLabelValues(section, botLabel(r)).Inc()
	writePage(w, r, page)
}

// render applies meta to a fresh head and executes tpl.  cacheable is
// passed through so a failed override lookup is not pinned in the cache.
func (h *Handler) render(tpl string, status int, v *View, meta seo.PageMetadata, cacheable bool) (*pagecache.Page, bool, error) {
	b := head.New()
	if err := seo.NewController(b, h.seo).Apply(meta); err != nil {
		return nil, false, fmt.Errorf("apply metadata: %w", err)
	}

	v.Head = b
	v.Site = h.site
	v.Lang = h.lang

	var buf bytes.Buffer
	if err := h.theme.Render(&buf, tpl, v); err != nil {
		return nil, false, fmt.Errorf("render %s: %w", tpl, err)
	}
	return newPage(status, "text/html; charset=utf-8", buf.Bytes()), cacheable && status == http.StatusOK, nil
}

// override overlays the page_meta row for path.  It reports false when
// the lookup failed, in which case the render must not be cached.
func (h *Handler) override(ctx context.Context, path string, m *seo.PageMetadata) bool {
	if h.store == nil {
		return true
	}
	ov, err := h.store.ByPath(ctx, path)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return true
	case err != nil:
		zap.L().Warn("page_meta lookup failed", zap.String("path", path), zap.Error(err))
		return false
	}
	if err := ov.Apply(m); err != nil {
		zap.L().Warn("page_meta override ignored", zap.String("path", path), zap.Error(err))
	}
	return true
}

func newPage(status int, contentType string, body []byte) *pagecache.Page {
	sum := sha256.Sum256(body)
	return &pagecache.Page{
		Status:      status,
		ContentType: contentType,
		ETag:        `"` + hex.EncodeToString(sum[:8]) + `"`,
		Body:        body,
	}
}

func writePage(w http.ResponseWriter, r *http.Request, p *pagecache.Page) {
	hdr := w.Header()
	hdr.Set("Content-Type", p.ContentType)
	if p.ETag != "" {
		hdr.Set("ETag", p.ETag)
		if p.Status == http.StatusOK && r.Header.Get("If-None-Match") == p.ETag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(p.Status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(p.Body)
	}
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// botLabel names the crawler for metrics, or "none" for people.
func botLabel(r *http.Request) string {
	info := requestinfo.FromContext(r.Context())
	if !info.IsBot() {
		return "none"
	}
	return info.UA.Crawler
}

func isSection(s content.Section) bool {
	for _, known := range content.Sections {
		if s == known {
			return true
		}
	}
	return false
}

// firstN returns at most n leading pages.
func firstN(pages []*content.Page, n int) []*content.Page {
	if len(pages) > n {
		return pages[:n]
	}
	return pages
}
