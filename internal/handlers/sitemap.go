package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/c0de128/4seasons/internal/content"
	"github.com/c0de128/4seasons/internal/pagecache"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

func (h *Handler) sitemap(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "/sitemap.xml", "sitemap", func() (*pagecache.Page, bool, error) {
		body, err := h.buildSitemap()
		if err != nil {
			return nil, false, err
		}
		return newPage(http.StatusOK, "application/xml; charset=utf-8", body), true, nil
	})
}

// buildSitemap lists every indexable page, the section indexes, and the
// calculator.  Pages whose robots meta says noindex are left out.
func (h *Handler) buildSitemap() ([]byte, error) {
	set := urlset{Xmlns: sitemapNS}
	add := func(path, lastmod, freq, prio string) {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        content.AbsURL(h.site.BaseURL, path),
			LastMod:    lastmod,
			ChangeFreq: freq,
			Priority:   prio,
		})
	}

	for _, p := range h.library().All() {
		if strings.Contains(strings.ToLower(p.Meta.Robots), "noindex") {
			continue
		}
		lastmod := ""
		if t := p.LastModified(); !t.IsZero() {
			lastmod = t.UTC().Format("2006-01-02")
		}
		switch {
		case p.IsHome():
			add(p.Path, lastmod, "weekly", "1.0")
		case p.Section == content.Blog:
			add(p.Path, lastmod, "monthly", "0.6")
		default:
			add(p.Path, lastmod, "monthly", "0.8")
		}
	}
	for _, sec := range content.Sections {
		if sec != content.Pages && len(h.library().Section(sec)) > 0 {
			add("/"+sec.Prefix(), "", "weekly", "0.7")
		}
	}
	if _, err := h.library().Page(CalculatorPath); err != nil {
		add(CalculatorPath, "", "monthly", "0.5")
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func (h *Handler) robots(w http.ResponseWriter, r *http.Request) {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")
	if strings.Contains(strings.ToLower(h.site.Robots), "noindex") {
		// Staging and preview hosts.
		sb.WriteString("Disallow: /\n")
	} else {
		sb.WriteString("Disallow: /api/\n")
	}
	fmt.Fprintf(&sb, "\nSitemap: %s\n", content.AbsURL(h.site.BaseURL, "/sitemap.xml"))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(sb.String()))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	cached := 0
	if h.cache != nil {
		cached = h.cache.Len()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"pages":  h.library().Len(),
		"cached": cached,
	})
}
