// internal/content/metadata.go
//
// Page → seo.PageMetadata.
//
// Context
// -------
// The `meta:` block of a page file always wins.  Metadata only fills what
// it leaves empty:
//
//   - title          page title, suffixed with the site name (home keeps
//     the bare site title),
//   - description    page summary,
//   - keywords       page tags joined with ", ",
//   - canonical      site base URL + route path,
//   - og image       page image, made absolute,
//   - article fields for blog posts (og type "article", dates, section,
//     author, tags),
//   - structured data: WebPage and BreadcrumbList, plus BlogPosting for
//     posts, Place for city guides, and FAQPage when the page has a FAQ.
package content

import (
	"strings"
	"time"

	"github.com/c0de128/4seasons/internal/seo"
)

const titleSeparator = " | "

// Metadata resolves p's metadata against site.
func (p *Page) Metadata(site seo.SiteDefaults) seo.PageMetadata {
	m := p.Meta

	if m.Title == "" {
		m.Title = p.Title
		if !p.IsHome() && site.SiteName != "" {
			m.Title += titleSeparator + site.SiteName
		}
	}
	if m.Description == "" {
		m.Description = p.Summary
	}
	if m.Keywords == "" && len(p.Tags) > 0 {
		m.Keywords = strings.Join(p.Tags, ", ")
	}
	url := AbsURL(site.BaseURL, p.Path)
	if m.Canonical == "" && m.CanonicalURL == "" {
		m.Canonical = url
	}
	hasImages := m.OpenGraph != nil && len(m.OpenGraph.Images) > 0
	if m.OGImage == "" && !hasImages && p.Image != "" {
		m.OGImage = AbsURL(site.BaseURL, p.Image)
	}

	if p.Section == Blog {
		p.fillArticle(&m)
	}

	if m.StructuredData.IsZero() {
		m.StructuredData = p.structuredData(site, url)
	}
	return m
}

func (p *Page) fillArticle(m *seo.PageMetadata) {
	if m.OGType == "" && (m.OpenGraph == nil || m.OpenGraph.Type == "") {
		m.OGType = "article"
	}
	if m.ArticlePublishedTime == "" {
		m.ArticlePublishedTime = formatTime(p.Published)
	}
	if m.ArticleModifiedTime == "" {
		m.ArticleModifiedTime = formatTime(p.Updated)
	}
	if m.ArticleSection == "" {
		m.ArticleSection = Blog.Label()
	}
	if m.ArticleAuthor == "" {
		m.ArticleAuthor = p.Author.Name
	}
	if len(m.ArticleTags) == 0 {
		m.ArticleTags = p.Tags
	}
}

func (p *Page) structuredData(site seo.SiteDefaults, url string) seo.StructuredData {
	items := []map[string]any{
		seo.WebPage(p.Title, p.Summary, url),
		seo.BreadcrumbList(p.breadcrumbs(site)),
	}

	switch {
	case p.Section == Blog:
		items = append(items, seo.Article(seo.ArticleInput{
			Type:        "BlogPosting",
			Headline:    p.Title,
			Description: p.Summary,
			URL:         url,
			Image:       AbsURL(site.BaseURL, p.Image),
			Author:      p.Author,
			Publisher:   site.SiteName,
			Published:   formatTime(p.Published),
			Modified:    formatTime(p.Updated),
			Section:     Blog.Label(),
			Keywords:    p.Tags,
		}))
	case p.Section == Cities && p.Place != nil:
		items = append(items, seo.Place(seo.PlaceInput{
			Name:        p.Title,
			Description: p.Summary,
			URL:         url,
			Image:       AbsURL(site.BaseURL, p.Image),
			Address:     p.Place.Address,
			Latitude:    p.Place.Latitude,
			Longitude:   p.Place.Longitude,
		}))
	}
	if len(p.FAQ) > 0 {
		items = append(items, seo.FAQPage(p.FAQ))
	}
	return seo.List(items...)
}

// breadcrumbs returns the explicit trail, or Home › Section › Page.
func (p *Page) breadcrumbs(site seo.SiteDefaults) []seo.BreadcrumbItem {
	if len(p.Breadcrumbs) > 0 {
		out := make([]seo.BreadcrumbItem, len(p.Breadcrumbs))
		for i, b := range p.Breadcrumbs {
			out[i] = seo.BreadcrumbItem{Name: b.Name, Item: AbsURL(site.BaseURL, b.Item)}
		}
		return out
	}
	trail := []seo.BreadcrumbItem{{Name: "Home", Item: AbsURL(site.BaseURL, "/")}}
	if p.IsHome() {
		return trail
	}
	if label := p.Section.Label(); label != "" {
		trail = append(trail, seo.BreadcrumbItem{
			Name: label,
			Item: AbsURL(site.BaseURL, "/"+p.Section.Prefix()),
		})
	}
	return append(trail, seo.BreadcrumbItem{Name: p.Title, Item: AbsURL(site.BaseURL, p.Path)})
}

// SectionMetadata describes a section index page such as /blog.
func SectionMetadata(sec Section, pages []*Page, site seo.SiteDefaults) seo.PageMetadata {
	path := "/" + sec.Prefix()
	url := AbsURL(site.BaseURL, path)
	title := sec.Label()
	if site.SiteName != "" {
		title += titleSeparator + site.SiteName
	}

	crumbs := []seo.BreadcrumbItem{
		{Name: "Home", Item: AbsURL(site.BaseURL, "/")},
		{Name: sec.Label(), Item: url},
	}
	list := make([]map[string]any, 0, len(pages))
	for i, p := range pages {
		list = append(list, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"url":      AbsURL(site.BaseURL, p.Path),
			"name":     p.Title,
		})
	}
	return seo.PageMetadata{
		Title:     title,
		Canonical: url,
		StructuredData: seo.List(
			seo.WebPage(title, "", url),
			seo.BreadcrumbList(crumbs),
			map[string]any{"@context": seo.SchemaContext, "@type": "ItemList", "itemListElement": list},
		),
	}
}

// AbsURL joins base and ref unless ref is empty or already absolute.
func AbsURL(base, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(ref, "/")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
