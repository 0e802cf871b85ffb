// internal/seo/normalize.go
//
// One-shot normalisation of PageMetadata.
//
// Precedence rules
// ----------------
//   - canonical      first non-empty of canonical, canonicalUrl.
//   - og title       openGraph.title, ogTitle, title.
//   - og description openGraph.description, ogDescription, description.
//   - og type        openGraph.type, ogType, "website".
//   - og url         openGraph.url, ogUrl, canonical.
//   - og image       openGraph.images[0], {url: ogImage}, none.
//   - image size     1200×630 unless given; alt falls back to og title.
//
// Page values beat SiteDefaults, which beat the package constants below.
package seo

import (
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	DefaultRobots      = "index, follow"
	DefaultViewport    = "width=device-width, initial-scale=1"
	DefaultLocale      = "en_US"
	DefaultOGType      = "website"
	DefaultTwitterCard = "summary_large_image"
	DefaultImageWidth  = 1200
	DefaultImageHeight = 630

	ogTypeArticle = "article"
	hreflangAny   = "x-default"
)

// Resolved is PageMetadata after every fallback has been applied.
type Resolved struct {
	Title       string
	Description string
	Keywords    string
	Canonical   string

	OG      ResolvedOpenGraph
	Twitter ResolvedTwitter

	Robots          string
	Author          string
	Viewport        string
	ThemeColor      string
	ApplicationName string

	Verification  Verification
	FacebookAppID string

	// Article is nil unless OG.Type is "article".
	Article *ResolvedArticle

	Alternates []AlternateLanguage
}

type ResolvedOpenGraph struct {
	Title       string
	Description string
	Type        string
	URL         string
	SiteName    string
	Locale      string
	Image       *Image // nil: omit every og:image* tag
}

type ResolvedTwitter struct {
	Card        string
	Site        string
	Creator     string
	Title       string
	Description string
	Domain      string
}

type ResolvedArticle struct {
	PublishedTime string
	ModifiedTime  string
	Section       string
	Author        string
	Tags          []string
}

// Normalize resolves m against site.
func Normalize(m PageMetadata, site SiteDefaults) Resolved {
	var og OpenGraph
	if m.OpenGraph != nil {
		og = *m.OpenGraph
	}

	r := Resolved{
		Title:           m.Title,
		Description:     m.Description,
		Keywords:        m.Keywords,
		Canonical:       firstNonEmpty(m.Canonical, m.CanonicalURL),
		Robots:          firstNonEmpty(m.Robots, site.Robots, DefaultRobots),
		Author:          firstNonEmpty(m.Author, site.Author, site.SiteName),
		Viewport:        firstNonEmpty(m.Viewport, site.Viewport, DefaultViewport),
		ThemeColor:      firstNonEmpty(m.ThemeColor, site.ThemeColor),
		ApplicationName: firstNonEmpty(m.ApplicationName, site.ApplicationName, site.SiteName),
		Verification:    mergeVerification(m.Verification, site.Verification),
		FacebookAppID:   firstNonEmpty(m.FacebookAppID, site.FacebookAppID),
	}

	r.OG = ResolvedOpenGraph{
		Title:       firstNonEmpty(og.Title, m.OGTitle, m.Title),
		Description: firstNonEmpty(og.Description, m.OGDescription, m.Description),
		Type:        firstNonEmpty(og.Type, m.OGType, DefaultOGType),
		URL:         firstNonEmpty(og.URL, m.OGURL, r.Canonical),
		SiteName:    firstNonEmpty(og.SiteName, site.SiteName),
		Locale:      firstNonEmpty(og.Locale, m.Locale, site.Locale, DefaultLocale),
	}
	r.OG.Image = resolveImage(og.Images, m.OGImage, r.OG.Title)

	r.Twitter = ResolvedTwitter{
		Card:        firstNonEmpty(m.TwitterCard, DefaultTwitterCard),
		Site:        firstNonEmpty(m.TwitterSite, site.TwitterSite),
		Creator:     firstNonEmpty(m.TwitterCreator, site.TwitterCreator, m.TwitterSite, site.TwitterSite),
		Title:       r.OG.Title,
		Description: r.OG.Description,
		Domain:      firstNonEmpty(site.TwitterDomain, hostOf(site.BaseURL)),
	}

	if r.OG.Type == ogTypeArticle {
		r.Article = &ResolvedArticle{
			PublishedTime: m.ArticlePublishedTime,
			ModifiedTime:  m.ArticleModifiedTime,
			Section:       m.ArticleSection,
			Author:        firstNonEmpty(m.ArticleAuthor, r.Author),
			Tags:          nonEmpty(m.ArticleTags),
		}
	}

	r.Alternates = normalizeAlternates(m.AlternateLanguages)
	return r
}

// resolveImage applies the image precedence and defaults.
func resolveImage(images []Image, flat, title string) *Image {
	var img Image
	switch {
	case len(images) > 0 && images[0].URL != "":
		img = images[0]
	case flat != "":
		img = Image{URL: flat}
	default:
		return nil
	}
	if img.Width == 0 {
		img.Width = DefaultImageWidth
	}
	if img.Height == 0 {
		img.Height = DefaultImageHeight
	}
	if img.Alt == "" {
		img.Alt = title
	}
	return &img
}

// normalizeAlternates canonicalises hreflang values and drops invalid or
// empty entries.  Order is preserved.
func normalizeAlternates(in []AlternateLanguage) []AlternateLanguage {
	if len(in) == 0 {
		return nil
	}
	out := make([]AlternateLanguage, 0, len(in))
	for _, a := range in {
		if a.URL == "" || a.Lang == "" {
			continue
		}
		tag, err := canonicalHreflang(a.Lang)
		if err != nil {
			zap.L().Warn("seo: invalid hreflang skipped",
				zap.String("lang", a.Lang), zap.String("url", a.URL), zap.Error(err))
			continue
		}
		out = append(out, AlternateLanguage{Lang: tag, URL: a.URL})
	}
	return out
}

// canonicalHreflang maps "es_mx" → "es-MX".  "x-default" is kept as is.
func canonicalHreflang(raw string) (string, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")
	if strings.EqualFold(raw, hreflangAny) {
		return hreflangAny, nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

func mergeVerification(page, site Verification) Verification {
	return Verification{
		Google:    firstNonEmpty(page.Google, site.Google),
		Bing:      firstNonEmpty(page.Bing, site.Bing),
		Yandex:    firstNonEmpty(page.Yandex, site.Yandex),
		Pinterest: firstNonEmpty(page.Pinterest, site.Pinterest),
	}
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
