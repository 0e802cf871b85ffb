// internal/seo/metadata.go
//
// Page metadata model.
//
// Context
// -------
// PageMetadata is the declarative description each page hands to the
// Controller.  Field names (YAML and JSON) keep the camelCase keys content
// editors already use, including the two legacy spellings that survive in
// older pages:
//
//   - `canonical` and `canonicalUrl`
//   - the nested `openGraph` object and the flat `ogTitle`, `ogImage`, …
//
// Normalize (normalize.go) folds both spellings into one Resolved value
// before anything is written.  Nothing outside this package should read
// the legacy fields directly.
//
// Notes
// -----
//   - Title and Description are required by convention.  Empty values are
//     written as empty strings, never rejected.
//   - Oxford commas, two spaces after periods.
package seo

// Image is one Open Graph image.  Zero Width/Height/Alt pick defaults.
type Image struct {
	URL    string `yaml:"url"              json:"url"`
	Width  int    `yaml:"width,omitempty"  json:"width,omitempty"`
	Height int    `yaml:"height,omitempty" json:"height,omitempty"`
	Alt    string `yaml:"alt,omitempty"    json:"alt,omitempty"`
}

// OpenGraph is the nested Open Graph block.
type OpenGraph struct {
	Title       string  `yaml:"title,omitempty"       json:"title,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	URL         string  `yaml:"url,omitempty"         json:"url,omitempty"`
	Type        string  `yaml:"type,omitempty"        json:"type,omitempty"`
	SiteName    string  `yaml:"siteName,omitempty"    json:"siteName,omitempty"`
	Locale      string  `yaml:"locale,omitempty"      json:"locale,omitempty"`
	Images      []Image `yaml:"images,omitempty"      json:"images,omitempty"`
}

// AlternateLanguage points at a translated version of the page.
type AlternateLanguage struct {
	Lang string `yaml:"lang" json:"lang"`
	URL  string `yaml:"url"  json:"url"`
}

// Verification holds search-console ownership tokens.
type Verification struct {
	Google    string `yaml:"google,omitempty"    json:"google,omitempty"    koanf:"google"`
	Bing      string `yaml:"bing,omitempty"      json:"bing,omitempty"      koanf:"bing"`
	Yandex    string `yaml:"yandex,omitempty"    json:"yandex,omitempty"    koanf:"yandex"`
	Pinterest string `yaml:"pinterest,omitempty" json:"pinterest,omitempty" koanf:"pinterest"`
}

// PageMetadata is the per-page input to the Controller.
type PageMetadata struct {
	Title       string `yaml:"title"              json:"title"`
	Description string `yaml:"description"        json:"description"`
	Keywords    string `yaml:"keywords,omitempty" json:"keywords,omitempty"`

	Canonical    string `yaml:"canonical,omitempty"    json:"canonical,omitempty"`
	CanonicalURL string `yaml:"canonicalUrl,omitempty" json:"canonicalUrl,omitempty"`

	OpenGraph     *OpenGraph `yaml:"openGraph,omitempty"     json:"openGraph,omitempty"`
	OGTitle       string     `yaml:"ogTitle,omitempty"       json:"ogTitle,omitempty"`
	OGDescription string     `yaml:"ogDescription,omitempty" json:"ogDescription,omitempty"`
	OGImage       string     `yaml:"ogImage,omitempty"       json:"ogImage,omitempty"`
	OGType        string     `yaml:"ogType,omitempty"        json:"ogType,omitempty"`
	OGURL         string     `yaml:"ogUrl,omitempty"         json:"ogUrl,omitempty"`

	TwitterCard    string `yaml:"twitterCard,omitempty"    json:"twitterCard,omitempty"`
	TwitterSite    string `yaml:"twitterSite,omitempty"    json:"twitterSite,omitempty"`
	TwitterCreator string `yaml:"twitterCreator,omitempty" json:"twitterCreator,omitempty"`

	Robots             string              `yaml:"robots,omitempty"             json:"robots,omitempty"`
	Author             string              `yaml:"author,omitempty"             json:"author,omitempty"`
	Locale             string              `yaml:"locale,omitempty"             json:"locale,omitempty"`
	AlternateLanguages []AlternateLanguage `yaml:"alternateLanguages,omitempty" json:"alternateLanguages,omitempty"`

	Viewport        string `yaml:"viewport,omitempty"        json:"viewport,omitempty"`
	ThemeColor      string `yaml:"themeColor,omitempty"      json:"themeColor,omitempty"`
	ApplicationName string `yaml:"applicationName,omitempty" json:"applicationName,omitempty"`

	Verification  Verification `yaml:"verification,omitempty"  json:"verification,omitempty"`
	FacebookAppID string       `yaml:"facebookAppId,omitempty" json:"facebookAppId,omitempty"`

	ArticlePublishedTime string   `yaml:"articlePublishedTime,omitempty" json:"articlePublishedTime,omitempty"`
	ArticleModifiedTime  string   `yaml:"articleModifiedTime,omitempty"  json:"articleModifiedTime,omitempty"`
	ArticleSection       string   `yaml:"articleSection,omitempty"       json:"articleSection,omitempty"`
	ArticleAuthor        string   `yaml:"articleAuthor,omitempty"        json:"articleAuthor,omitempty"`
	ArticleTags          []string `yaml:"articleTags,omitempty"          json:"articleTags,omitempty"`

	StructuredData StructuredData `yaml:"structuredData,omitempty" json:"structuredData,omitempty"`
}

// SiteDefaults fills fields a page leaves empty.  It is built once from
// configuration (config.Site.SEODefaults).
type SiteDefaults struct {
	SiteName        string
	BaseURL         string
	TwitterSite     string
	TwitterCreator  string
	TwitterDomain   string
	Author          string
	Robots          string
	Locale          string
	Viewport        string
	ThemeColor      string
	ApplicationName string
	FacebookAppID   string
	Verification    Verification
}
