// internal/content/page.go
//
// Content page model.
//
// Context
// -------
// Every page on the site is one YAML file under `content/<section>/`.  The
// file carries the copy (title, summary, markdown body), a few typed
// extras per section (city coordinates, FAQ, article dates), and an
// optional `meta:` block that is a seo.PageMetadata verbatim.  Whatever
// the meta block leaves empty is filled by Page.Metadata.
//
// Example
// -------
//
//	title: Austin
//	summary: Neighbourhoods, schools, and market trends in Austin.
//	aliases: [/austin]
//	place:
//	  address: {locality: Austin, region: TX}
//	  latitude: 30.2672
//	  longitude: -97.7431
//	body: |
//	  ## Living in Austin
//	  …
//	meta:
//	  twitterCard: summary
package content

import (
	"html/template"
	"time"

	"github.com/c0de128/4seasons/internal/seo"
)

// Section groups pages under a URL prefix.
type Section string

const (
	Cities Section = "cities"
	Blog   Section = "blog"
	Pages  Section = "pages" // mounted at the site root
)

// Sections lists every known section in menu order.
var Sections = []Section{Pages, Cities, Blog}

// Label is the human name used in breadcrumbs and index titles.
func (s Section) Label() string {
	switch s {
	case Cities:
		return "Cities"
	case Blog:
		return "Blog"
	default:
		return ""
	}
}

// Prefix is the route prefix ("" for root pages).
func (s Section) Prefix() string {
	if s == Pages {
		return ""
	}
	return string(s)
}

// Page is one content file.
type Page struct {
	Section Section `yaml:"-"`
	Slug    string  `yaml:"-"`
	Path    string  `yaml:"-"`
	File    string  `yaml:"-"`

	Title       string               `yaml:"title"`
	Summary     string               `yaml:"summary"`
	Body        string               `yaml:"body"`
	Image       string               `yaml:"image"`
	Author      seo.PersonRef        `yaml:"author"`
	Published   time.Time            `yaml:"published"`
	Updated     time.Time            `yaml:"updated"`
	Tags        []string             `yaml:"tags"`
	Aliases     []string             `yaml:"aliases"`
	Draft       bool                 `yaml:"draft"`
	Breadcrumbs []seo.BreadcrumbItem `yaml:"breadcrumbs"`
	FAQ         []seo.FAQ            `yaml:"faq"`
	Place       *Place               `yaml:"place"`
	Meta        seo.PageMetadata     `yaml:"meta"`

	// HTML is the sanitised render of Body.
	HTML template.HTML `yaml:"-"`
}

// Place locates a city guide.
type Place struct {
	Address   seo.AddressRef `yaml:"address"`
	Latitude  float64        `yaml:"latitude"`
	Longitude float64        `yaml:"longitude"`
}

// IsHome reports whether p is the root page.
func (p *Page) IsHome() bool { return p.Path == "/" }

// LastModified is Updated, else Published.
func (p *Page) LastModified() time.Time {
	if !p.Updated.IsZero() {
		return p.Updated
	}
	return p.Published
}
