// internal/seo/jsonld.go
//
// schema.org payload builders.
//
// Each builder returns a map ready for StructuredData.  Optional fields
// are omitted when empty.  Person and address inputs are small tagged
// unions (PersonRef, AddressRef): content files may give a bare string or
// a full object, and the builders see one normalised shape.
package seo

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ------------------------------------------------------------------
// Tagged unions
// ------------------------------------------------------------------

// Person is a schema.org Person.
type Person struct {
	Name     string `yaml:"name"               json:"name"`
	URL      string `yaml:"url,omitempty"      json:"url,omitempty"`
	JobTitle string `yaml:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	Image    string `yaml:"image,omitempty"    json:"image,omitempty"`
}

// PersonRef is either a bare name or a full Person.
type PersonRef struct {
	Person
}

// PersonNamed builds a PersonRef from a bare name.
func PersonNamed(name string) PersonRef { return PersonRef{Person{Name: name}} }

func (p *PersonRef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		p.Person = Person{Name: value.Value}
		return nil
	case yaml.MappingNode:
		return value.Decode(&p.Person)
	default:
		return fmt.Errorf("seo: person must be a string or mapping (line %d)", value.Line)
	}
}

// IsZero reports whether no name was given.
func (p PersonRef) IsZero() bool { return p.Name == "" }

// JSONLD returns the schema.org Person object.
func (p PersonRef) JSONLD() map[string]any {
	m := map[string]any{"@type": "Person", "name": p.Name}
	setIf(m, "url", p.URL)
	setIf(m, "jobTitle", p.JobTitle)
	setIf(m, "image", p.Image)
	return m
}

// PostalAddress is a schema.org PostalAddress.
type PostalAddress struct {
	Street     string `yaml:"street,omitempty"     json:"streetAddress,omitempty"`
	Locality   string `yaml:"locality,omitempty"   json:"addressLocality,omitempty"`
	Region     string `yaml:"region,omitempty"     json:"addressRegion,omitempty"`
	PostalCode string `yaml:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country    string `yaml:"country,omitempty"    json:"addressCountry,omitempty"`
}

// AddressRef is either a one-line street address or a full PostalAddress.
type AddressRef struct {
	PostalAddress
}

func (a *AddressRef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		a.PostalAddress = PostalAddress{Street: value.Value}
		return nil
	case yaml.MappingNode:
		return value.Decode(&a.PostalAddress)
	default:
		return fmt.Errorf("seo: address must be a string or mapping (line %d)", value.Line)
	}
}

func (a AddressRef) IsZero() bool { return a.PostalAddress == PostalAddress{} }

// JSONLD returns the schema.org PostalAddress object.
func (a AddressRef) JSONLD() map[string]any {
	m := map[string]any{"@type": "PostalAddress"}
	setIf(m, "streetAddress", a.Street)
	setIf(m, "addressLocality", a.Locality)
	setIf(m, "addressRegion", a.Region)
	setIf(m, "postalCode", a.PostalCode)
	setIf(m, "addressCountry", a.Country)
	return m
}

// ------------------------------------------------------------------
// Builders
// ------------------------------------------------------------------

// Business describes the brokerage for Organization and RealEstateAgent.
type Business struct {
	Name        string
	URL         string
	Logo        string
	Image       string
	Telephone   string
	Email       string
	PriceRange  string
	Address     AddressRef
	AreaServed  []string
	SameAs      []string
	OpeningHour []string // "Mo-Fr 09:00-18:00"
}

// Organization returns a schema.org Organization.
func Organization(b Business) map[string]any {
	m := withContext("Organization")
	m["name"] = b.Name
	setIf(m, "url", b.URL)
	setIf(m, "logo", b.Logo)
	setIf(m, "telephone", b.Telephone)
	setIf(m, "email", b.Email)
	if !b.Address.IsZero() {
		m["address"] = b.Address.JSONLD()
	}
	if len(b.SameAs) > 0 {
		m["sameAs"] = b.SameAs
	}
	return m
}

// RealEstateAgent returns the LocalBusiness subtype used for the brokerage.
func RealEstateAgent(b Business) map[string]any {
	m := Organization(b)
	m["@type"] = "RealEstateAgent"
	setIf(m, "image", firstNonEmpty(b.Image, b.Logo))
	setIf(m, "priceRange", b.PriceRange)
	if len(b.AreaServed) > 0 {
		areas := make([]map[string]any, 0, len(b.AreaServed))
		for _, a := range b.AreaServed {
			areas = append(areas, map[string]any{"@type": "City", "name": a})
		}
		m["areaServed"] = areas
	}
	if len(b.OpeningHour) > 0 {
		m["openingHours"] = b.OpeningHour
	}
	return m
}

// WebSite returns a WebSite schema with an optional SearchAction.  The
// search URL is suffixed with {search_term_string}.
func WebSite(name, url, searchURL string) map[string]any {
	m := withContext("WebSite")
	m["name"] = name
	setIf(m, "url", url)
	if searchURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchURL + "{search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// WebPage returns a WebPage schema.
func WebPage(name, description, url string) map[string]any {
	m := withContext("WebPage")
	m["name"] = name
	setIf(m, "description", description)
	setIf(m, "url", url)
	return m
}

// ArticleInput feeds Article.
type ArticleInput struct {
	Type          string // "Article" (default) or "BlogPosting"
	Headline      string
	Description   string
	URL           string
	Image         string
	Author        PersonRef
	Publisher     string
	PublisherLogo string
	Published     string
	Modified      string
	Section       string
	Keywords      []string
}

// Article returns an Article or BlogPosting schema.
func Article(in ArticleInput) map[string]any {
	m := withContext(firstNonEmpty(in.Type, "Article"))
	m["headline"] = in.Headline
	setIf(m, "description", in.Description)
	setIf(m, "url", in.URL)
	setIf(m, "image", in.Image)
	setIf(m, "datePublished", in.Published)
	setIf(m, "dateModified", firstNonEmpty(in.Modified, in.Published))
	setIf(m, "articleSection", in.Section)
	if in.URL != "" {
		m["mainEntityOfPage"] = map[string]any{"@type": "WebPage", "@id": in.URL}
	}
	if !in.Author.IsZero() {
		m["author"] = in.Author.JSONLD()
	}
	if in.Publisher != "" {
		pub := map[string]any{"@type": "Organization", "name": in.Publisher}
		if in.PublisherLogo != "" {
			pub["logo"] = map[string]any{"@type": "ImageObject", "url": in.PublisherLogo}
		}
		m["publisher"] = pub
	}
	if len(in.Keywords) > 0 {
		m["keywords"] = in.Keywords
	}
	return m
}

// BreadcrumbItem maps a name to an absolute item URL.
type BreadcrumbItem struct {
	Name string `yaml:"name"`
	Item string `yaml:"url"`
}

// BreadcrumbList builds a schema.org BreadcrumbList; positions start at 1.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	m := withContext("BreadcrumbList")
	m["itemListElement"] = el
	return m
}

// FAQ is one question/answer pair.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// FAQPage builds a schema.org FAQPage.
func FAQPage(faqs []FAQ) map[string]any {
	qs := make([]map[string]any, 0, len(faqs))
	for _, f := range faqs {
		qs = append(qs, map[string]any{
			"@type": "Question",
			"name":  f.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  f.Answer,
			},
		})
	}
	m := withContext("FAQPage")
	m["mainEntity"] = qs
	return m
}

// PlaceInput feeds Place, used by city guides.
type PlaceInput struct {
	Name        string
	Description string
	URL         string
	Image       string
	Address     AddressRef
	Latitude    float64
	Longitude   float64
}

// Place returns a schema.org Place.  Coordinates are omitted when both
// are zero.
func Place(in PlaceInput) map[string]any {
	m := withContext("Place")
	m["name"] = in.Name
	setIf(m, "description", in.Description)
	setIf(m, "url", in.URL)
	setIf(m, "image", in.Image)
	if !in.Address.IsZero() {
		m["address"] = in.Address.JSONLD()
	}
	if in.Latitude != 0 || in.Longitude != 0 {
		m["geo"] = map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  in.Latitude,
			"longitude": in.Longitude,
		}
	}
	return m
}

// Graph wraps items in one @graph document.  Nested graphs are flattened
// exactly as Publish does for a list.
func Graph(items ...map[string]any) map[string]any {
	return map[string]any{
		"@context": SchemaContext,
		"@graph":   flattenGraph(items),
	}
}

func withContext(typ string) map[string]any {
	return map[string]any{"@context": SchemaContext, "@type": typ}
}

func setIf(m map[string]any, key, val string) {
	if val != "" {
		m[key] = val
	}
}
