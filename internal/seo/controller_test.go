package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0de128/4seasons/internal/head"
)

var testSite = SiteDefaults{
	SiteName:    "Four Seasons Realty",
	BaseURL:     "https://www.example.com",
	TwitterSite: "@fourseasons",
	ThemeColor:  "#0b5394",
}

func metaContent(t *testing.T, doc head.Document, attr, key string) string {
	t.Helper()
	found := doc.Find("meta", head.A(attr, key))
	require.Len(t, found, 1, "%s=%s", attr, key)
	v, _ := found[0].Attr("content")
	return v
}

func TestController_CanonicalPrecedence(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)

	require.NoError(t, c.Apply(PageMetadata{
		Title:        "T",
		Description:  "D",
		Canonical:    "https://www.example.com/a",
		CanonicalURL: "https://www.example.com/b",
	}))

	links := doc.Find("link", head.A("rel", "canonical"))
	require.Len(t, links, 1)
	href, _ := links[0].Attr("href")
	assert.Equal(t, "https://www.example.com/a", href)

	require.NoError(t, c.Apply(PageMetadata{Title: "T", Description: "D", CanonicalURL: "/b"}))
	href, _ = doc.Find("link", head.A("rel", "canonical"))[0].Attr("href")
	assert.Equal(t, "/b", href)
}

func TestController_StructuredDataFlattening(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)

	data := List(
		map[string]any{"@type": "A"},
		map[string]any{"@graph": []any{
			map[string]any{"@type": "B"},
			map[string]any{"@type": "C"},
		}},
	)
	require.NoError(t, c.Apply(PageMetadata{Title: "T", Description: "D", StructuredData: data}))

	scripts := doc.Find("script", head.A("id", StructuredDataID))
	require.Len(t, scripts, 1)
	typ, _ := scripts[0].Attr("type")
	assert.Equal(t, "application/ld+json", typ)
	assert.Equal(t,
		`{"@context":"https://schema.org","@graph":[{"@type":"A"},{"@type":"B"},{"@type":"C"}]}`,
		scripts[0].Text())
}

func TestController_IdempotentUpsert(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)

	require.NoError(t, c.Apply(PageMetadata{Title: "First", Description: "D"}))
	require.NoError(t, c.Apply(PageMetadata{Title: "Second", Description: "D"}))

	assert.Equal(t, "Second", metaContent(t, doc, "property", "og:title"))
	assert.Equal(t, "Second", metaContent(t, doc, "name", "twitter:title"))
	assert.Equal(t, "Second", doc.Title())
}

func TestController_UnmountRemovesEverything(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)

	require.NoError(t, c.Apply(PageMetadata{
		Title:          "T",
		Description:    "D",
		OGImage:        "https://cdn.example.com/a.jpg",
		StructuredData: Object(map[string]any{"@context": SchemaContext, "@type": "WebPage"}),
	}))
	require.NotEmpty(t, doc.Find("", head.A("id", StructuredDataID)))
	assert.Equal(t, Mounted, c.State())

	c.Unmount()
	assert.Empty(t, doc.Find("", head.A("id", StructuredDataID)))
	assert.Empty(t, doc.Find("meta"), "managed meta tags are removed")
	assert.Empty(t, doc.Find("link"))
	assert.Equal(t, Unmounted, c.State())

	c.Unmount() // no-op
}

func TestController_AlternateLanguagesDeduplicated(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)
	m := PageMetadata{
		Title:              "T",
		Description:        "D",
		AlternateLanguages: []AlternateLanguage{{Lang: "es", URL: "/es"}},
	}

	require.NoError(t, c.Apply(m))
	m.Keywords = "force a re-run"
	require.NoError(t, c.Apply(m))

	found := doc.Find("link", head.A("rel", "alternate"), head.A("hreflang", "es"), head.A("href", "/es"))
	assert.Len(t, found, 1)
}

func TestController_AlternatesSharingHreflangStayDistinct(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)
	alts := []AlternateLanguage{{Lang: "es", URL: "/a"}, {Lang: "es", URL: "/b"}}

	require.NoError(t, c.Apply(PageMetadata{Title: "T", AlternateLanguages: alts}))

	hrefs := func() []string {
		var out []string
		for _, n := range doc.Find("link", head.A("rel", "alternate"), head.A("hreflang", "es")) {
			href, _ := n.Attr("href")
			out = append(out, href)
		}
		return out
	}
	assert.Equal(t, []string{"/a", "/b"}, hrefs())

	// A later pass with one entry repoints the first link and prunes the other.
	require.NoError(t, c.Apply(PageMetadata{
		Title: "T", AlternateLanguages: []AlternateLanguage{{Lang: "es", URL: "/c"}},
	}))
	assert.Equal(t, []string{"/c"}, hrefs())
}

func TestController_AlternateURLChangeReplaces(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)

	require.NoError(t, c.Apply(PageMetadata{
		Title: "T", AlternateLanguages: []AlternateLanguage{{Lang: "es_mx", URL: "/es/old"}},
	}))
	require.NoError(t, c.Apply(PageMetadata{
		Title: "T", AlternateLanguages: []AlternateLanguage{{Lang: "es-MX", URL: "/es/new"}},
	}))

	found := doc.Find("link", head.A("rel", "alternate"), head.A("hreflang", "es-MX"))
	require.Len(t, found, 1)
	href, _ := found[0].Attr("href")
	assert.Equal(t, "/es/new", href)
}

func TestController_EndToEndDefaults(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)

	require.NoError(t, c.Apply(PageMetadata{Title: "T", Description: "D"}))

	assert.Equal(t, "T", doc.Title())
	assert.Equal(t, "D", metaContent(t, doc, "name", "description"))
	assert.Equal(t, "T", metaContent(t, doc, "property", "og:title"))
	assert.Empty(t, doc.Find("meta", head.A("property", "og:image")))
	assert.Equal(t, "", metaContent(t, doc, "name", "keywords"))
	assert.Equal(t, DefaultRobots, metaContent(t, doc, "name", "robots"))
	assert.Equal(t, "www.example.com", metaContent(t, doc, "name", "twitter:domain"))
	assert.Empty(t, doc.Find("link", head.A("rel", "canonical")))
	assert.Empty(t, doc.Find("script"), "no structured data supplied")
}

func TestController_ImageDefaultsAndPruning(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)

	require.NoError(t, c.Apply(PageMetadata{
		Title:     "Lakeway",
		OpenGraph: &OpenGraph{Images: []Image{{URL: "https://cdn.example.com/lake.jpg"}}},
		OGImage:   "https://cdn.example.com/ignored.jpg",
	}))
	assert.Equal(t, "https://cdn.example.com/lake.jpg", metaContent(t, doc, "property", "og:image"))
	assert.Equal(t, "1200", metaContent(t, doc, "property", "og:image:width"))
	assert.Equal(t, "630", metaContent(t, doc, "property", "og:image:height"))
	assert.Equal(t, "Lakeway", metaContent(t, doc, "property", "og:image:alt"))

	// Dropping the image prunes every og:image* tag written earlier.
	require.NoError(t, c.Apply(PageMetadata{Title: "Lakeway"}))
	for _, p := range []string{"og:image", "og:image:width", "og:image:height", "og:image:alt"} {
		assert.Empty(t, doc.Find("meta", head.A("property", p)), p)
	}
	assert.Empty(t, doc.Find("meta", head.A("name", "twitter:image")))
}

func TestController_ArticleTags(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)

	m := PageMetadata{
		Title:                "Market update",
		OGType:               "article",
		ArticlePublishedTime: "2026-03-01T09:00:00Z",
		ArticleSection:       "Market",
		ArticleTags:          []string{"austin", "inventory", " "},
	}
	require.NoError(t, c.Apply(m))
	assert.Len(t, doc.Find("meta", head.A("property", "article:tag")), 2)
	assert.Equal(t, "Market", metaContent(t, doc, "property", "article:section"))
	assert.Equal(t, "Four Seasons Realty", metaContent(t, doc, "property", "article:author"))

	m.ArticleTags = []string{"austin"}
	require.NoError(t, c.Apply(m))
	assert.Len(t, doc.Find("meta", head.A("property", "article:tag")), 1)

	m.OGType = "website"
	require.NoError(t, c.Apply(m))
	assert.Empty(t, doc.Find("meta", head.A("property", "article:tag")))
	assert.Empty(t, doc.Find("meta", head.A("property", "article:published_time")))
}

func TestController_SkipsUnchangedInput(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)
	m := PageMetadata{Title: "T", Description: "D"}
	require.NoError(t, c.Apply(m))

	// A manual edit survives a no-op Apply because nothing re-runs.
	doc.Find("meta", head.A("name", "description"))[0].SetAttr("content", "edited")
	require.NoError(t, c.Apply(m))
	assert.Equal(t, "edited", metaContent(t, doc, "name", "description"))
}

func TestController_ConditionalTags(t *testing.T) {
	doc := head.New()
	site := testSite
	site.FacebookAppID = "12345"
	c := NewController(doc, site)

	require.NoError(t, c.Apply(PageMetadata{
		Title:        "T",
		Verification: Verification{Google: "g-token", Bing: "b-token"},
	}))
	assert.Equal(t, "g-token", metaContent(t, doc, "name", "google-site-verification"))
	assert.Equal(t, "b-token", metaContent(t, doc, "name", "msvalidate.01"))
	assert.Empty(t, doc.Find("meta", head.A("name", "yandex-verification")))
	assert.Equal(t, "12345", metaContent(t, doc, "property", "fb:app_id"))
}

func TestController_UnserialisableStructuredData(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)

	err := c.Apply(PageMetadata{
		Title:          "T",
		StructuredData: Object(map[string]any{"bad": make(chan int)}),
	})
	require.Error(t, err)
	assert.Equal(t, Unmounted, c.State())
	assert.Empty(t, doc.Find("meta"), "nothing is written when the input cannot be encoded")
}

func TestController_HTMLDocumentRestoresTemplate(t *testing.T) {
	const shell = `<!DOCTYPE html><html><head>
<meta name="description" content="template description">
<meta name="robots" content="noindex">
<link rel="alternate" hreflang="fr" href="/fr">
<title>Shell</title>
</head><body></body></html>`

	doc, err := head.Parse(strings.NewReader(shell))
	require.NoError(t, err)
	c := NewController(doc, testSite)

	require.NoError(t, c.Apply(PageMetadata{
		Title:              "Round Rock",
		Description:        "City guide",
		AlternateLanguages: []AlternateLanguage{{Lang: "fr", URL: "/fr/round-rock"}},
		StructuredData:     List(WebPage("Round Rock", "City guide", "https://www.example.com/cities/round-rock")),
	}))

	sel := doc.Selection()
	assert.Equal(t, 1, sel.Find(`meta[name="description"]`).Length())
	assert.Equal(t, "City guide", sel.Find(`meta[name="description"]`).AttrOr("content", ""))
	_, marked := sel.Find(`meta[name="description"]`).Attr(ManagedAttr)
	assert.False(t, marked, "template elements are claimed, not re-marked")
	assert.Equal(t, 2, sel.Find(`link[rel="alternate"][hreflang="fr"]`).Length(),
		"template alternates with another href are left alone")
	assert.Equal(t, 1, sel.Find("#"+StructuredDataID).Length())

	c.Unmount()
	assert.Equal(t, "template description", sel.Find(`meta[name="description"]`).AttrOr("content", ""))
	assert.Equal(t, "noindex", sel.Find(`meta[name="robots"]`).AttrOr("content", ""))
	assert.Equal(t, 1, sel.Find(`link[rel="alternate"]`).Length())
	assert.Equal(t, 0, sel.Find("["+ManagedAttr+"]").Length())
	assert.Equal(t, 0, sel.Find("#"+StructuredDataID).Length())
}

func TestController_PayloadMatchesGraph(t *testing.T) {
	doc := head.New()
	c := NewController(doc, testSite)
	crumbs := BreadcrumbList([]BreadcrumbItem{{Name: "Home", Item: "https://www.example.com/"}})
	page := WebPage("Home", "", "https://www.example.com/")

	require.NoError(t, c.Apply(PageMetadata{Title: "Home", StructuredData: List(page, crumbs)}))

	var got, want any
	require.NoError(t, json.Unmarshal([]byte(doc.Find("script")[0].Text()), &got))
	raw, err := json.Marshal(Graph(page, crumbs))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &want))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("structured data mismatch (-want +got):\n%s", diff)
	}
}
