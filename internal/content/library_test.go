package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0de128/4seasons/internal/seo"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"pages/home.yaml": {Data: []byte(`
title: Four Seasons Realty
summary: Central Texas homes.
body: "Welcome **home**."
`)},
		"pages/about.yaml": {Data: []byte(`
title: About us
aliases: [/team]
`)},
		"cities/Round Rock.yaml": {Data: []byte(`
title: Round Rock
summary: Suburban living north of Austin.
image: /static/img/round-rock.jpg
place:
  address: {locality: Round Rock, region: TX}
  latitude: 30.5083
  longitude: -97.6789
faq:
  - question: Is Round Rock a good place for families?
    answer: Yes.
body: |
  ## Schools
  <script>alert(1)</script>
  Round Rock ISD.
`)},
		"blog/spring-market.yaml": {Data: []byte(`
title: Spring market
summary: Inventory is up.
published: 2026-03-01T09:00:00Z
updated: 2026-03-05T09:00:00Z
author: Dana Reyes
tags: [market, austin]
`)},
		"blog/older.yaml": {Data: []byte(`
title: Winter recap
published: 2025-12-15T09:00:00Z
`)},
		"blog/draft.yaml": {Data: []byte(`
title: Not yet
draft: true
`)},
		"misc/ignored.yaml": {Data: []byte(`title: ignored`)},
	}
}

func TestLoadFS(t *testing.T) {
	lib, err := LoadFS(testFS())
	require.NoError(t, err)
	assert.Equal(t, 5, lib.Len())

	home, err := lib.Page("/")
	require.NoError(t, err)
	assert.True(t, home.IsHome())
	assert.Contains(t, string(home.HTML), "<strong>home</strong>")

	rr, err := lib.Page("/cities/round-rock/")
	require.NoError(t, err)
	assert.Equal(t, "round-rock", rr.Slug)
	assert.NotContains(t, string(rr.HTML), "<script>")
	assert.Contains(t, string(rr.HTML), `id="schools"`)

	blog := lib.Section(Blog)
	require.Len(t, blog, 2)
	assert.Equal(t, "Spring market", blog[0].Title, "newest first")

	assert.Equal(t, map[string]string{"/team": "/about"}, lib.Aliases())

	_, err = lib.Page("/blog/draft")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadFS_Errors(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"missing title": {"pages/x.yaml": {Data: []byte("summary: no title")}},
		"bad yaml":      {"pages/x.yaml": {Data: []byte("title: [unclosed")}},
		"duplicate path": {
			"pages/a b.yaml": {Data: []byte("title: A")},
			"pages/a-b.yml":  {Data: []byte("title: B")},
		},
		"alias shadows page": {
			"pages/about.yaml": {Data: []byte("title: About")},
			"pages/team.yaml":  {Data: []byte("title: Team\naliases: [/about]")},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFS(fsys)
			assert.Error(t, err)
		})
	}
}

var site = seo.SiteDefaults{SiteName: "Four Seasons Realty", BaseURL: "https://www.example.com/"}

func TestMetadata_CityDefaults(t *testing.T) {
	lib, err := LoadFS(testFS())
	require.NoError(t, err)
	p, _ := lib.Page("/cities/round-rock")

	m := p.Metadata(site)
	assert.Equal(t, "Round Rock | Four Seasons Realty", m.Title)
	assert.Equal(t, "Suburban living north of Austin.", m.Description)
	assert.Equal(t, "https://www.example.com/cities/round-rock", m.Canonical)
	assert.Equal(t, "https://www.example.com/static/img/round-rock.jpg", m.OGImage)
	assert.Empty(t, m.OGType)

	objs := m.StructuredData.Objects()
	types := make([]string, 0, len(objs))
	for _, o := range objs {
		types = append(types, o["@type"].(string))
	}
	assert.Equal(t, []string{"WebPage", "BreadcrumbList", "Place", "FAQPage"}, types)

	crumbs := objs[1]["itemListElement"].([]map[string]any)
	require.Len(t, crumbs, 3)
	assert.Equal(t, "https://www.example.com/cities", crumbs[1]["item"])
}

func TestMetadata_BlogArticle(t *testing.T) {
	lib, err := LoadFS(testFS())
	require.NoError(t, err)
	p, _ := lib.Page("/blog/spring-market")

	m := p.Metadata(site)
	assert.Equal(t, "article", m.OGType)
	assert.Equal(t, "2026-03-01T09:00:00Z", m.ArticlePublishedTime)
	assert.Equal(t, "2026-03-05T09:00:00Z", m.ArticleModifiedTime)
	assert.Equal(t, "Dana Reyes", m.ArticleAuthor)
	assert.Equal(t, "market, austin", m.Keywords)
	assert.Equal(t, []string{"market", "austin"}, m.ArticleTags)
	assert.Equal(t, time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), p.LastModified())

	r := seo.Normalize(m, site)
	require.NotNil(t, r.Article)
	assert.Equal(t, "Blog", r.Article.Section)
}

func TestMetadata_MetaBlockWins(t *testing.T) {
	p := &Page{
		Section: Pages,
		Path:    "/about",
		Title:   "About",
		Meta: seo.PageMetadata{
			Title:          "Meet the team",
			CanonicalURL:   "https://www.example.com/team",
			StructuredData: seo.Object(map[string]any{"@type": "AboutPage"}),
		},
	}
	m := p.Metadata(site)
	assert.Equal(t, "Meet the team", m.Title)
	assert.Empty(t, m.Canonical)
	assert.False(t, m.StructuredData.IsList())
}

func TestSectionMetadata(t *testing.T) {
	lib, err := LoadFS(testFS())
	require.NoError(t, err)

	m := SectionMetadata(Blog, lib.Section(Blog), site)
	assert.Equal(t, "Blog | Four Seasons Realty", m.Title)
	assert.Equal(t, "https://www.example.com/blog", m.Canonical)
	assert.True(t, strings.HasSuffix(m.Canonical, "/blog"))
	assert.Len(t, m.StructuredData.Objects(), 3)
}

func TestAbsURL(t *testing.T) {
	assert.Equal(t, "https://x.test/a", AbsURL("https://x.test/", "/a"))
	assert.Equal(t, "https://cdn.test/a.jpg", AbsURL("https://x.test", "https://cdn.test/a.jpg"))
	assert.Equal(t, "", AbsURL("https://x.test", ""))
}

func TestReadPage(t *testing.T) {
	dir := t.TempDir()
	cities := filepath.Join(dir, "cities")
	require.NoError(t, os.MkdirAll(cities, 0o755))
	file := filepath.Join(cities, "Lakeway.yaml")
	require.NoError(t, os.WriteFile(file, []byte("title: Lakeway\n"), 0o644))

	p, err := ReadPage(file)
	require.NoError(t, err)
	assert.Equal(t, Cities, p.Section)
	assert.Equal(t, "/cities/lakeway", p.Path)
	assert.Equal(t, file, p.File)

	draft := filepath.Join(dir, "wip.yaml")
	require.NoError(t, os.WriteFile(draft, []byte("title: WIP\ndraft: true\n"), 0o644))
	_, err = ReadPage(draft)
	assert.ErrorContains(t, err, "is a draft")
}
