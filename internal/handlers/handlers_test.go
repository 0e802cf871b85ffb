package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0de128/4seasons/internal/config"
	"github.com/c0de128/4seasons/internal/content"
	"github.com/c0de128/4seasons/internal/pagecache"
	"github.com/c0de128/4seasons/internal/requestinfo"
	"github.com/c0de128/4seasons/internal/store"
	"github.com/c0de128/4seasons/internal/theme"
)

var testSite = config.Site{
	Name:      "Four Seasons Realty",
	BaseURL:   "https://www.example.com",
	Locale:    "en_US",
	Theme:     "base",
	Telephone: "+1-512-555-0100",
	Locality:  "Austin",
	Region:    "TX",
}

var testContent = fstest.MapFS{
	"pages/home.yaml": {Data: []byte(`
title: Four Seasons Realty
summary: Central Texas homes.
body: Welcome home.
`)},
	"pages/about.yaml": {Data: []byte(`
title: About us
summary: A family brokerage.
`)},
	"pages/private.yaml": {Data: []byte(`
title: Agents only
meta:
  robots: noindex, nofollow
`)},
	"cities/round-rock.yaml": {Data: []byte(`
title: Round Rock
summary: Suburban living north of Austin.
place:
  address: {locality: Round Rock, region: TX}
  latitude: 30.5083
  longitude: -97.6789
`)},
	"blog/spring-market.yaml": {Data: []byte(`
title: Spring market
summary: Inventory is up.
published: 2026-03-01T09:00:00Z
`)},
}

type fakeOverrides struct {
	rows    map[string]*store.Override
	updated []store.Override
	err     error
}

func (f *fakeOverrides) ByPath(_ context.Context, path string) (*store.Override, error) {
	if f.err != nil {
		return nil, f.err
	}
	if o, ok := f.rows[path]; ok {
		return o, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeOverrides) UpdatedSince(context.Context, time.Time) ([]store.Override, error) {
	return f.updated, f.err
}

func newTestHandler(t *testing.T, ov OverrideSource) (*Handler, *pagecache.Cache) {
	t.Helper()
	lib, err := content.LoadFS(testContent)
	require.NoError(t, err)
	th, err := (&theme.Manager{BaseDir: "../../themes"}).Load("base")
	require.NoError(t, err)

	cache := pagecache.New(time.Minute, 64, time.Hour)
	t.Cleanup(cache.Close)

	return New(Deps{Site: testSite, Library: lib, Theme: th, Overrides: ov, Cache: cache}), cache
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHome(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	rec := get(t, h.Routes(), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, "<title>Four Seasons Realty</title>")
	assert.Contains(t, body, `data-seo-managed="true"`)
	assert.Contains(t, body, `id="seo-structured-data"`)
	assert.Contains(t, body, `"RealEstateAgent"`)
	assert.Contains(t, body, `"WebSite"`)
	assert.Contains(t, body, `<a href="/cities/round-rock">Round Rock</a>`)
	assert.Equal(t, 1, strings.Count(body, "<title>"))
}

func TestCityPage_CachedWithETag(t *testing.T) {
	h, cache := newTestHandler(t, nil)
	r := h.Routes()

	rec := get(t, r, "/cities/round-rock")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `property="og:title"`)
	assert.Contains(t, body, `content="Round Rock | Four Seasons Realty"`)
	assert.Contains(t, body, `rel="canonical"`)
	assert.Contains(t, body, `href="https://www.example.com/cities/round-rock"`)
	assert.Contains(t, body, `"Place"`)
	assert.Equal(t, 1, cache.Len())

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	req := httptest.NewRequest(http.MethodGet, "/cities/round-rock", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestSectionIndexAndRootPage(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	r := h.Routes()

	rec := get(t, r, "/cities")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Cities | Four Seasons Realty</title>")
	assert.Contains(t, rec.Body.String(), `"ItemList"`)

	rec = get(t, r, "/about")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>About us | Four Seasons Realty</title>")
}

func TestNotFound(t *testing.T) {
	h, cache := newTestHandler(t, nil)
	r := h.Routes()

	for _, path := range []string{"/nope", "/cities/nowhere", "/a/b/c"} {
		rec := get(t, r, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `content="noindex, follow"`, path)
	}
	assert.Zero(t, cache.Len())
}

func TestOverrides(t *testing.T) {
	ov := &fakeOverrides{rows: map[string]*store.Override{
		"/about": {Path: "/about", Title: sql.NullString{String: "Meet the team", Valid: true}},
	}}
	h, cache := newTestHandler(t, ov)
	r := h.Routes()

	rec := get(t, r, "/about")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Meet the team</title>")

	// A failing lookup still serves the page but does not cache it.
	cache.Purge()
	ov.err = errors.New("connection refused")
	rec = get(t, r, "/about")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>About us | Four Seasons Realty</title>")
	assert.Zero(t, cache.Len())
}

func TestInvalidateSince(t *testing.T) {
	ov := &fakeOverrides{}
	h, cache := newTestHandler(t, ov)
	r := h.Routes()
	get(t, r, "/about")
	get(t, r, "/cities")
	require.Equal(t, 2, cache.Len())

	edited := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	ov.updated = []store.Override{{Path: "/about", UpdatedAt: edited}}
	since := h.invalidateSince(context.Background(), edited.Add(-time.Hour))

	assert.Equal(t, edited, since)
	assert.Equal(t, 1, cache.Len())
}

func TestCalculator_RegionalDefaults(t *testing.T) {
	h, cache := newTestHandler(t, nil)
	r := h.Routes()

	req := httptest.NewRequest(http.MethodGet, CalculatorPath, nil)
	req = req.WithContext(requestinfo.WithInfo(req.Context(), &requestinfo.RequestInfo{
		Geo: requestinfo.Geo{CountryISO: "US", RegionISO: "TX"},
	}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="propertyTaxPct" type="number" min="0" max="10" step="0.01" value="1.6"`)
	assert.Contains(t, body, "typical TX rate")
	assert.Contains(t, body, `"WebApplication"`)

	// A visitor without geo data gets a separate cache entry.
	rec = get(t, r, CalculatorPath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "typical")
	assert.Equal(t, 2, cache.Len())
}

func TestAPI_Affordability(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	r := h.Routes()

	post := func(path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/api/affordability",
		`{"annualIncome":120000,"downPayment":40000,"interestRate":6.5,"termYears":30,"propertyTaxPct":1.6}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, true, res["affordable"])
	assert.Greater(t, res["maxPrice"].(float64), 40000.0)

	rec = post("/api/affordability", `{"annualIncome":0,"termYears":7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "annualIncome (gt)")

	rec = post("/api/affordability", `{"salary":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown field")

	rec = post("/api/payment", `{"principal":300000,"interestRate":6,"termYears":30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var pay paymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pay))
	assert.InDelta(t, 1798.65, pay.Payment, 0.01)
	assert.Len(t, pay.Schedule, scheduleMonths)
}

func TestSitemapRobotsHealth(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	r := h.Routes()

	rec := get(t, r, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://www.example.com/cities/round-rock</loc>")
	assert.Contains(t, body, "<loc>https://www.example.com/blog</loc>")
	assert.Contains(t, body, "<lastmod>2026-03-01</lastmod>")
	assert.Contains(t, body, "<loc>https://www.example.com/calculators/affordability</loc>")
	assert.NotContains(t, body, "/private")

	rec = get(t, r, "/robots.txt")
	assert.Contains(t, rec.Body.String(), "Disallow: /api/")
	assert.Contains(t, rec.Body.String(), "Sitemap: https://www.example.com/sitemap.xml")

	rec = get(t, r, "/healthz")
	assert.JSONEq(t, `{"status":"ok","pages":5,"cached":1}`, rec.Body.String())

	rec = get(t, r, "/themes/base/assets/css/site.css")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDebugRequest(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	assert.Equal(t, http.StatusNotFound, get(t, h.Routes(), "/debug/request").Code)

	h.debug = true
	req := httptest.NewRequest(http.MethodGet, "/debug/request?x=1", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	rec := httptest.NewRecorder()
	requestinfo.Enrich(nil)(h.Routes()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "google", out["bot"])
	assert.Equal(t, "x=1", out["query"])
}

func TestSetLibrary_PurgesCache(t *testing.T) {
	h, cache := newTestHandler(t, nil)
	r := h.Routes()
	require.Equal(t, http.StatusOK, get(t, r, "/about").Code)
	require.Equal(t, 1, cache.Len())

	lib, err := content.LoadFS(fstest.MapFS{
		"pages/home.yaml":    {Data: []byte("title: Home\n")},
		"pages/contact.yaml": {Data: []byte("title: Contact\n")},
	})
	require.NoError(t, err)
	h.SetLibrary(lib)

	assert.Zero(t, cache.Len())
	assert.Equal(t, http.StatusNotFound, get(t, r, "/about").Code)
	rec := get(t, r, "/contact")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Contact | Four Seasons Realty</title>")
}

func TestInvalidateSince_CalculatorVariants(t *testing.T) {
	ov := &fakeOverrides{rows: map[string]*store.Override{}}
	h, cache := newTestHandler(t, ov)
	r := h.Routes()

	texan := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, CalculatorPath, nil)
		req = req.WithContext(requestinfo.WithInfo(req.Context(), &requestinfo.RequestInfo{
			Geo: requestinfo.Geo{CountryISO: "US", RegionISO: "TX"},
		}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}
	require.Equal(t, http.StatusOK, get(t, r, CalculatorPath).Code)
	require.Equal(t, http.StatusOK, texan().Code)
	require.Equal(t, 2, cache.Len())

	edited := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	row := store.Override{
		Path:      CalculatorPath,
		Title:     sql.NullString{String: "Texas affordability calculator", Valid: true},
		UpdatedAt: edited,
	}
	ov.rows[CalculatorPath] = &row
	ov.updated = []store.Override{row}
	h.invalidateSince(context.Background(), edited.Add(-time.Hour))
	assert.Zero(t, cache.Len())

	assert.Contains(t, get(t, r, CalculatorPath).Body.String(), "<title>Texas affordability calculator</title>")
	assert.Contains(t, texan().Body.String(), "<title>Texas affordability calculator</title>")
}
