//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, IP + geolocation, URL, and timestamp).
//  These structs are inert.  They contain no pointers to database
//  handles or large buffers, so they are safe to log or JSON-encode.
//
//  Dependencies
//  • internal/ua                        (uasurfer wrapper)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"
	"golang.org/x/text/language"

	"github.com/c0de128/4seasons/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Geo holds IP-based geolocation hints.  They are best-effort and may be
// empty when no database is loaded or the address has no record.
type Geo struct {
	IP         net.IP
	CountryISO string // "US", "CA", …
	RegionISO  string // "TX", "CA", … (first subdivision)
	City       string
}

// RequestInfo travels in the request context.
type RequestInfo struct {
	UA        ua.Info
	Geo       Geo
	Lang      language.Tag // best Accept-Language match
	URL       *url.URL     // pointer copy, read-only
	Timestamp time.Time
}

// IsBot is a nil-safe shorthand for templates and handlers.
func (ri *RequestInfo) IsBot() bool { return ri != nil && ri.UA.IsBot }

// Region is a nil-safe shorthand for the visitor's US state.
func (ri *RequestInfo) Region() string {
	if ri == nil || ri.Geo.CountryISO != "US" {
		return ""
	}
	return ri.Geo.RegionISO
}

//
//  -----------------------------
//  GeoDB
//  -----------------------------
//

// GeoDB wraps a MaxMind City reader.  A nil *GeoDB answers every lookup
// with an empty Geo, so the database stays optional.
type GeoDB struct {
	r *geoip2.Reader
}

// OpenGeo opens a GeoLite2-City (or GeoIP2-City) database.
func OpenGeo(path string) (*GeoDB, error) {
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("requestinfo: open geoip db: %w", err)
	}
	return &GeoDB{r: r}, nil
}

// Close releases the reader.
func (g *GeoDB) Close() error {
	if g == nil || g.r == nil {
		return nil
	}
	return g.r.Close()
}

// Lookup returns best-effort Geo data for ip.
func (g *GeoDB) Lookup(ip net.IP) Geo {
	if g == nil || g.r == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := g.r.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	out := Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
	if len(rec.Subdivisions) > 0 {
		out.RegionISO = rec.Subdivisions[0].IsoCode
	}
	return out
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{}

// FromContext returns the pointer stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// WithInfo returns ctx carrying info.  Tests use it to skip the middleware.
func WithInfo(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// supported lists the languages the site has copy for.
var supported = language.NewMatcher([]language.Tag{
	language.AmericanEnglish,
	language.LatinAmericanSpanish,
})

// preferredLang matches an Accept-Language header against supported.
func preferredLang(header string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(strings.TrimSpace(header))
	if err != nil || len(tags) == 0 {
		return language.AmericanEnglish
	}
	tag, _, _ := supported.Match(tags...)
	base, _ := tag.Base()
	if base.String() == "es" {
		return language.LatinAmericanSpanish
	}
	return language.AmericanEnglish
}
