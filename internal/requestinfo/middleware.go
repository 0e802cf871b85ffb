// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
This handler sits high in the chain, after security headers and before
the page routes.  For every request it:

  1. Parses the User-Agent header and matches Accept-Language.
  2. Extracts the left-most client IP from X-Forwarded-For or X-Real-IP,
     falling back to `r.RemoteAddr`.
  3. Performs a GeoLite2 lookup when a database is loaded.
  4. Stores a `*RequestInfo` in the request context so handlers and
     templates can read UA, Geo, and URL attributes without reparsing.

Instrumentation
---------------
At DEBUG level each invocation logs the client IP, country, region, bot
flag, crawler name, and request path.

Notes
-----
  - All lookups are read-only, so the middleware is safe under heavy
    concurrency.
  - Oxford commas, two spaces after periods.  No em dash.
*/
package requestinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/c0de128/4seasons/internal/ua"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enrich returns middleware attaching *RequestInfo.  geo may be nil.
func Enrich(geo *GeoDB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			info := &RequestInfo{
				UA:        ua.Parse(r.UserAgent()),
				Geo:       geo.Lookup(ip),
				Lang:      preferredLang(r.Header.Get("Accept-Language")),
				URL:       r.URL,
				Timestamp: time.Now().UTC(),
			}

			zap.S().Debugw("request info",
				"ip", info.Geo.IP,
				"country", info.Geo.CountryISO,
				"region", info.Geo.RegionISO,
				"bot", info.UA.IsBot,
				"crawler", info.UA.Crawler,
				"lang", info.Lang.String(),
				"path", r.URL.Path,
			)

			next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
		})
	}
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// clientIP extracts the left-most parseable address from X-Forwarded-For
// or X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}
