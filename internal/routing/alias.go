// internal/routing/alias.go
//
// Legacy-path redirect table and middleware.
//
// Context
// -------
// Pages keep their search ranking across URL changes by listing old paths
// under `aliases:` in their YAML file.  The content loader feeds every
// alias→path pair into an AliasTable; Middleware answers requests for an
// alias with a 301 to the live path, so crawlers consolidate signals on the
// canonical URL instead of indexing duplicates.
//
// Workflow
// --------
//  1. content.Load builds the library and calls table.Replace(lib.Aliases()).
//  2. cmd/web wires routing.Middleware(table) ahead of the page routes.
//  3. Middleware redirects on hit, preserving the query string; otherwise it
//     falls through.
//
// Notes
// -----
//   - Lookup is exact after trailing-slash trimming ("/austin/" ≡ "/austin").
//   - Oxford commas, two spaces after periods.
package routing

import (
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// -----------------------------------------------------------------------------
// AliasTable
// -----------------------------------------------------------------------------

// AliasTable stores alias→target pairs.  The zero value is empty and ready.
type AliasTable struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewAliasTable returns a table seeded with pairs.
func NewAliasTable(pairs map[string]string) *AliasTable {
	t := &AliasTable{}
	t.Replace(pairs)
	return t
}

// Replace swaps the whole table.  Self-redirects are dropped.
func (t *AliasTable) Replace(pairs map[string]string) {
	fresh := make(map[string]string, len(pairs))
	for alias, target := range pairs {
		a := cleanPath(alias)
		if a == cleanPath(target) {
			continue
		}
		fresh[a] = target
	}
	t.mu.Lock()
	t.data = fresh
	t.mu.Unlock()
	zap.L().Debug("alias table load", zap.Int("count", len(fresh)))
}

// Lookup returns the live path for alias.
func (t *AliasTable) Lookup(path string) (string, bool) {
	t.mu.RLock()
	target, ok := t.data[cleanPath(path)]
	t.mu.RUnlock()
	return target, ok
}

// Len reports the number of aliases.
func (t *AliasTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.data)
}

func cleanPath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	return "/" + strings.Trim(p, "/")
}

// -----------------------------------------------------------------------------
// Middleware factory
// -----------------------------------------------------------------------------

// Middleware returns a chi-compatible middleware that 301s alias paths.
func Middleware(t *AliasTable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			target, ok := t.Lookup(r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if q := r.URL.RawQuery; q != "" {
				target += "?" + q
			}
			zap.L().Debug("alias redirect",
				zap.String("from", r.URL.Path),
				zap.String("to", target))
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}
