//
//  internal/theme/helper.go
//
//  Template functions.  Rendered pages are cached and shared between
//  visitors, so nothing here reads the request.  Per-visitor values
//  (the calculator's regional defaults, for one) arrive in the view data
//  and the handler keys the cache on them.
//

package theme

import (
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// money formats whole dollars with US grouping: 425000 → "$425,000".
var money = message.NewPrinter(language.AmericanEnglish)

// FuncMap returns the global template function map.
func FuncMap(asset func(string) string) template.FuncMap {
	return template.FuncMap{
		"asset": asset,
		"money": func(v float64) string { return money.Sprintf("$%.0f", v) },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("2006-01-02")
		},
		"year":  func() int { return time.Now().Year() },
		"lower": strings.ToLower,
	}
}
