// internal/ua/ua.go
//
// User-Agent parsing helpers.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.  Besides the
// usual browser and device fields it names the crawler behind a bot UA,
// which the page handlers use to label render metrics.
//
// Results are memoised in a small LRU keyed by the raw header.
package ua

import (
	"fmt"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"

	"github.com/c0de128/4seasons/internal/cache"
)

const (
	memoSize   = 2048
	memoMaxLen = 512 // longer headers are parsed but not kept
)

var memo = cache.New[string, Info](memoSize)

// Info carries the UA attributes used by middleware, handlers, and
// templates.
//
// Example (Chrome on macOS):
//
//	Browser   "BrowserChrome"
//	Version   "125.0.6422"
//	OS        "OSMacOSX"
//	OSVersion "14.4"
//	Device    "Desktop"
//	IsBot     false
//
// Device will be one of: "Desktop", "Mobile", "Tablet", "Bot", or "Other".
type Info struct {
	Browser   string
	Version   string
	OS        string
	OSVersion string
	Device    string
	Platform  string
	IsBot     bool
	Crawler   string // "google", "bing", … when IsBot; "" otherwise
	Raw       string
}

// crawlers maps a UA substring to a short crawler name.  Order matters:
// the first match wins.
var crawlers = []struct{ needle, name string }{
	{"googlebot", "google"},
	{"adsbot-google", "google"},
	{"bingbot", "bing"},
	{"duckduckbot", "duckduckgo"},
	{"yandex", "yandex"},
	{"baiduspider", "baidu"},
	{"applebot", "apple"},
	{"facebookexternalhit", "facebook"},
	{"twitterbot", "twitter"},
	{"linkedinbot", "linkedin"},
	{"pinterest", "pinterest"},
	{"slackbot", "slack"},
}

// Parse converts a raw header into an Info struct.
func Parse(raw string) Info {
	if info, ok := memo.Get(raw); ok {
		return info
	}
	info := parse(raw)
	if len(raw) <= memoMaxLen {
		memo.Add(raw, info)
	}
	return info
}

func parse(raw string) Info {
	u := surfer.Parse(raw)

	info := Info{
		Browser:   u.Browser.Name.String(),
		Version:   versionToString(u.Browser.Version),
		OS:        u.OS.Name.String(),
		OSVersion: versionToString(u.OS.Version),
		Platform:  u.OS.Platform.String(),
		IsBot:     u.IsBot(),
		Raw:       raw,
	}
	// Link-preview fetchers often send UAs uasurfer does not flag.
	info.Crawler = crawlerName(raw)
	if info.Crawler != "" {
		info.IsBot = true
	} else if info.IsBot {
		info.Crawler = "other"
	}

	switch {
	case info.IsBot:
		info.Device = "Bot"
	case u.DeviceType == surfer.DeviceComputer:
		info.Device = "Desktop"
	case u.DeviceType == surfer.DeviceTablet:
		info.Device = "Tablet"
	case u.DeviceType == surfer.DevicePhone, u.DeviceType == surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

func crawlerName(raw string) string {
	lower := strings.ToLower(raw)
	for _, c := range crawlers {
		if strings.Contains(lower, c.needle) {
			return c.name
		}
	}
	return ""
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(v.Major)
}
