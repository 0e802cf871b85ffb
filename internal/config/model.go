// internal/config/model.go
//
// Typed configuration model for the Four Seasons site.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   - optional `.env`                               dotenv values,
//   - `conf/site.yaml`                              primary static file,
//   - `FOURSEASONS_`-prefixed environment overrides highest precedence.
//
// Any string value beginning with `vault:` is resolved through the Vault
// client before validation, so the model never keeps Vault URIs once Load
// returns.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
//   - Oxford commas, two spaces after periods.  No em-dash.
package config

import (
	"time"

	"github.com/c0de128/4seasons/internal/seo"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
}

//
// Log section
//

// Log controls the zap logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

//
// Site section
//

// Site carries the SEO defaults every page falls back to.
type Site struct {
	Name            string           `koanf:"name"             validate:"required"`
	BaseURL         string           `koanf:"base_url"         validate:"required,url"`
	Author          string           `koanf:"author"`
	Locale          string           `koanf:"locale"`
	Robots          string           `koanf:"robots"`
	ThemeColor      string           `koanf:"theme_color"      validate:"omitempty,hexcolor"`
	ApplicationName string           `koanf:"application_name"`
	TwitterSite     string           `koanf:"twitter_site"     validate:"omitempty,startswith=@"`
	TwitterCreator  string           `koanf:"twitter_creator"  validate:"omitempty,startswith=@"`
	FacebookAppID   string           `koanf:"facebook_app_id"  validate:"omitempty,numeric"`
	Verification    seo.Verification `koanf:"verification"`
	Theme           string           `koanf:"theme"            validate:"required"`

	// Brokerage details for the Organization / RealEstateAgent JSON-LD.
	Telephone  string   `koanf:"telephone"`
	Email      string   `koanf:"email" validate:"omitempty,email"`
	Logo       string   `koanf:"logo"`
	Street     string   `koanf:"street"`
	Locality   string   `koanf:"locality"`
	Region     string   `koanf:"region"`
	PostalCode string   `koanf:"postal_code"`
	AreaServed []string `koanf:"area_served"`
	SameAs     []string `koanf:"same_as" validate:"dive,url"`
}

// SEODefaults maps the site block onto seo.SiteDefaults.
func (s Site) SEODefaults() seo.SiteDefaults {
	return seo.SiteDefaults{
		SiteName:        s.Name,
		BaseURL:         s.BaseURL,
		TwitterSite:     s.TwitterSite,
		TwitterCreator:  s.TwitterCreator,
		Author:          s.Author,
		Robots:          s.Robots,
		Locale:          s.Locale,
		ThemeColor:      s.ThemeColor,
		ApplicationName: s.ApplicationName,
		FacebookAppID:   s.FacebookAppID,
		Verification:    s.Verification,
	}
}

// Business maps the site block onto the JSON-LD brokerage description.
func (s Site) Business() seo.Business {
	return seo.Business{
		Name:      s.Name,
		URL:       s.BaseURL,
		Logo:      s.Logo,
		Telephone: s.Telephone,
		Email:     s.Email,
		Address: seo.AddressRef{PostalAddress: seo.PostalAddress{
			Street:     s.Street,
			Locality:   s.Locality,
			Region:     s.Region,
			PostalCode: s.PostalCode,
			Country:    "US",
		}},
		AreaServed: s.AreaServed,
		SameAs:     s.SameAs,
	}
}

//
// Content section
//

// Content locates page YAML files.
type Content struct {
	Dir string `koanf:"dir" validate:"required"`
}

//
// Database section
//

// Database configures the optional page_meta override store.  An empty
// DSN disables it.  The DSN template holds one %s verb for the password,
// which normally arrives as a `vault:` reference.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"dsn_template"`
	Password string `koanf:"password" validate:"required_with=DSN"`
	MaxOpen  int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle  int    `koanf:"max_idle" validate:"gte=0"`
}

//
// GeoIP section
//

// GeoIP points at an optional MaxMind country database.
type GeoIP struct {
	Database string `koanf:"database"`
}

//
// Cache section
//

// Cache tunes the rendered-page cache.
type Cache struct {
	IdleTTL    time.Duration `koanf:"idle_ttl"    validate:"gte=0"`
	MaxEntries int           `koanf:"max_entries" validate:"gte=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // FOURSEASONS_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Log      Log      `koanf:"log"`
	Site     Site     `koanf:"site"`
	Content  Content  `koanf:"content"`
	Database Database `koanf:"database"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Cache    Cache    `koanf:"cache"`
	Paths    Paths    `koanf:"-"`
}
