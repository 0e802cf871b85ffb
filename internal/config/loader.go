// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/site.yaml`.
  3. Environment variables prefixed `FOURSEASONS_`, where `__` maps to “.”
     (e.g., `FOURSEASONS_HTTP__LISTEN_ADDR → http.listen_addr`).

Any merged string of the form `vault:<mount/path>#<key>` is then swapped
for the secret it names, the tree is unmarshalled into typed structs,
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  - DEBUG spans for root discovery, YAML read, and env overlay.
  - ERROR spans for YAML parse, secret lookup, unmarshal, and validation.
  - INFO span for the final “config loaded” with key highlights.
  - Logs use the global sugared logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.

Notes
-----
  - `rootDir()` climbs the cwd tree until it finds `conf/site.yaml`; this
    lets `go run ./cmd/web` work from any sub-directory.
  - Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	envPrefix   = "FOURSEASONS_"
	rootEnv     = envPrefix + "ROOT"
	configFile  = "site.yaml"
	vaultPrefix = "vault:"
)

var current atomic.Pointer[Config]

// SecretResolver turns a `vault:` reference body (`mount/path#key`) into
// its secret value.  *vault.Client satisfies it.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves FOURSEASONS_ROOT or climbs directories until
// conf/site.yaml is found.  Falls back to the executable heuristic for the
// production layout.
func rootDir() string {
	if r := os.Getenv(rootEnv); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", configFile)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, and env overrides, resolves vault references
// through secrets, validates, and caches the Config.  secrets may be nil
// when no value uses the `vault:` prefix.
func Load(ctx context.Context, secrets SecretResolver) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env is optional.
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, err
	}

	yamlPath := filepath.Join(root, "conf", configFile)
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, fmt.Errorf("config: load %s: %w", yamlPath, err)
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// FOURSEASONS_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, k, secrets); err != nil {
		zap.S().Errorw("config secret lookup failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Paths.Root = root
	if cfg.Content.Dir != "" && !filepath.IsAbs(cfg.Content.Dir) {
		cfg.Content.Dir = filepath.Join(root, cfg.Content.Dir)
	}
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"base_url", cfg.Site.BaseURL,
		"store", cfg.Database.DSN != "",
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// defaults seeds the tree before any file is read.
func defaults() map[string]any {
	return map[string]any{
		"http.listen_addr":   ":8080",
		"http.read_timeout":  10 * time.Second,
		"http.write_timeout": 15 * time.Second,
		"http.idle_timeout":  60 * time.Second,
		"log.level":          "info",
		"site.theme":         "base",
		"content.dir":        "content",
		"cache.idle_ttl":     10 * time.Minute,
		"cache.max_entries":  512,
	}
}

// resolveSecrets replaces every `vault:` string in k.  Keys are visited in
// sorted order so errors are deterministic.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, secrets SecretResolver) error {
	keys := k.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		s, ok := k.Get(key).(string)
		if !ok || !strings.HasPrefix(s, vaultPrefix) {
			continue
		}
		if secrets == nil {
			return fmt.Errorf("config: %s references vault but no vault client is configured", key)
		}
		val, err := secrets.Resolve(ctx, strings.TrimPrefix(s, vaultPrefix))
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", key, err)
		}
		if err := k.Set(key, val); err != nil {
			return err
		}
		zap.S().Debugw("config secret resolved", "key", key)
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the most recently loaded Config, or nil before Load.
func Get() *Config { return current.Load() }
