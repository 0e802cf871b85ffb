// cmd/web/main.go
//
// Four Seasons Realty – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Console logger, so config errors are visible.
//
//  2. Optional Vault client (when VAULT_ADDR is set), then config.Load,
//     which resolves any `vault:` values through it.
//
//  3. Daily rotating logger at the configured level (tees to console when
//     running in a TTY).
//
//  4. Content library, theme, optional GeoIP database, and optional
//     page_meta store.
//
//  5. Page cache plus the override watcher that invalidates it.
//
//  6. Router:
//
//     • security headers        – middleware.Security
//     • HTTPS redirect           – middleware.ForceHTTPS (when enabled)
//     • alias redirects          – routing.Middleware
//     • request info             – requestinfo.Enrich
//     • site routes              – handlers.Routes
//     • Prometheus               – /metrics
//
//  7. Serve until SIGINT or SIGTERM, then drain.  SIGHUP reloads the
//     content directory and the alias table without a restart.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/c0de128/4seasons/internal/config"
	"github.com/c0de128/4seasons/internal/content"
	"github.com/c0de128/4seasons/internal/database"
	"github.com/c0de128/4seasons/internal/handlers"
	"github.com/c0de128/4seasons/internal/logger"
	"github.com/c0de128/4seasons/internal/middleware"
	"github.com/c0de128/4seasons/internal/pagecache"
	"github.com/c0de128/4seasons/internal/requestinfo"
	"github.com/c0de128/4seasons/internal/routing"
	"github.com/c0de128/4seasons/internal/server"
	"github.com/c0de128/4seasons/internal/store"
	"github.com/c0de128/4seasons/internal/theme"
	"github.com/c0de128/4seasons/internal/vault"
)

const overridePoll = 30 * time.Second

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	console := logger.Console(false)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		console.Fatalw("web server stopped", "err", err)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Secrets and config ─────────────────────────────────────────
	//
	var secrets config.SecretResolver
	if os.Getenv("VAULT_ADDR") != "" {
		cli, err := vault.New(ctx, vault.Options{CacheTTL: 5 * time.Minute, Renew: true})
		if err != nil {
			return err
		}
		secrets = cli
	}
	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		return err
	}

	//
	// ── 2.  File logger ────────────────────────────────────────────────
	//
	logDir := cfg.Log.Dir
	if logDir == "" {
		logDir = filepath.Join(cfg.Paths.Root, "logs")
	}
	log, err := logger.New(logDir, cfg.Log.Level, runningInTTY())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	//
	// ── 3.  Content, theme, geo ────────────────────────────────────────
	//
	lib, err := content.Load(cfg.Content.Dir)
	if err != nil {
		return err
	}
	th, err := (&theme.Manager{BaseDir: filepath.Join(cfg.Paths.Root, "themes")}).Load(cfg.Site.Theme)
	if err != nil {
		return err
	}

	var geo *requestinfo.GeoDB
	if cfg.GeoIP.Database != "" {
		if geo, err = requestinfo.OpenGeo(cfg.GeoIP.Database); err != nil {
			log.Warnw("geoip disabled", "err", err)
		} else {
			defer geo.Close()
		}
	}

	//
	// ── 4.  Optional page_meta store ───────────────────────────────────
	//
	var overrides handlers.OverrideSource
	if cfg.Database.DSN != "" {
		db, err := database.Open(ctx, database.Options{
			DSN:     database.FormatDSN(cfg.Database.DSN, cfg.Database.Password),
			MaxOpen: cfg.Database.MaxOpen,
			MaxIdle: cfg.Database.MaxIdle,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		overrides = store.New(db)
		log.Info("page_meta store online")
	}

	//
	// ── 5.  Page cache ─────────────────────────────────────────────────
	//
	cache := pagecache.New(cfg.Cache.IdleTTL, cfg.Cache.MaxEntries, pagecache.EvictInterval)
	defer cache.Close()

	site := handlers.New(handlers.Deps{
		Site:      cfg.Site,
		Library:   lib,
		Theme:     th,
		Overrides: overrides,
		Cache:     cache,
		Debug:     cfg.Log.Level == "debug",
	})
	go site.WatchOverrides(ctx, overridePoll)

	//
	// ── 6.  Router ─────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Security)
	if cfg.HTTP.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}
	aliases := routing.NewAliasTable(lib.Aliases())
	r.Use(routing.Middleware(aliases))
	r.Use(requestinfo.Enrich(geo))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", site.Routes())

	log.Infow("site ready",
		"pages", lib.Len(),
		"theme", th.Name,
		"geoip", geo != nil,
		"store", overrides != nil)

	//
	// ── 7.  Serve ──────────────────────────────────────────────────────
	//
	go reloadOnHangup(ctx, cfg.Content.Dir, site, aliases)
	return server.Run(ctx, server.New(cfg.HTTP, r))
}

// reloadOnHangup re-reads the content directory on every SIGHUP.  A
// library that fails to load leaves the running one in place.
func reloadOnHangup(ctx context.Context, dir string, site *handlers.Handler, aliases *routing.AliasTable) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			lib, err := content.Load(dir)
			if err != nil {
				zap.S().Errorw("content reload failed", "dir", dir, "err", err)
				continue
			}
			site.SetLibrary(lib)
			aliases.Replace(lib.Aliases())
			zap.S().Infow("content reloaded", "pages", lib.Len(), "aliases", aliases.Len())
		}
	}
}
