// Package database centralises sqlx connection helpers for the page_meta
// override store.  The driver is go-sql-driver/mysql, which also works with
// MariaDB.
//
// Public entry points:
//
//	Open(ctx, opts)    – pool with the given sizes, pinged before return.
//	FormatDSN(tmpl, pw) – injects the password into a DSN template.
//
// Open retries the initial Ping a few times so the web server can start
// alongside a database container that is still booting.  Callers should
// Close() the returned *sqlx.DB when no longer needed.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Options tune Open.  Zero values pick conservative defaults.
type Options struct {
	DSN         string
	MaxOpen     int           // default 10
	MaxIdle     int           // default 4
	MaxLifetime time.Duration // default 30m
	PingTries   int           // default 5
	PingDelay   time.Duration // default 1s, doubled per retry
}

func (o *Options) defaults() {
	if o.MaxOpen == 0 {
		o.MaxOpen = 10
	}
	if o.MaxIdle == 0 {
		o.MaxIdle = 4
	}
	if o.MaxLifetime == 0 {
		o.MaxLifetime = 30 * time.Minute
	}
	if o.PingTries == 0 {
		o.PingTries = 5
	}
	if o.PingDelay == 0 {
		o.PingDelay = time.Second
	}
}

// Open returns a pinged *sqlx.DB.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	opts.defaults()
	db, err := sqlx.Open("mysql", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpen)
	db.SetMaxIdleConns(opts.MaxIdle)
	db.SetConnMaxLifetime(opts.MaxLifetime)

	if err := pingWithRetry(ctx, db, opts.PingTries, opts.PingDelay); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// FormatDSN swaps the single %s verb in tmpl for password.
func FormatDSN(tmpl, password string) string {
	if !strings.Contains(tmpl, "%s") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, password)
}

type pinger interface {
	PingContext(ctx context.Context) error
}

func pingWithRetry(ctx context.Context, db pinger, tries int, delay time.Duration) error {
	var err error
	for i := 1; i <= tries; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if i == tries {
			break
		}
		zap.S().Warnw("database ping failed, retrying", "attempt", i, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("database: ping after %d attempts: %w", tries, err)
}
