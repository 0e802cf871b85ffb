// internal/store/pagemeta.go
//
// page_meta override repository.
//
// Context
// -------
// Marketing staff can patch a page's SEO fields without a deploy by adding
// a row to `page_meta`.  The row is keyed by route path and overlays the
// YAML metadata: every non-NULL column wins.  structured_data holds a JSON
// object or array and replaces the page's structured data wholesale.
//
// Schema
// ------
//
//	CREATE TABLE page_meta (
//	  path            VARCHAR(255) PRIMARY KEY,
//	  title           VARCHAR(255) NULL,
//	  description     TEXT         NULL,
//	  canonical       VARCHAR(512) NULL,
//	  og_image        VARCHAR(512) NULL,
//	  robots          VARCHAR(64)  NULL,
//	  structured_data JSON         NULL,
//	  updated_at      DATETIME     NOT NULL
//	);
//
// Notes
// -----
//   - Queries take a context and go through sqlx so the repository works
//     against *sqlx.DB and *sqlx.Tx alike.
//   - Oxford commas, two spaces after periods.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/c0de128/4seasons/internal/seo"
)

// ErrNotFound is returned when no row matches the path.
var ErrNotFound = errors.New("page_meta: not found")

// Override is one page_meta row.
type Override struct {
	Path           string         `db:"path"`
	Title          sql.NullString `db:"title"`
	Description    sql.NullString `db:"description"`
	Canonical      sql.NullString `db:"canonical"`
	OGImage        sql.NullString `db:"og_image"`
	Robots         sql.NullString `db:"robots"`
	StructuredData []byte         `db:"structured_data"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

const selectColumns = `path, title, description, canonical, og_image, robots, structured_data, updated_at`

// Store reads overrides.
type Store struct {
	db sqlx.ExtContext
}

// New wraps db.
func New(db sqlx.ExtContext) *Store { return &Store{db: db} }

// ByPath returns the override for path or ErrNotFound.
func (s *Store) ByPath(ctx context.Context, path string) (*Override, error) {
	var o Override
	err := sqlx.GetContext(ctx, s.db, &o,
		`SELECT `+selectColumns+` FROM page_meta WHERE path = ? LIMIT 1`, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("page_meta: by path %q: %w", path, err)
	}
	return &o, nil
}

// UpdatedSince lists overrides changed after t, newest first.  The page
// cache uses it to drop stale renders.
func (s *Store) UpdatedSince(ctx context.Context, t time.Time) ([]Override, error) {
	var out []Override
	err := sqlx.SelectContext(ctx, s.db, &out,
		`SELECT `+selectColumns+` FROM page_meta WHERE updated_at > ? ORDER BY updated_at DESC`, t)
	if err != nil {
		return nil, fmt.Errorf("page_meta: updated since: %w", err)
	}
	return out, nil
}

// Apply overlays the non-NULL columns onto m.
func (o *Override) Apply(m *seo.PageMetadata) error {
	if o.Title.Valid {
		m.Title = o.Title.String
	}
	if o.Description.Valid {
		m.Description = o.Description.String
	}
	if o.Canonical.Valid {
		m.Canonical = o.Canonical.String
	}
	if o.OGImage.Valid {
		m.OGImage = o.OGImage.String
		if m.OpenGraph != nil {
			og := *m.OpenGraph
			og.Images = nil
			m.OpenGraph = &og
		}
	}
	if o.Robots.Valid {
		m.Robots = o.Robots.String
	}
	if len(o.StructuredData) > 0 {
		var sd seo.StructuredData
		if err := json.Unmarshal(o.StructuredData, &sd); err != nil {
			return fmt.Errorf("page_meta %s: structured_data: %w", o.Path, err)
		}
		m.StructuredData = sd
	}
	return nil
}
