// internal/seo/controller.go
//
// Lifecycle controller for one document.
//
// Context
// -------
// A Controller owns everything the injector writes into one head.Document.
// It has two states:
//
//	Unmounted ──Apply──▶ Mounted ──Unmount──▶ Unmounted
//	                      │  ▲
//	                      └──┘ Apply (re-runs only on changed input)
//
// Each run sets the title, reconciles tags, prunes what the previous run
// wrote but this one did not, and republishes structured data.  Unmount
// removes the structured-data script and every element the controller
// created, and restores template elements it overwrote, so nothing leaks
// into the next page rendered into the same document.
//
// Notes
// -----
//   - The change fingerprint is a SHA-256 of the JSON encoding of the
//     PageMetadata.  Maps encode with sorted keys, so equal input hashes
//     equally.
//   - A failed run leaves the fingerprint untouched, so the next Apply
//     with the same input retries.
package seo

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/c0de128/4seasons/internal/head"
	"github.com/c0de128/4seasons/internal/metrics"
)

// State is the controller lifecycle state.
type State int

const (
	Unmounted State = iota
	Mounted
)

func (s State) String() string {
	if s == Mounted {
		return "mounted"
	}
	return "unmounted"
}

// Controller is safe for concurrent use, though one page normally drives
// it from one goroutine.
type Controller struct {
	mu    sync.Mutex
	doc   head.Document
	site  SiteDefaults
	w     *tagWriter
	state State
	fp    [sha256.Size]byte
}

// NewController binds a controller to doc.
func NewController(doc head.Document, site SiteDefaults) *Controller {
	return &Controller{
		doc:  doc,
		site: site,
		w:    &tagWriter{doc: doc, reg: newRegistry()},
	}
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Apply mounts the controller with m, or re-runs when m differs from the
// last successful Apply.
func (c *Controller) Apply(m PageMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fp, err := fingerprint(m)
	if err != nil {
		metrics.ControllerAppliesTotal.WithLabelValues("error").Inc()
		return err
	}
	if c.state == Mounted && fp == c.fp {
		metrics.ControllerAppliesTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	c.doc.SetTitle(m.Title)
	reconcile(c.w, Normalize(m, c.site))
	pruned := c.w.prune()

	if _, err := Publish(c.doc, m.StructuredData); err != nil {
		metrics.ControllerAppliesTotal.WithLabelValues("error").Inc()
		c.state = Mounted
		c.fp = [sha256.Size]byte{}
		return err
	}

	c.state = Mounted
	c.fp = fp
	metrics.ControllerAppliesTotal.WithLabelValues("run").Inc()
	zap.L().Debug("seo: metadata applied",
		zap.String("title", m.Title),
		zap.Int("managed", len(c.w.reg.entries)),
		zap.Int("pruned", pruned))
	return nil
}

// Unmount removes everything the controller wrote.  It is a no-op when
// already unmounted.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Unmounted {
		return
	}
	scripts := removeStructuredData(c.doc)
	released := c.w.releaseAll()

	c.state = Unmounted
	c.fp = [sha256.Size]byte{}
	zap.L().Debug("seo: metadata unmounted",
		zap.Int("released", released),
		zap.Int("scripts", scripts))
}

func fingerprint(m PageMetadata) ([sha256.Size]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return [sha256.Size]byte{}, fmt.Errorf("seo: fingerprint metadata: %w", err)
	}
	return sha256.Sum256(raw), nil
}
