// internal/seo/upsert.go
//
// Tag upsert primitive and the managed-element registry.
//
// Context
// -------
// Every meta or link the injector writes goes through one of the upsert
// helpers below.  An existing element matching the selector has only its
// value attribute (content or href) overwritten.  A missing element is
// created with the identifying attribute, the value, and ManagedAttr, then
// appended to the head.
//
// The registry remembers each element a pass touched:
//
//   - created   – appended by us, removed on prune or unmount.
//   - claimed   – already in the page template, restored to its original
//     value on prune or unmount.
//
// Elements that carry ManagedAttr but are unknown to this registry (left
// behind by an earlier controller on the same document) are adopted as
// created.
package seo

import (
	"go.uber.org/zap"

	"github.com/c0de128/4seasons/internal/head"
	"github.com/c0de128/4seasons/internal/metrics"
)

// ManagedAttr marks head elements created by the injector.
const ManagedAttr = "data-seo-managed"

type entry struct {
	created   bool
	valueAttr string
	original  string
	hadValue  bool
}

type registry struct {
	entries map[head.Node]*entry
	touched map[head.Node]struct{}
}

func newRegistry() *registry {
	return &registry{
		entries: make(map[head.Node]*entry),
		touched: make(map[head.Node]struct{}),
	}
}

// tagWriter applies upserts to one document and records them.
type tagWriter struct {
	doc head.Document
	reg *registry
}

// upsertMeta writes meta[name=key] or, when property is true,
// meta[property=key].
func (w *tagWriter) upsertMeta(key, content string, property bool) {
	if key == "" {
		zap.L().Debug("seo: empty meta key skipped")
		return
	}
	attr := "name"
	if property {
		attr = "property"
	}
	if found := w.doc.Find("meta", head.A(attr, key)); len(found) > 0 {
		w.update(found[0], "content", content)
		return
	}
	w.create("meta", head.A(attr, key), "content", content)
}

// upsertLink writes link[rel=rel].
func (w *tagWriter) upsertLink(rel, href string) {
	if rel == "" {
		zap.L().Debug("seo: empty link rel skipped")
		return
	}
	if found := w.doc.Find("link", head.A("rel", rel)); len(found) > 0 {
		w.update(found[0], "href", href)
		return
	}
	w.create("link", head.A("rel", rel), "href", href)
}

// upsertAlternate writes link[rel=alternate][hreflang=lang].  An exact
// (hreflang, href) match is reused untouched.  Otherwise a managed link
// with the same hreflang, not yet written in this pass, is repointed, and
// only then is a new one made.  Two entries sharing an hreflang therefore
// stay two links.  Template links with a different href are never
// rewritten.
func (w *tagWriter) upsertAlternate(lang, href string) {
	rel, hl := head.A("rel", "alternate"), head.A("hreflang", lang)

	if exact := w.doc.Find("link", rel, hl, head.A("href", href)); len(exact) > 0 {
		w.update(exact[0], "href", href)
		return
	}
	for _, n := range w.doc.Find("link", rel, hl) {
		if _, done := w.reg.touched[n]; w.isManaged(n) && !done {
			w.update(n, "href", href)
			return
		}
	}
	w.create("link", hl, "href", href, rel)
}

// upsertMetaSet writes one meta[property=key] per value, reusing existing
// elements in document order.  Leftover managed elements are pruned at
// the end of the pass.
func (w *tagWriter) upsertMetaSet(key string, values []string) {
	found := w.doc.Find("meta", head.A("property", key))
	for i, v := range values {
		if i < len(found) {
			w.update(found[i], "content", v)
			continue
		}
		w.create("meta", head.A("property", key), "content", v)
	}
}

// update overwrites valueAttr on n, claiming it first when unknown.
func (w *tagWriter) update(n head.Node, valueAttr, val string) {
	if _, known := w.reg.entries[n]; !known {
		orig, had := n.Attr(valueAttr)
		_, stale := n.Attr(ManagedAttr)
		w.reg.entries[n] = &entry{
			created:   stale,
			valueAttr: valueAttr,
			original:  orig,
			hadValue:  had,
		}
	}
	w.reg.touched[n] = struct{}{}

	if cur, ok := n.Attr(valueAttr); ok && cur == val {
		return
	}
	n.SetAttr(valueAttr, val)
	metrics.HeadElementsUpdatedTotal.Inc()
}

// create appends a new managed element.  extra attributes follow the
// value attribute.
func (w *tagWriter) create(tag string, ident head.Attr, valueAttr, val string, extra ...head.Attr) {
	n := w.doc.Create(tag)
	for _, a := range extra {
		n.SetAttr(a.Key, a.Val)
	}
	n.SetAttr(ident.Key, ident.Val)
	n.SetAttr(valueAttr, val)
	n.SetAttr(ManagedAttr, "true")
	w.doc.Append(n)

	w.reg.entries[n] = &entry{created: true, valueAttr: valueAttr}
	w.reg.touched[n] = struct{}{}
	metrics.HeadElementsCreatedTotal.Inc()
}

func (w *tagWriter) isManaged(n head.Node) bool {
	if e, ok := w.reg.entries[n]; ok {
		return e.created
	}
	_, ok := n.Attr(ManagedAttr)
	return ok
}

// prune releases every registered element not touched since the last
// prune, then starts a new pass.  It returns how many were released.
func (w *tagWriter) prune() int {
	released := 0
	for n, e := range w.reg.entries {
		if _, ok := w.reg.touched[n]; ok {
			continue
		}
		w.release(n, e)
		delete(w.reg.entries, n)
		released++
	}
	w.reg.touched = make(map[head.Node]struct{})
	return released
}

// releaseAll releases every registered element.
func (w *tagWriter) releaseAll() int {
	n := len(w.reg.entries)
	for node, e := range w.reg.entries {
		w.release(node, e)
	}
	*w.reg = *newRegistry()
	return n
}

func (w *tagWriter) release(n head.Node, e *entry) {
	if e.created {
		w.doc.Remove(n)
		metrics.HeadElementsRemovedTotal.Inc()
		return
	}
	if e.hadValue {
		n.SetAttr(e.valueAttr, e.original)
	} else {
		n.RemoveAttr(e.valueAttr)
	}
}
