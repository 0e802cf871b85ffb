// internal/seo/reconcile.go
//
// Field reconciliation: Resolved → ordered upserts.
//
// The emission order is fixed so two passes over equal input touch the
// document identically.  Groups, in order: core meta, mobile/app flags,
// canonical, Open Graph, Twitter, verification, Facebook, article,
// alternates.
package seo

import "strconv"

// appFlags are written on every page regardless of input.
func appFlags(r Resolved) [][2]string {
	return [][2]string{
		{"mobile-web-app-capable", "yes"},
		{"apple-mobile-web-app-capable", "yes"},
		{"apple-mobile-web-app-status-bar-style", "default"},
		{"apple-mobile-web-app-title", r.ApplicationName},
		{"format-detection", "telephone=no"},
		{"msapplication-TileColor", r.ThemeColor},
	}
}

func reconcile(w *tagWriter, r Resolved) {
	// Core.
	w.upsertMeta("description", r.Description, false)
	w.upsertMeta("keywords", r.Keywords, false)
	w.upsertMeta("author", r.Author, false)
	w.upsertMeta("robots", r.Robots, false)
	w.upsertMeta("viewport", r.Viewport, false)
	w.upsertMeta("theme-color", r.ThemeColor, false)
	w.upsertMeta("application-name", r.ApplicationName, false)
	for _, f := range appFlags(r) {
		w.upsertMeta(f[0], f[1], false)
	}

	if r.Canonical != "" {
		w.upsertLink("canonical", r.Canonical)
	}

	// Open Graph.
	w.upsertMeta("og:title", r.OG.Title, true)
	w.upsertMeta("og:description", r.OG.Description, true)
	w.upsertMeta("og:type", r.OG.Type, true)
	w.upsertMeta("og:url", r.OG.URL, true)
	w.upsertMeta("og:site_name", r.OG.SiteName, true)
	w.upsertMeta("og:locale", r.OG.Locale, true)
	if img := r.OG.Image; img != nil {
		w.upsertMeta("og:image", img.URL, true)
		w.upsertMeta("og:image:width", strconv.Itoa(img.Width), true)
		w.upsertMeta("og:image:height", strconv.Itoa(img.Height), true)
		w.upsertMeta("og:image:alt", img.Alt, true)
	}

	// Twitter.
	w.upsertMeta("twitter:card", r.Twitter.Card, false)
	w.upsertMeta("twitter:site", r.Twitter.Site, false)
	w.upsertMeta("twitter:creator", r.Twitter.Creator, false)
	w.upsertMeta("twitter:title", r.Twitter.Title, false)
	w.upsertMeta("twitter:description", r.Twitter.Description, false)
	w.upsertMeta("twitter:domain", r.Twitter.Domain, false)
	if img := r.OG.Image; img != nil {
		w.upsertMeta("twitter:image", img.URL, false)
		w.upsertMeta("twitter:image:alt", img.Alt, false)
	}

	// Verification.
	v := r.Verification
	for _, t := range [][2]string{
		{"google-site-verification", v.Google},
		{"msvalidate.01", v.Bing},
		{"yandex-verification", v.Yandex},
		{"p:domain_verify", v.Pinterest},
	} {
		if t[1] != "" {
			w.upsertMeta(t[0], t[1], false)
		}
	}

	if r.FacebookAppID != "" {
		w.upsertMeta("fb:app_id", r.FacebookAppID, true)
	}

	if a := r.Article; a != nil {
		for _, t := range [][2]string{
			{"article:published_time", a.PublishedTime},
			{"article:modified_time", a.ModifiedTime},
			{"article:section", a.Section},
			{"article:author", a.Author},
		} {
			if t[1] != "" {
				w.upsertMeta(t[0], t[1], true)
			}
		}
		w.upsertMetaSet("article:tag", a.Tags)
	}

	for _, alt := range r.Alternates {
		w.upsertAlternate(alt.Lang, alt.URL)
	}
}
