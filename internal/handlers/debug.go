package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/c0de128/4seasons/internal/requestinfo"
)

// debugRequest echoes what the middleware learned about the caller:
// client IP, geo, parsed UA, and the crawler label the render metrics
// will use.  Mounted only when Deps.Debug is set.
func (h *Handler) debugRequest(w http.ResponseWriter, r *http.Request) {
	info := requestinfo.FromContext(r.Context())
	out := map[string]any{
		"path":    r.URL.Path,
		"query":   r.URL.RawQuery,
		"ua":      r.UserAgent(),
		"bot":     botLabel(r),
		"region":  info.Region(),
		"info":    info,
		"aliases": h.library().Aliases(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
