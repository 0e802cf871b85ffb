package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WatchOverrides polls page_meta every interval and drops cached renders
// for rows edited since the last poll.  It returns when ctx is done.
func (h *Handler) WatchOverrides(ctx context.Context, every time.Duration) {
	if h.store == nil || h.cache == nil {
		return
	}
	since := time.Now().UTC()
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			since = h.invalidateSince(ctx, since)
		}
	}
}

// invalidateSince drops every path changed after since, including its
// per-region variants, and returns the newest updated_at seen.
func (h *Handler) invalidateSince(ctx context.Context, since time.Time) time.Time {
	rows, err := h.store.UpdatedSince(ctx, since)
	if err != nil {
		zap.L().Warn("page_meta poll failed", zap.Error(err))
		return since
	}
	for _, o := range rows {
		h.cache.InvalidatePrefix(o.Path)
		if o.UpdatedAt.After(since) {
			since = o.UpdatedAt
		}
	}
	if len(rows) > 0 {
		zap.L().Info("page_meta changed, cache invalidated", zap.Int("paths", len(rows)))
	}
	return since
}
