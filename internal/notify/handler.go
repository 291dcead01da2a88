package notify

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/voxlane/voxlane-platform/pkg/logging"
)

// Handler exposes the notice feed to the presentation layer.
type Handler struct {
	feed   *FeedStore
	logger *logging.Logger
}

// NewHandler creates a notices handler.
func NewHandler(feed *FeedStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{feed: feed, logger: logger}
}

// ListNotices handles GET /notices requests, newest first.
func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	notices, err := h.feed.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list notices", "error", err)
		http.Error(w, "failed to list notices", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"notices": notices, "count": len(notices)})
}
