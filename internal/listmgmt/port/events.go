package port

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
	"github.com/aelexs/listshare-platform/internal/observability"
)

// SubscribeFunc attaches a subscriber to a list's event topic. It returns
// the delivery channel and a close function detaching the subscriber.
type SubscribeFunc func(ctx context.Context, listID string) (<-chan app.Envelope, func() error, error)

// EventsHandler streams change envelopes to clients as newline-delimited
// JSON. The stream starts at subscription time; there is no replay.
type EventsHandler struct {
	subscribe SubscribeFunc
	logger    *slog.Logger
}

// NewEventsHandler creates an EventsHandler on the given subscribe hook.
func NewEventsHandler(subscribe SubscribeFunc, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{subscribe: subscribe, logger: logger}
}

// Mount registers the streaming route on the mux.
func (h *EventsHandler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/lists/{listID}/events", h.stream)
}

func (h *EventsHandler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	listID := r.PathValue("listID")
	events, stop, err := h.subscribe(r.Context(), listID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	defer func() {
		if err := stop(); err != nil {
			observability.WithTraceID(r.Context(), h.logger).WarnContext(r.Context(), "events.unsubscribe_failed",
				"list_id", listID,
				"error", err,
			)
		}
	}()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-r.Context().Done():
			return
		case env, open := <-events:
			if !open {
				return
			}
			if err := enc.Encode(env); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
