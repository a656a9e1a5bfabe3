package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/hperssn/guessgame/internal/runner"
)

// StreamSessionEvents writes a snapshot event whenever the session changes,
// starting with its current state.
func StreamSessionEvents(manager *runner.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		flusher, ok := w.(http.Flusher)
		if !ok {
			respondError(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		events, unsubscribe, err := manager.Subscribe(id)
		if err != nil {
			respondErr(w, err)
			return
		}
		defer unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		for {
			select {
			case snap, ok := <-events:
				if !ok {
					return
				}

				data, err := json.Marshal(snap)
				if err != nil {
					log.WithError(err).WithField("session", id).Error("failed to encode snapshot")
					return
				}
				w.Write([]byte("event: snapshot\ndata: "))
				w.Write(data)
				w.Write([]byte("\n\n"))

				flusher.Flush()

			case <-r.Context().Done():
				return
			}
		}
	}
}
