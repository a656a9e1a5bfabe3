package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const playerKey contextKey = "player"

// ExtractPlayer records the display name a reverse proxy forwards, if any.
// It only attributes requests in logs and never rejects one.
func ExtractPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Header.Get("X-Auth-User")

		if player == "" {
			player = r.Header.Get("X-Forwarded-User")
		}
		if player == "" {
			player = r.Header.Get("Remote-User")
		}
		if player == "" {
			player = "anonymous"
		}

		ctx := context.WithValue(r.Context(), playerKey, player)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PlayerName(r *http.Request) string {
	player, ok := r.Context().Value(playerKey).(string)
	if !ok {
		return ""
	}
	return player
}

// RequestLogger logs one line per request through logrus.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"bytes":    ww.BytesWritten(),
			"duration": time.Since(start),
			"player":   PlayerName(r),
			"request":  middleware.GetReqID(r.Context()),
		}).Info("request")
	})
}
