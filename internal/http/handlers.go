package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/hperssn/guessgame/internal/domain"
	"github.com/hperssn/guessgame/internal/runner"
	"github.com/hperssn/guessgame/internal/storage"
)

const defaultResultsWindow = 24 * time.Hour

var errArchiveDisabled = errors.New("results archive disabled")

// NewRouter exposes the session commands over HTTP. results may be nil when
// no archive is configured.
func NewRouter(manager *runner.SessionManager, results storage.Repository) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(ExtractPlayer)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/sessions", createSession(manager))
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", getSession(manager))
		r.Delete("/", stopSession(manager))
		r.Get("/events", StreamSessionEvents(manager))
		r.Get("/results", getSessionResults(manager))

		r.Post("/next", command(manager.NextQuestion))
		r.Post("/previous", command(manager.PreviousQuestion))
		r.Post("/restart", command(manager.Restart))

		r.Post("/timer/start", command(manager.StartTimer))
		r.Post("/timer/pause", command(manager.PauseTimer))
		r.Post("/timer/reset", command(manager.ResetTimer))
		r.Post("/timer/tick", command(manager.Tick))

		r.Post("/jobs/{jobID}/descriptions", addDescription(manager))
		r.Post("/jobs/{jobID}/descriptions/{descID}/vote", vote(manager))
		r.Delete("/jobs/{jobID}/descriptions/{descID}", deleteDescription(manager))
	})

	r.Get("/results", listResults(results))
	r.Get("/results/stats", resultsStats(results))
	r.Get("/results/{resultID}", getResults(results))

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func createSession(m *runner.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID           string `json:"id"`
			TimerSeconds int    `json:"timerSeconds"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.TimerSeconds < 0 {
			respondError(w, "timerSeconds must not be negative", http.StatusBadRequest)
			return
		}

		snap, err := m.CreateSession(req.ID, req.TimerSeconds)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, snap, http.StatusCreated)
	}
}

func getSession(m *runner.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		snap, ok := m.GetSession(id)
		if !ok {
			respondErr(w, runner.ErrSessionNotFound)
			return
		}

		respondJSON(w, snap, http.StatusOK)
	}
}

func stopSession(m *runner.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := m.StopSession(id); err != nil {
			respondErr(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func getSessionResults(m *runner.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := m.Results(chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, results, http.StatusOK)
	}
}

// command adapts a manager operation that needs only the session id.
func command(op func(id string) (domain.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := op(chi.URLParam(r, "id"))
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, snap, http.StatusOK)
	}
}

func addDescription(m *runner.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		jobID, err := parseJobID(r)
		if err != nil {
			respondError(w, "invalid job id", http.StatusBadRequest)
			return
		}

		var req struct {
			Text        string `json:"text"`
			Contributor string `json:"contributor"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		desc, added, err := m.AddDescription(id, jobID, req.Text, req.Contributor)
		if err != nil {
			respondErr(w, err)
			return
		}
		if !added {
			// Unknown jobs are ignored, mirroring vote and delete.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		respondJSON(w, desc, http.StatusCreated)
	}
}

func vote(m *runner.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		jobID, err := parseJobID(r)
		if err != nil {
			respondError(w, "invalid job id", http.StatusBadRequest)
			return
		}

		var req struct {
			Direction string `json:"direction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		dir, err := domain.ParseDirection(req.Direction)
		if err != nil {
			respondErr(w, err)
			return
		}

		snap, err := m.Vote(id, jobID, chi.URLParam(r, "descID"), dir)
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, snap, http.StatusOK)
	}
}

func deleteDescription(m *runner.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		jobID, err := parseJobID(r)
		if err != nil {
			respondError(w, "invalid job id", http.StatusBadRequest)
			return
		}

		snap, err := m.DeleteDescription(id, jobID, chi.URLParam(r, "descID"))
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, snap, http.StatusOK)
	}
}

func listResults(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			respondErr(w, errArchiveDisabled)
			return
		}

		since := time.Now().Add(-defaultResultsWindow)
		if raw := r.URL.Query().Get("since"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				respondError(w, "since must be RFC3339", http.StatusBadRequest)
				return
			}
			since = t
		}

		records, err := repo.ListRecent(r.Context(), since)
		if err != nil {
			respondErr(w, err)
			return
		}
		if records == nil {
			records = []storage.ResultsRecord{}
		}
		respondJSON(w, records, http.StatusOK)
	}
}

func getResults(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			respondErr(w, errArchiveDisabled)
			return
		}

		record, err := repo.GetResults(r.Context(), chi.URLParam(r, "resultID"))
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, record, http.StatusOK)
	}
}

func resultsStats(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			respondErr(w, errArchiveDisabled)
			return
		}

		stats, err := repo.GetStats(r.Context())
		if err != nil {
			respondErr(w, err)
			return
		}
		respondJSON(w, stats, http.StatusOK)
	}
}

func parseJobID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "jobID"))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, runner.ErrSessionNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, errArchiveDisabled):
		return http.StatusNotFound
	case errors.Is(err, runner.ErrSessionExists),
		errors.Is(err, domain.ErrNotComplete):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidDescription):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidDirection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		respondError(w, "internal error", status)
		return
	}
	respondError(w, err.Error(), status)
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
