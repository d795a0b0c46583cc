package api

import (
	"net/http"
	"time"

	"github.com/happychuks/linkedin-sequence-gen/internal/api/handlers"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter creates the API router with all endpoints
func NewRouter(sequences *handlers.SequenceHandlers, providers *handlers.ProviderHandlers) http.Handler {
	r := mux.NewRouter()

	// CORS runs first so preflight requests never reach a handler
	r.Use(corsMiddleware)
	r.Use(loggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "OPTIONS")

	// Sequence generation and refinement
	api.HandleFunc("/generate-sequence", sequences.GenerateHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/refine-sequence", sequences.RefineHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/refinements/{sequenceId}", sequences.GetRefinementsHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/compare", sequences.CompareHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/history/{prospectId}", sequences.HistoryHandler).Methods("GET", "OPTIONS")

	// Version management
	api.HandleFunc("/sequences/{id}", sequences.GetSequenceHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/sequences/{id}", sequences.DeleteSequenceHandler).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/sequences/{id}/messages", sequences.EditMessagesHandler).Methods("PUT", "OPTIONS")
	api.HandleFunc("/sequences/{id}/stats", sequences.StatsHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/tov-presets", sequences.TonePresetsHandler).Methods("GET", "OPTIONS")

	// Provider management
	api.HandleFunc("/provider", providers.GetProviderHandler).Methods("GET", "OPTIONS")
	api.HandleFunc("/provider/switch", providers.SwitchProviderHandler).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Request handled")
	})
}
