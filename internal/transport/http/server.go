package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/pkg/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controller is the set of intents the façade exposes.
type Controller interface {
	State() domain.ScreenState
	SetQueryText(text string)
	Refresh()
	LoadMore()
}

type queryRequest struct {
	Text string `json:"text"`
}

func NewHTTPServer(cfg *config.Config, controller Controller) *http.Server {
	return &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: NewRouter(controller),
	}
}

// NewRouter maps HTTP calls onto controller intents. Intents are asynchronous, so they
// answer 202 and the result shows up in GET /state.
func NewRouter(controller Controller) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprintf(w, "OK"); err != nil {
			// Log error but don't fail health check
			_ = err
		}
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	r.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controller.State())
	}).Methods(http.MethodGet)

	r.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		controller.SetQueryText(req.Text)
		writeJSON(w, http.StatusOK, controller.State())
	}).Methods(http.MethodPut)

	r.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		controller.Refresh()
		w.WriteHeader(http.StatusAccepted)
	}).Methods(http.MethodPost)

	r.HandleFunc("/load-more", func(w http.ResponseWriter, r *http.Request) {
		controller.LoadMore()
		w.WriteHeader(http.StatusAccepted)
	}).Methods(http.MethodPost)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}
