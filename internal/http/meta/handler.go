package meta

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/home-budget-web/backend/internal/config"
)

// Handler serves the health check and the dev-only config display.
type Handler struct {
	cfg *config.Config
}

func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.health)
	r.Get("/config/show", h.configShow)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type configResponse struct {
	Env         string `json:"env"`
	DatabaseURL string `json:"database_url"`
	PoolSize    int    `json:"pool_size"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
}

func (h *Handler) configShow(w http.ResponseWriter, _ *http.Request) {
	if !h.cfg.IsDev() {
		http.Error(w, "configuration display is only available in dev mode", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, configResponse{
		Env:         h.cfg.App.Env,
		DatabaseURL: h.cfg.MaskedDatabaseURL(),
		PoolSize:    h.cfg.DB.PoolSize,
		Host:        h.cfg.App.Host,
		Port:        h.cfg.App.Port,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
