package handlers

import (
	"net/http"

	"github.com/bobmcallan/restmcp/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger    *common.Logger
	providers int
	tools     int
}

// NewHealthHandler creates a health handler reporting the hosted inventory.
func NewHealthHandler(logger *common.Logger, providers, tools int) *HealthHandler {
	return &HealthHandler{logger: logger, providers: providers, tools: tools}
}

type healthResponse struct {
	Status    string `json:"status"`
	Providers int    `json:"providers"`
	Tools     int    `json:"tools"`
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Providers: h.providers,
		Tools:     h.tools,
	})
}
