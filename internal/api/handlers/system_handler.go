package handlers

import (
	"fmt"
	"net/http"
	"time"
)

type SystemHandler struct {
	version string
}

func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{version: version}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "Ofertas API is running", map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	})
}

func (h *SystemHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "Ofertas API", map[string]any{
		"name":    "ofertas-service",
		"version": h.version,
		"endpoints": []string{
			"GET /health",
			"GET /offers",
			"POST /offers",
			"GET /offers/filter-options",
			"GET /offers/{id}",
			"DELETE /offers/{id}",
			"GET /offers/{id}/qr.png",
		},
	})
}

func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeFail(w, http.StatusNotFound, fmt.Sprintf("route %s %s not found", r.Method, r.URL.Path), nil)
}

func (h *SystemHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeFail(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path), nil)
}
