// Package research exposes the company research pipeline over HTTP.
package research

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"company_research/pkg/core/pipeline"
	"company_research/pkg/models"
)

type ResearchRequest struct {
	CompanyName string `json:"company_name"`
}

// Researcher runs the pipeline for one company. *pipeline.Orchestrator
// satisfies this.
type Researcher interface {
	Research(ctx context.Context, companyName string) (*models.ResearchResponse, error)
}

// Handler holds dependencies for research endpoints
type Handler struct {
	Orchestrator Researcher
}

// NewHandler creates a new research handler
func NewHandler(orch Researcher) *Handler {
	return &Handler{Orchestrator: orch}
}

// HandleResearch serves POST /api/research. The body carries the company
// name; the response is always the full documented shape, even under total
// provider failure. `?format=html` renders the report section as HTML.
func (h *Handler) HandleResearch(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		http.Error(w, "company_name is required", http.StatusBadRequest)
		return
	}

	resp, err := h.Orchestrator.Research(r.Context(), req.CompanyName)
	if err != nil {
		if errors.Is(err, pipeline.ErrTimeout) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusGatewayTimeout)
			json.NewEncoder(w).Encode(resp)
			return
		}
		log.Printf("[api.research] pipeline error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, renderErr := RenderReportHTML(resp)
		if renderErr != nil {
			log.Printf("[api.research] html render failed: %v", renderErr)
			http.Error(w, "Report rendering failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth serves GET /api/health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
