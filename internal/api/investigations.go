package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

// investigationRequest is the POST /investigations payload. Zero-valued
// config fields keep their defaults.
type investigationRequest struct {
	Query   string `json:"query"`
	Mode    string `json:"mode,omitempty"`
	Session struct {
		SessionID     string   `json:"session_id,omitempty"`
		RecentQueries []string `json:"recent_queries,omitempty"`
		AlertSeverity string   `json:"alert_severity,omitempty"`
		TokenBudget   int      `json:"token_budget,omitempty"`
	} `json:"session,omitempty"`
	Config struct {
		MaxDebateRounds     int     `json:"max_debate_rounds,omitempty"`
		ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`
		TimeoutSeconds      int     `json:"timeout_seconds,omitempty"`
		PanelTimeoutSeconds int     `json:"panel_timeout_seconds,omitempty"`
	} `json:"config,omitempty"`
}

func (s *Server) handleCreateInvestigation(w http.ResponseWriter, r *http.Request) {
	var req investigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cfg := core.DefaultCouncilConfig()
	if req.Config.MaxDebateRounds > 0 {
		cfg.MaxDebateRounds = req.Config.MaxDebateRounds
	}
	if req.Config.ConfidenceThreshold > 0 {
		cfg.ConfidenceThreshold = req.Config.ConfidenceThreshold
	}
	if req.Config.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = req.Config.TimeoutSeconds
	}
	if req.Config.PanelTimeoutSeconds > 0 {
		cfg.PanelTimeoutSeconds = req.Config.PanelTimeoutSeconds
	}
	if req.Mode != "" {
		mode, err := core.ParseMode(req.Mode)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		cfg.Mode = mode
		cfg.ModeExplicit = true
	}

	session := core.SessionContext{
		SessionID:     req.Session.SessionID,
		RecentQueries: req.Session.RecentQueries,
		AlertSeverity: core.Severity(req.Session.AlertSeverity),
		TokenBudget:   req.Session.TokenBudget,
	}

	result, err := s.investigator.Investigate(r.Context(), req.Query, session, cfg)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListInvestigations(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotImplemented, "run history is not enabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	summaries, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if summaries == nil {
		summaries = []core.RunSummary{}
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetInvestigation(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotImplemented, "run history is not enabled")
		return
	}

	runID := chi.URLParam(r, "runID")
	result, err := s.store.LoadRun(r.Context(), runID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
