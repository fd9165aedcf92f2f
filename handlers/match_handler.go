package handlers

import (
	"net/http"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/services"
	"github.com/go-chi/chi/v5"
)

// MatchHandler exposes the live match session. All "current" routes operate
// on the single active session.
type MatchHandler struct {
	sessionService services.SessionService
}

func NewMatchHandler(sessionService services.SessionService) *MatchHandler {
	return &MatchHandler{sessionService: sessionService}
}

func (h *MatchHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TournamentID string `json:"tournament_id"`
		FixtureID    string `json:"fixture_id"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.InitializeMatch(r.Context(), req.TournamentID, req.FixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"session": session}, nil)
}

func (h *MatchHandler) UpdateRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamID   string   `json:"team_id"`
		Starters []string `json:"starters"`
		Bench    []string `json:"bench"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.UpdateMatchRoster(r.Context(), req.TeamID, models.Lineup{
		Starters: req.Starters,
		Bench:    req.Bench,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil)
}

func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.StartMatch(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil)
}

func (h *MatchHandler) Pause(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.PauseMatch(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil)
}

func (h *MatchHandler) Resume(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.ResumeMatch(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil)
}

func (h *MatchHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.AddEvent(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"session": session}, nil)
}

func (h *MatchHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.UpdateEvent(r.Context(), chi.URLParam(r, "eventID"), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil)
}

func (h *MatchHandler) RemoveEvent(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.RemoveEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil)
}

func (h *MatchHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.GetCurrentMatch(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil)
}

func (h *MatchHandler) GetTime(w http.ResponseWriter, r *http.Request) {
	clock, err := h.sessionService.GetCurrentMatchTime(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"clock": clock}, nil)
}

func (h *MatchHandler) GetActiveRoster(w http.ResponseWriter, r *http.Request) {
	active, bench, err := h.sessionService.GetActiveRoster(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"active": active, "bench": bench}, nil)
}

func (h *MatchHandler) End(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	completed, err := h.sessionService.EndMatch(r.Context(), req.Notes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": completed}, nil)
}

func (h *MatchHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.sessionService.AbandonMatch(r.Context(), req.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil)
}
