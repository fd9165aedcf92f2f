package handlers

import (
	"net/http"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/services"
	"github.com/go-chi/chi/v5"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(leagueService services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: leagueService}
}

type matchResultRequest struct {
	HomeScore int                 `json:"home_score"`
	AwayScore int                 `json:"away_score"`
	Events    []models.MatchEvent `json:"events,omitempty"`
}

func (h *LeagueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft services.LeagueDraft
	if err := readJSON(w, r, &draft); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.leagueService.CreateTournament(r.Context(), draft)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil)
}

func (h *LeagueHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.leagueService.ListTournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

func (h *LeagueHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.leagueService.GetTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

func (h *LeagueHandler) Start(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.leagueService.StartTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

func (h *LeagueHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.leagueService.CancelTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

// SubmitResult records a final score for a fixture directly, without a live
// session. Used for matches played offline.
func (h *LeagueHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var req matchResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.leagueService.SubmitMatchResult(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "fixtureID"),
		req.HomeScore, req.AwayScore, req.Events)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

func (h *LeagueHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	teams, err := h.leagueService.GetTable(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tableID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"standings": teams}, nil)
}

func (h *LeagueHandler) GetUpcomingFixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := h.leagueService.GetUpcomingFixtures(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"fixtures": fixtures}, nil)
}

func (h *LeagueHandler) GetCompletedFixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := h.leagueService.GetCompletedFixtures(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"fixtures": fixtures}, nil)
}

func (h *LeagueHandler) GetAdvancingTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.leagueService.GetAdvancingTeams(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"advancing": teams}, nil)
}
