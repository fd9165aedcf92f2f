package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/matchday-engine/models"
	"github.com/Dosada05/matchday-engine/repositories"
	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"
)

// RosterHandler manages the external team and player directory the engine
// reads lineups from.
type RosterHandler struct {
	rosterRepo repositories.RosterRepository
}

func NewRosterHandler(rosterRepo repositories.RosterRepository) *RosterHandler {
	return &RosterHandler{rosterRepo: rosterRepo}
}

func (h *RosterHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var team models.RosterTeam
	if err := readJSON(w, r, &team); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if team.Name == "" {
		badRequestResponse(w, r, errors.New("team name is required"))
		return
	}
	if team.ID == "" {
		team.ID = xid.New().String()
	}

	if err := h.rosterRepo.SaveTeam(r.Context(), &team); err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil)
}

func (h *RosterHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var player models.RosterPlayer
	if err := readJSON(w, r, &player); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if player.Name == "" {
		badRequestResponse(w, r, errors.New("player name is required"))
		return
	}
	if player.ID == "" {
		player.ID = xid.New().String()
	}

	if err := h.rosterRepo.SavePlayer(r.Context(), &player); err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil)
}

func (h *RosterHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.rosterRepo.ListTeams(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil)
}

func (h *RosterHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.rosterRepo.GetTeamByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repositories.ErrRosterTeamNotFound) {
			notFoundResponse(w, r)
			return
		}
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil)
}

func (h *RosterHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.rosterRepo.GetPlayerByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repositories.ErrRosterPlayerNotFound) {
			notFoundResponse(w, r)
			return
		}
		serverErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil)
}
