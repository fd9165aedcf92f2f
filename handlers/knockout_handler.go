package handlers

import (
	"net/http"

	"github.com/Dosada05/matchday-engine/services"
	"github.com/go-chi/chi/v5"
)

type KnockoutHandler struct {
	knockoutService services.KnockoutService
}

func NewKnockoutHandler(knockoutService services.KnockoutService) *KnockoutHandler {
	return &KnockoutHandler{knockoutService: knockoutService}
}

func (h *KnockoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft services.KnockoutDraft
	if err := readJSON(w, r, &draft); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.knockoutService.CreateTournament(r.Context(), draft)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil)
}

func (h *KnockoutHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.knockoutService.ListTournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

func (h *KnockoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.knockoutService.GetTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

func (h *KnockoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.knockoutService.CancelTournament(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

func (h *KnockoutHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.knockoutService.GenerateBracket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

func (h *KnockoutHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.knockoutService.GetBracket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"bracket": rounds}, nil)
}

func (h *KnockoutHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	var req matchResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.knockoutService.SubmitMatchResult(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "fixtureID"),
		req.HomeScore, req.AwayScore, req.Events)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}
