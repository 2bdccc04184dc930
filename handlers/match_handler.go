package handlers

import (
	"net/http"

	"github.com/courtside/padel-system/models"
	"github.com/courtside/padel-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

type recordResultRequest struct {
	Winner models.Winner `json:"winner"`
}

func (h *MatchHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.RecordResult(r.Context(), matchID, input.Winner); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match_id": matchID, "winner": input.Winner}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
