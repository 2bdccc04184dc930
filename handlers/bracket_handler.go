package handlers

import (
	"net/http"

	"github.com/courtside/padel-system/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

func (h *BracketHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	modalityID, err := getIDFromURL(r, "modalityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.bracketService.GenerateBracket(r.Context(), modalityID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type generateGroupsRequest struct {
	Groups int `json:"groups"`
}

func (h *BracketHandler) GenerateGroupsHandler(w http.ResponseWriter, r *http.Request) {
	modalityID, err := getIDFromURL(r, "modalityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input generateGroupsRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.bracketService.GenerateGroups(r.Context(), modalityID, input.Groups)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"groups": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type generatePlayoffRequest struct {
	// Qualifiers are ordered by their group standings, best first; that
	// order is the playoff seeding.
	QualifierTeamIDs []int `json:"qualifier_team_ids"`
}

func (h *BracketHandler) GeneratePlayoffHandler(w http.ResponseWriter, r *http.Request) {
	modalityID, err := getIDFromURL(r, "modalityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input generatePlayoffRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.bracketService.GeneratePlayoff(r.Context(), modalityID, input.QualifierTeamIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"playoff": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type generateConsolationRequest struct {
	EntryTeamIDs []int `json:"entry_team_ids"`
}

func (h *BracketHandler) GenerateConsolationHandler(w http.ResponseWriter, r *http.Request) {
	modalityID, err := getIDFromURL(r, "modalityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Body is optional: absent entries default to the first-round losers.
	var input generateConsolationRequest
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	summary, err := h.bracketService.GenerateMirrorBracket(r.Context(), modalityID, input.EntryTeamIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"consolation": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) ClearBracketHandler(w http.ResponseWriter, r *http.Request) {
	modalityID, err := getIDFromURL(r, "modalityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bracketService.ClearBracket(r.Context(), modalityID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
