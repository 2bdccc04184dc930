package handlers

import (
	"net/http"

	"github.com/courtside/padel-system/services"
)

type DrawHandler struct {
	drawService services.DrawService
}

func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{drawService: drawService}
}

func (h *DrawHandler) GetDrawHandler(w http.ResponseWriter, r *http.Request) {
	modalityID, err := getIDFromURL(r, "modalityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	draw, err := h.drawService.GetDraw(r.Context(), modalityID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"draw": draw}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
