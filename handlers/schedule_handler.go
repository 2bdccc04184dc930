package handlers

import (
	"net/http"

	"github.com/courtside/padel-system/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
	drawService     services.DrawService
}

func NewScheduleHandler(scheduleService services.ScheduleService, drawService services.DrawService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, drawService: drawService}
}

func (h *ScheduleHandler) GenerateSlotsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.scheduleService.GenerateSlots(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"slots": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type slotAssignmentRequest struct {
	SlotID int `json:"slot_id"`
}

func (h *ScheduleHandler) AssignMatchToSlotHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input slotAssignmentRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scheduleService.AssignMatchToSlot(r.Context(), matchID, input.SlotID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match_id": matchID, "slot_id": input.SlotID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) RescheduleMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input slotAssignmentRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scheduleService.RescheduleMatch(r.Context(), matchID, input.SlotID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match_id": matchID, "slot_id": input.SlotID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) DailyScheduleHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	days, err := h.drawService.GetDailySchedule(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"schedule": days}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
