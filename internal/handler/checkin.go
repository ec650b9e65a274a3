package handler

import (
	"net/http"

	"github.com/onegoal/onegoal/internal/ctxkeys"
	"github.com/onegoal/onegoal/internal/render"
	"github.com/onegoal/onegoal/internal/service"
)

type checkInHandler struct {
	checkInService *service.CheckInService
}

func NewCheckInHandler(checkInService *service.CheckInService) *checkInHandler {
	return &checkInHandler{checkInService: checkInService}
}

type checkInRequest struct {
	GoalID   string `json:"goalId"`
	Progress *int   `json:"progress"`
	Note     string `json:"note"`
	Mood     string `json:"mood"`
}

func (h *checkInHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req checkInRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.GoalID == "" {
		render.FieldError(w, "goalId", "goal is required")
		return
	}

	checkIn, created, err := h.checkInService.Submit(user.ID, service.CheckInInput{
		GoalID:   req.GoalID,
		Progress: req.Progress,
		Note:     req.Note,
		Mood:     req.Mood,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Check-in updated"
	if created {
		message = "Check-in created"
	}
	render.JSON(w, http.StatusOK, map[string]any{"message": message, "checkIn": checkIn})
}

func (h *checkInHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	checkIns, err := h.checkInService.CheckIns(user.ID, r.PathValue("goalId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"checkIns": checkIns})
}

func (h *checkInHandler) Today(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	today, err := h.checkInService.Today(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, today)
}

func (h *checkInHandler) Streak(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	streak, err := h.checkInService.Streak(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]int{"streak": streak})
}

func (h *checkInHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	stats, err := h.checkInService.Stats(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, stats)
}
