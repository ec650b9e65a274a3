package handler

import (
	"context"
	"net/http"

	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/render"
	"github.com/onegoal/onegoal/internal/service"
)

// notificationHandler lets admins run a notification batch on demand.
type notificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *notificationHandler {
	return &notificationHandler{notificationService: notificationService}
}

func (h *notificationHandler) CheckInReminders(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.notificationService.RunCheckInReminders)
}

func (h *notificationHandler) StreakMilestones(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.notificationService.RunStreakMilestoneCheck)
}

func (h *notificationHandler) DeadlineWarnings(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.notificationService.RunDeadlineWarnings)
}

func (h *notificationHandler) run(w http.ResponseWriter, r *http.Request, batch func(context.Context) (*model.BatchResult, error)) {
	result, err := batch(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"success": true, "result": result})
}
