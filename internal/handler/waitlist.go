package handler

import (
	"net/http"

	"github.com/onegoal/onegoal/internal/render"
	"github.com/onegoal/onegoal/internal/service"
)

type waitlistHandler struct {
	waitlistService *service.WaitlistService
}

func NewWaitlistHandler(waitlistService *service.WaitlistService) *waitlistHandler {
	return &waitlistHandler{waitlistService: waitlistService}
}

func (h *waitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, err = h.waitlistService.Join(req.Email, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *waitlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.waitlistService.Entries()
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"waitlist": entries})
}

func (h *waitlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.waitlistService.Remove(r.PathValue("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
