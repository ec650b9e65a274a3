package handler

import (
	"net/http"
	"time"

	"github.com/onegoal/onegoal/internal/ctxkeys"
	"github.com/onegoal/onegoal/internal/render"
	"github.com/onegoal/onegoal/internal/service"
	"github.com/onegoal/onegoal/internal/validation"
)

type GoalHandler struct {
	goalService   *service.GoalService
	exportService *service.ExportService
}

func NewGoalHandler(goalService *service.GoalService, exportService *service.ExportService) *GoalHandler {
	return &GoalHandler{
		goalService:   goalService,
		exportService: exportService,
	}
}

type goalRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Progress    *int    `json:"progress"`
	Status      *string `json:"status"`
}

func (req goalRequest) deadline() (*time.Time, error) {
	if req.Deadline == nil {
		return nil, nil
	}
	deadline, err := validation.ParseDate(*req.Deadline)
	if err != nil {
		return nil, &service.ValidationError{Field: "deadline", Message: err.Error()}
	}
	return &deadline, nil
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	deadline, err := req.deadline()
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := service.GoalInput{}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if deadline != nil {
		in.Deadline = *deadline
	}

	goal, err := h.goalService.Create(user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, map[string]any{"success": true, "goal": goal})
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.Goals(user.ID, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(goals),
		"goals":   goals,
	})
}

// Active answers with a null goal when the user has none.
func (h *GoalHandler) Active(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ActiveGoal(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	deadline, err := req.deadline()
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Update(user.ID, r.PathValue("id"), service.GoalUpdate{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline,
		Progress:    req.Progress,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})
}

func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.Complete(user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})
}

func (h *GoalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.Archive(user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"success": true, "goal": goal})
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "goal deleted"})
}

// Export downloads the goal with its full check-in history.
func (h *GoalHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	export, err := h.exportService.Export(user.ID, goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Attachment(w, "goal-"+goalID+".json", export)
}

// Snapshot stores the export in object storage and returns a download link.
func (h *GoalHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	snapshot, err := h.exportService.Snapshot(user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, snapshot)
}
