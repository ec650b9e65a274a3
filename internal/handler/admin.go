package handler

import (
	"net/http"
	"strconv"

	"github.com/onegoal/onegoal/internal/ctxkeys"
	"github.com/onegoal/onegoal/internal/render"
	"github.com/onegoal/onegoal/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats()
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, err := h.adminService.Users(queryInt(q.Get("page")), queryInt(q.Get("limit")), q.Get("search"), q.Get("role"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, list)
}

func (h *AdminHandler) Goals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	list, err := h.adminService.Goals(queryInt(q.Get("page")), queryInt(q.Get("limit")), q.Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, list)
}

func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	var req struct {
		Role string `json:"role"`
	}
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.adminService.UpdateUserRole(admin.ID, r.PathValue("id"), req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user.PasswordHash = nil
	render.JSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	err := h.adminService.DeleteUser(admin.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "user deleted")
}

// queryInt returns 0 for missing or malformed values; the service applies defaults.
func queryInt(value string) int {
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return i
}
