package handler

import (
	"net/http"

	"github.com/onegoal/onegoal/internal/ctxkeys"
	"github.com/onegoal/onegoal/internal/render"
	"github.com/onegoal/onegoal/internal/service"
)

type userHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewUserHandler(authService *service.AuthService, userService *service.UserService) *userHandler {
	return &userHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *userHandler) Profile(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, map[string]any{"user": ctxkeys.User(r.Context())})
}

func (h *userHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, req.FirstName, req.LastName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated.PasswordHash = nil
	render.JSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (h *userHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.userService.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "password updated")
}

func (h *userHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Password string `json:"password"`
	}
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.userService.DeleteAccount(user.ID, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.authService.ClearJWTCookie(w)
	render.Message(w, http.StatusOK, "account deleted")
}
