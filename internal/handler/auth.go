package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/onegoal/onegoal/internal/config"
	"github.com/onegoal/onegoal/internal/ctxkeys"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/render"
	"github.com/onegoal/onegoal/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie  = "oauth_state"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type authHandler struct {
	authService       *service.AuthService
	googleOAuthConfig *oauth2.Config
	appURL            string
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: authService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/api/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		appURL: cfg.AppURL,
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.authService.Register(service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.startSession(w, r, http.StatusCreated, user)
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged in with password", "user_id", user.ID)
	h.startSession(w, r, http.StatusOK, user)
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	render.Message(w, http.StatusOK, "logged out")
}

func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, map[string]any{"user": ctxkeys.User(r.Context())})
}

func (h *authHandler) startSession(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, expiresAt, err := h.authService.GenerateJWT(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.authService.SetJWTCookie(w, token, expiresAt)
	user.PasswordHash = nil

	render.JSON(w, status, sessionResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// GoogleAuth redirects to the Google consent screen.
func (h *authHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	if h.googleOAuthConfig.ClientID == "" {
		render.Message(w, http.StatusNotFound, "google sign-in is not configured")
		return
	}

	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback finishes the OAuth flow and sends the browser back to the app
// with the session cookie set.
func (h *authHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("google oauth state validation failed", "error", err)
		render.Message(w, http.StatusBadRequest, "oauth authentication failed, please try again")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		render.Message(w, http.StatusBadRequest, "oauth authentication failed, please try again")
		return
	}

	token, err := h.googleOAuthConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		render.Message(w, http.StatusBadGateway, "oauth authentication failed, please try again")
		return
	}

	client := h.googleOAuthConfig.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		render.Message(w, http.StatusBadGateway, "oauth authentication failed, please try again")
		return
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		render.Message(w, http.StatusBadGateway, "oauth authentication failed, please try again")
		return
	}

	if !userInfo.VerifiedEmail {
		render.Message(w, http.StatusForbidden, "google account email is not verified")
		return
	}

	user, err := h.authService.AuthenticateOAuth(userInfo.Email, userInfo.GivenName, userInfo.FamilyName, model.AuthProviderGoogle)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jwtToken, expiresAt, err := h.authService.GenerateJWT(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, expiresAt)
	http.Redirect(w, r, strings.TrimSuffix(h.appURL, "/")+"/", http.StatusSeeOther)
}

func generateOAuthState() string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.URLEncoding.EncodeToString(b)
}
