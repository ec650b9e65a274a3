package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const AuthCookieName = "auth_token"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("user already exists with this email")
	ErrOAuthAccount       = errors.New("this account signs in with Google, please use Google login")
	ErrInvalidToken       = errors.New("invalid token")
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepository repository.UserRepository
	mailer         Mailer
	clock          Clock
	jwtSecret      string
	jwtExpiry      time.Duration
	isProduction   bool
}

func NewAuthService(
	userRepository repository.UserRepository,
	mailer Mailer,
	clock Clock,
	jwtSecret string,
	jwtExpiry time.Duration,
	isProduction bool,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		mailer:         mailer,
		clock:          clock,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
		isProduction:   isProduction,
	}
}

func (s *AuthService) Register(in RegisterInput) (*model.User, error) {
	email := validation.NormalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)

	err := validationError("email", validation.ValidateEmail(email))
	if err != nil {
		return nil, err
	}
	err = validationError("firstName", validation.ValidateName(firstName))
	if err != nil {
		return nil, err
	}
	err = validationError("lastName", validation.ValidateName(lastName))
	if err != nil {
		return nil, err
	}
	err = validationError("password", validation.ValidatePassword(in.Password))
	if err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		Name:         firstName + " " + lastName,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         model.RoleUser,
		AuthProvider: model.AuthProviderEmail,
		LastLoginAt:  &now,
		CreatedAt:    now,
	}

	err = s.userRepository.Create(user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.mailer != nil {
		err = s.mailer.SendWelcome(user.Email, user.FirstName)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrOAuthAccount
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	s.touchLastLogin(user)
	return user, nil
}

// AuthenticateOAuth signs in a user verified by an OAuth provider, creating
// the account on first login.
func (s *AuthService) AuthenticateOAuth(email, firstName, lastName, provider string) (*model.User, error) {
	email = validation.NormalizeEmail(email)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, &ValidationError{Field: "email", Message: err.Error()}
	}

	user, err := s.userRepository.ByEmail(email)
	if err == nil {
		s.touchLastLogin(user)
		slog.Info("user authenticated via oauth", "user_id", user.ID, "provider", provider)
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to lookup user: %w", err)
	}

	now := s.clock.Now()
	user = &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(firstName + " " + lastName),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         model.RoleUser,
		AuthProvider: provider,
		LastLoginAt:  &now,
		CreatedAt:    now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.mailer != nil {
		err = s.mailer.SendWelcome(user.Email, user.DisplayName())
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}

	slog.Info("new oauth user created", "user_id", user.ID, "provider", provider)
	return user, nil
}

func (s *AuthService) touchLastLogin(user *model.User) {
	now := s.clock.Now()
	err := s.userRepository.TouchLastLogin(user.ID, now)
	if err != nil {
		slog.Warn("failed to update last login", "error", err, "user_id", user.ID)
		return
	}
	user.LastLoginAt = &now
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.jwtExpiry)

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
