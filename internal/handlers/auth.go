package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sarcolor/backend/internal/apperrors"
	"github.com/sarcolor/backend/internal/handlers/render"
	"github.com/sarcolor/backend/internal/models"
	"github.com/sarcolor/backend/internal/service/auth"
)

// Auth service as handlers see it
type AuthService interface {
	// Register user. Has to return apperrors.ErrUserAlreadyExists on
	// username or email collision
	Register(ctx context.Context, username string, email string, password string) (models.User, error)

	// Login user. Has to return apperrors.ErrInvalidCredentials for unknown
	// username and wrong password both, apperrors.ErrUserInactive for a
	// disabled account
	Login(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Rotate the token pair using a refresh token
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)

	// Manager for the refresh cookie
	Cookie() auth.CookieManager
}

type AuthHandler struct {
	authService AuthService
}

func NewAuth(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /refresh", h.refresh)

	return mux
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Only the access token travels in the body; the refresh token is cookie
// bound so scripts never see it
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	// No length rules beyond presence: any non-empty username and password
	// are accepted, only the email shape is checked
	type RegisterRequest struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		// Consider to log errors here
		return
	}

	user, err := h.authService.Register(r.Context(), data.Username, data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Username or email already registered", http.StatusBadRequest)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}, http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		// Consider to log errors here
		return
	}

	pair, err := h.authService.Login(r.Context(), data.Username, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Invalid username or password", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrUserInactive):
			render.ServiceError(w, "User account is inactive", http.StatusForbidden)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.authService.Cookie().Attach(w, pair.Refresh.Value)
	render.JSON(w, tokenResponse{AccessToken: pair.Access.Value, TokenType: "bearer"})
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	refresh, err := h.authService.Cookie().Read(r)
	if err != nil {
		render.ServiceError(w, "Refresh token not found", http.StatusUnauthorized)
		return
	}

	pair, err := h.authService.Refresh(r.Context(), refresh)
	if err != nil {
		// Every refresh failure is 401: the caller holds no valid session
		render.ServiceError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	h.authService.Cookie().Attach(w, pair.Refresh.Value)
	render.JSON(w, tokenResponse{AccessToken: pair.Access.Value, TokenType: "bearer"})
}
