// Package http wires the pipeline's query surface to chi routes. Handlers
// are thin: decode, gate by role, call the service, render.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "gradepulse/internal/errors"
	"gradepulse/internal/roster"
	"gradepulse/internal/services"
)

// LoginRequest is the credential payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued session token. The password is never
// echoed back.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	service  *services.AuthService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service *services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With(slog.String("handler", "auth")),
	}
}

// Routes returns the auth routes.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/login", h.Login)
	return r
}

// Login handles POST /api/auth/login. Unknown users and wrong passwords get
// byte-identical rejections.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.ErrInvalidRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Render(w, r, apierrors.ErrValidation("credentials", "username and password are required"))
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, roster.ErrInvalidCredentials) {
			render.Render(w, r, apierrors.ErrInvalidCredentials)
			return
		}
		h.logger.ErrorContext(r.Context(), "login failed",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}

	render.JSON(w, r, LoginResponse{
		Token:    token,
		Username: user.Username,
		Role:     string(user.Role),
	})
}
