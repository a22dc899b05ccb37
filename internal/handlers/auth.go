package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"themepark-ticketing-platform/internal/middleware"
	"themepark-ticketing-platform/internal/services"
)

// AuthHandler handles registration, login and session management
type AuthHandler struct {
	users    *services.UserService
	store    sessions.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *services.UserService, store sessions.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.users.Register(req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.createSession(w, r, user.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("user registered", zap.Int("user_id", user.ID))
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.createSession(w, r, user.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.store.Get(r, middleware.SessionName)
	session.Options.MaxAge = -1
	delete(session.Values, "user_id")
	if err := session.Save(r, w); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "authentication required"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) createSession(w http.ResponseWriter, r *http.Request, userID int) error {
	session, _ := h.store.Get(r, middleware.SessionName)
	session.Values["user_id"] = userID
	return session.Save(r, w)
}
