package server

import (
	"net/http"

	"github.com/jonathan/careerpage/internal/server/middleware"
	"github.com/jonathan/careerpage/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	responder
	userService *UserService
	jwtService  *JWTService
	gate        *middleware.Gate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, gate *middleware.Gate, rs responder) *AuthHandler {
	return &AuthHandler{
		responder:   rs,
		userService: userService,
		jwtService:  jwtService,
		gate:        gate,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.issueSession(w, r, user, http.StatusCreated)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.issueSession(w, r, user, http.StatusOK)
}

// Logout clears the session cookie. It succeeds with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.gate.ClearSessionCookie(w)
	h.jsonResponse(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the calling user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, user)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, user *types.User, status int) {
	token, err := h.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.gate.SetSessionCookie(w, token, h.jwtService.TTL())
	h.jsonResponse(w, status, types.LoginResponse{
		User:  user,
		Token: token,
	})
}
