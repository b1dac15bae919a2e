package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/foodyham/internal/api/middleware"
	"github.com/example/foodyham/internal/auth"
	"github.com/example/foodyham/internal/domain/ident"
	"github.com/example/foodyham/internal/domain/user"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	repo       *Repository
	jwtService *auth.JWTService
}

func NewAuthHandlers(repo *Repository, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		repo:       repo,
		jwtService: jwtService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// authPayload is the identity with its bearer token alongside
type authPayload struct {
	user.Identity
	Token string `json:"token"`
}

// Register handles user registration
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		respondJSONError(w, "Name and email are required", http.StatusBadRequest)
		return
	}

	identity, err := h.repo.CreateUser(user.Identity{Name: strings.TrimSpace(req.Name), Email: req.Email}, req.Password)
	switch {
	case errors.Is(err, auth.ErrPasswordTooShort):
		respondJSONError(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	case errors.Is(err, ErrEmailTaken):
		respondJSONError(w, "Email already registered", http.StatusBadRequest)
		return
	case err != nil:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	log.Printf("[StubAPI] Registered %s", identity.Email)
	h.respondWithToken(w, http.StatusCreated, identity)
}

// Login handles user login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity, ok := h.repo.Authenticate(req.Email, req.Password)
	if !ok {
		respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	h.respondWithToken(w, http.StatusOK, identity)
}

// Me returns the caller's identity
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.repo.User(ident.ID(middleware.GetUserID(r.Context())))
	if !ok {
		respondJSONError(w, "User not found", http.StatusNotFound)
		return
	}
	respondData(w, http.StatusOK, identity)
}

// UpdateProfile applies a profile patch for the caller
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch user.ProfilePatch
	if err := decodeBody(r, &patch); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity, err := h.repo.UpdateProfile(ident.ID(middleware.GetUserID(r.Context())), patch)
	switch {
	case errors.Is(err, ErrEmailTaken):
		respondJSONError(w, "Email already in use", http.StatusBadRequest)
		return
	case errors.Is(err, ErrUserNotFound):
		respondJSONError(w, "User not found", http.StatusNotFound)
		return
	case err != nil:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Profile updated successfully",
		"data":    identity,
	})
}

// ChangePassword handles password change for the caller
func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	changed, err := h.repo.ChangePassword(ident.ID(middleware.GetUserID(r.Context())), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrPasswordTooShort):
		respondJSONError(w, "New password must be at least 6 characters", http.StatusBadRequest)
		return
	case errors.Is(err, ErrUserNotFound):
		respondJSONError(w, "User not found", http.StatusNotFound)
		return
	case err != nil:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	case !changed:
		respondJSONError(w, "Current password is incorrect", http.StatusBadRequest)
		return
	}
	respondMessage(w, http.StatusOK, "Password updated successfully")
}

func (h *AuthHandlers) respondWithToken(w http.ResponseWriter, status int, identity user.Identity) {
	token, _, err := h.jwtService.Issue(identity)
	if err != nil {
		respondJSONError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}
	respondData(w, status, authPayload{Identity: identity, Token: token})
}
