package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/openlearnco/campus/internal/auth/service"
	"github.com/openlearnco/campus/pkg/httpx"
	"github.com/openlearnco/campus/pkg/slogx"
)

// UsersHandler serves account registration and the authenticated profile.
type UsersHandler struct {
	UserService *service.UserService
}

// UserResponse is the public view of an account. Password material never
// leaves the service.
type UserResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	MFAEnabled bool      `json:"mfa_enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister godoc
//
//	@Summary		Register Account
//	@Description	Creates a new account. Usernames are unique; passwords must be at least eight characters.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{username=string,password=string}	true	"New account"
//	@Success		201		{object}	UserResponse	"id, username, mfa_enabled, created_at"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		409		{object}	ErrorResponse	"error, error_description"
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.UserService.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidUsername):
			httpx.WriteError(w, http.StatusBadRequest,
				"invalid_username", "username is blank or too long")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest,
				"weak_password", "password must be at least 8 characters")
		case errors.Is(err, service.ErrUsernameTaken):
			httpx.WriteError(w, http.StatusConflict,
				"username_taken", "an account with this username already exists")
		default:
			log.Error("user registration failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		MFAEnabled: user.MFAActive(),
		CreatedAt:  user.CreatedAt,
	})
}

// HandleMe godoc
//
//	@Summary		Current Account
//	@Description	Returns the account behind the presented access token.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	UserResponse	"id, username, mfa_enabled, created_at"
//	@Failure		401	{object}	ErrorResponse	"error, error_description"
//	@Router			/v1/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_token", "no authenticated principal")
		return
	}

	user, err := h.UserService.Get(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// Token is valid but the account is gone.
			httpx.WriteError(w, http.StatusUnauthorized,
				"invalid_token", "account no longer exists")
			return
		}
		log.Error("profile lookup failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		MFAEnabled: user.MFAActive(),
		CreatedAt:  user.CreatedAt,
	})
}
