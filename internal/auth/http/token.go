package http

import (
	"errors"
	"net/http"

	"github.com/openlearnco/campus/internal/auth/service"
	"github.com/openlearnco/campus/pkg/httpx"
	"github.com/openlearnco/campus/pkg/slogx"
)

// TokenHandler serves the token endpoints: obtain, refresh, and blacklist.
type TokenHandler struct {
	TokenService *service.TokenService
}

// TokenResponse carries a freshly minted pair back to the client.
type TokenResponse struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code,omitempty"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// HandleLogin godoc
//
//	@Summary		Obtain Token Pair
//	@Description	Exchanges a username and password (plus a TOTP code when MFA is active) for an access and refresh token pair.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{username=string,password=string,otp_code=string}	true	"Credentials"
//	@Success		200		{object}	TokenResponse	"access, refresh, token_type, expires_in"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		401		{object}	ErrorResponse	"error, error_description"
//	@Router			/v1/token [post].
func (h *TokenHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "username and password are required")
		return
	}

	pair, err := h.TokenService.Login(ctx, req.Username, req.Password, req.OTPCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized,
				"invalid_credentials", "username or password is incorrect")
		case errors.Is(err, service.ErrMFACodeRequired):
			httpx.WriteError(w, http.StatusUnauthorized,
				"mfa_code_required", "account requires a TOTP code to log in")
		case errors.Is(err, service.ErrInvalidOTP):
			httpx.WriteError(w, http.StatusUnauthorized,
				"invalid_otp", "the TOTP code is incorrect")
		default:
			log.Error("login failed", "err", err)
			writeServerError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		Access:    pair.AccessToken,
		Refresh:   pair.RefreshToken,
		TokenType: pair.TokenType,
		ExpiresIn: int(pair.ExpiresIn.Seconds()),
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh Token Pair
//	@Description	Rotates a refresh token. The presented token is revoked and a brand new pair is returned.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{refresh=string}	true	"Refresh token"
//	@Success		200		{object}	TokenResponse	"access, refresh, token_type, expires_in"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		401		{object}	ErrorResponse	"error, error_description"
//	@Router			/v1/token/refresh [post].
func (h *TokenHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Refresh == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "refresh token is required")
		return
	}

	pair, err := h.TokenService.Refresh(ctx, req.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteError(w, http.StatusUnauthorized,
				"invalid_refresh_token", "refresh token is invalid, expired, or revoked")
			return
		}
		log.Error("token refresh failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		Access:    pair.AccessToken,
		Refresh:   pair.RefreshToken,
		TokenType: pair.TokenType,
		ExpiresIn: int(pair.ExpiresIn.Seconds()),
	})
}

// HandleBlacklist godoc
//
//	@Summary		Blacklist Refresh Token
//	@Description	Revokes a refresh token ahead of its expiry, for example on logout. Revoking an already revoked token succeeds.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			request	body	object{refresh=string}	true	"Refresh token"
//	@Success		204		"token revoked"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		401		{object}	ErrorResponse	"error, error_description"
//	@Router			/v1/token/blacklist [post].
func (h *TokenHandler) HandleBlacklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Refresh == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "refresh token is required")
		return
	}

	if err := h.TokenService.Blacklist(ctx, req.Refresh); err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteError(w, http.StatusUnauthorized,
				"invalid_refresh_token", "refresh token is invalid or expired")
			return
		}
		log.Error("token blacklist failed", "err", err)
		writeServerError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
