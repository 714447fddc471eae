package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/openlearnco/campus/internal/auth/service"
	"github.com/openlearnco/campus/pkg/httpx"
	"github.com/openlearnco/campus/pkg/slogx"
)

// MFAHandler serves TOTP enrollment and lifecycle for the logged in user.
type MFAHandler struct {
	MFAService *service.MFAService
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

// HandleEnroll godoc
//
//	@Summary		Enroll TOTP
//	@Description	Generates a TOTP secret and provisioning URL for the current user. MFA is not enforced until the code is verified via activate.
//	@Tags			MFA
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	domain.MFAEnrollment	"secret, otpauth_url, issuer, account"
//	@Failure		401	{object}	ErrorResponse			"error, error_description"
//	@Failure		409	{object}	ErrorResponse			"error, error_description"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_token", "no authenticated principal")
		return
	}

	enrollment, err := h.MFAService.Enroll(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, service.ErrMFAAlreadyActive) {
			httpx.WriteError(w, http.StatusConflict,
				"mfa_already_active", "MFA is already active on this account")
			return
		}
		log.Error("mfa enrollment failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, enrollment)
}

// HandleActivate godoc
//
//	@Summary		Activate TOTP
//	@Description	Verifies a TOTP code against the pending secret and turns MFA on for future logins.
//	@Tags			MFA
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body	object{code=string}	true	"Six digit TOTP code"
//	@Success		204		"MFA activated"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		401		{object}	ErrorResponse	"error, error_description"
//	@Router			/v1/mfa/totp/activate [post].
func (h *MFAHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	h.withCode(w, r, h.MFAService.Activate)
}

// HandleDisable godoc
//
//	@Summary		Disable TOTP
//	@Description	Turns MFA off. A currently valid TOTP code must be presented.
//	@Tags			MFA
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body	object{code=string}	true	"Six digit TOTP code"
//	@Success		204		"MFA disabled"
//	@Failure		400		{object}	ErrorResponse	"error, error_description"
//	@Failure		401		{object}	ErrorResponse	"error, error_description"
//	@Router			/v1/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	h.withCode(w, r, h.MFAService.Disable)
}

func (h *MFAHandler) withCode(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, userID int64, code string) error,
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized,
			"invalid_token", "no authenticated principal")
		return
	}

	var req mfaCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "code is required")
		return
	}

	if err := fn(ctx, principal.UserID, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTOTPCode):
			httpx.WriteError(w, http.StatusBadRequest,
				"invalid_otp", "the TOTP code is incorrect")
		case errors.Is(err, service.ErrMFANotEnrolled):
			httpx.WriteError(w, http.StatusBadRequest,
				"mfa_not_enrolled", "no TOTP secret is enrolled on this account")
		case errors.Is(err, service.ErrMFAAlreadyActive):
			httpx.WriteError(w, http.StatusConflict,
				"mfa_already_active", "MFA is already active on this account")
		default:
			log.Error("mfa operation failed", "err", err)
			writeServerError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
