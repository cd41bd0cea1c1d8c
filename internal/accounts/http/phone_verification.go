package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

type PhoneVerificationHandler struct {
	UserService         *service.UserService
	VerificationService *service.VerificationService
}

// HandleRequest issues a code for the account's phone.
//
//	@Summary		Request a phone verification code
//	@Description	Issues a new one-time code, replacing any earlier one, and hands it to the delivery channel. The code is never returned in the response.
//	@Tags			Phone Verification
//	@Security		BearerAuth
//	@Produce		json
//	@Success		202	{object}	accountsdk.CodeIssuedResponse	"Code issued"
//	@Failure		401	{object}	accountsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		409	{object}	accountsdk.ErrorResponse		"No phone number on file"
//	@Failure		429	{object}	accountsdk.ErrorResponse		"Rate limit exceeded"
//	@Router			/v1/me/phone/verification [post].
func (h *PhoneVerificationHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}

	vc, err := h.VerificationService.SendPhoneCode(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, accountsdk.CodeIssuedResponse{
		ExpiresAt:   vc.ExpiresAt,
		MaxAttempts: vc.MaxAttempts,
	})
}

// HandleConfirm checks a submitted code.
//
//	@Summary		Confirm a phone verification code
//	@Description	Validates the code. A correct code marks the phone verified. Each wrong code spends one attempt; expired or locked codes need a new code.
//	@Tags			Phone Verification
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ConfirmCodeRequest	true	"Submitted code"
//	@Success		200		{object}	accountsdk.UserResponse			"Phone verified"
//	@Failure		400		{object}	accountsdk.ErrorResponse		"Incorrect code, with attempts_remaining"
//	@Failure		404		{object}	accountsdk.ErrorResponse		"No code issued"
//	@Failure		409		{object}	accountsdk.ErrorResponse		"Code already used"
//	@Failure		410		{object}	accountsdk.ErrorResponse		"Code expired"
//	@Failure		423		{object}	accountsdk.ErrorResponse		"Too many attempts"
//	@Router			/v1/me/phone/verification/confirm [post].
func (h *PhoneVerificationHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}

	var req accountsdk.ConfirmCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if req.Code == "" {
		writeValidationError(w, "code is required", map[string]string{"code": "required"})
		return
	}

	if err := h.VerificationService.VerifyPhone(r.Context(), u.ID, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := h.UserService.GetUserByID(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(updated))
}
