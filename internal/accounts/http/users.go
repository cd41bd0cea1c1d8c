package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleRegister creates an account.
//
//	@Summary		Register an account
//	@Description	Creates a new account. The email is normalised and must be unique. An empty password creates an account that cannot log in with a password.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	accountsdk.UserResponse		"Created account"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"Malformed body or invalid field"
//	@Failure		409		{object}	accountsdk.ErrorResponse	"Email or phone already registered"
//	@Failure		429		{object}	accountsdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.UserService.CreateUser(r.Context(), service.CreateUserParams{
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("account registered", "user_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleMe returns the authenticated account.
//
//	@Summary		Current account
//	@Description	Returns the account named by the bearer token.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.UserResponse		"Account"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Account is inactive"
//	@Router			/v1/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleUpdatePhone replaces the phone number.
//
//	@Summary		Change phone number
//	@Description	Replaces the phone number and resets its verification. Any outstanding verification code is discarded. An empty phone clears it.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.UpdatePhoneRequest	true	"New phone in E.164 format"
//	@Success		200		{object}	accountsdk.UserResponse			"Updated account"
//	@Failure		400		{object}	accountsdk.ErrorResponse		"Invalid phone"
//	@Failure		401		{object}	accountsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		409		{object}	accountsdk.ErrorResponse		"Phone already registered"
//	@Router			/v1/me/phone [put].
func (h *UsersHandler) HandleUpdatePhone(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}

	var req accountsdk.UpdatePhoneRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	updated, err := h.UserService.UpdatePhone(r.Context(), u.ID, req.Phone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(updated))
}
