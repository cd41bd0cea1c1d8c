package http

import (
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
)

type AddressesHandler struct {
	UserService    *service.UserService
	AddressService *service.AddressService
}

// HandleList lists the account's addresses.
//
//	@Summary		List addresses
//	@Description	Lists the account's addresses, defaults first. Filter with type=B (billing) or type=S (shipping).
//	@Tags			Addresses
//	@Security		BearerAuth
//	@Produce		json
//	@Param			type	query		string							false	"Address type"	Enums(B, S)
//	@Success		200		{object}	accountsdk.ListAddressesResponse	"Addresses"
//	@Failure		400		{object}	accountsdk.ErrorResponse			"Unknown address type"
//	@Failure		401		{object}	accountsdk.ErrorResponse			"Invalid or missing access token"
//	@Router			/v1/me/addresses [get].
func (h *AddressesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}

	var typ *domain.AddressType
	if q := r.URL.Query().Get("type"); q != "" {
		t := domain.AddressType(q)
		typ = &t
	}

	addrs, err := h.AddressService.List(r.Context(), u.ID, typ)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := accountsdk.ListAddressesResponse{
		Addresses: make([]accountsdk.AddressResponse, len(addrs)),
	}
	for i, a := range addrs {
		resp.Addresses[i] = toAddressResponse(a)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate stores a new address.
//
//	@Summary		Create an address
//	@Description	Stores a new address. When default is set, any other default of the same type is cleared.
//	@Tags			Addresses
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.AddressRequest	true	"Address"
//	@Success		201		{object}	accountsdk.AddressResponse	"Created address"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"Invalid address"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/me/addresses [post].
func (h *AddressesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}

	var req accountsdk.AddressRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	a := fromAddressRequest(req, u.ID, "")
	if err := h.AddressService.DemoteOthersThenWrite(r.Context(), &a); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAddressResponse(a))
}

// HandleGet returns one address.
//
//	@Summary		Get an address
//	@Tags			Addresses
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Address ID"
//	@Success		200	{object}	accountsdk.AddressResponse	"Address"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"Address not found"
//	@Router			/v1/me/addresses/{id} [get].
func (h *AddressesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}

	a, err := h.AddressService.Get(r.Context(), u.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAddressResponse(a))
}

// HandleUpdate replaces an address.
//
//	@Summary		Replace an address
//	@Description	Overwrites every field of the address. When default is set, any other default of the same type is cleared.
//	@Tags			Addresses
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Address ID"
//	@Param			request	body		accountsdk.AddressRequest	true	"Address"
//	@Success		200		{object}	accountsdk.AddressResponse	"Updated address"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"Invalid address"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404		{object}	accountsdk.ErrorResponse	"Address not found"
//	@Router			/v1/me/addresses/{id} [put].
func (h *AddressesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}

	var req accountsdk.AddressRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	a := fromAddressRequest(req, u.ID, r.PathValue("id"))
	if err := h.AddressService.DemoteOthersThenWrite(r.Context(), &a); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAddressResponse(a))
}

// HandleSetDefault makes an address the default of its type.
//
//	@Summary		Make an address the default
//	@Tags			Addresses
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Address ID"
//	@Success		200	{object}	accountsdk.AddressResponse	"Default address"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"Address not found"
//	@Router			/v1/me/addresses/{id}/default [post].
func (h *AddressesHandler) HandleSetDefault(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}

	a, err := h.AddressService.SetDefault(r.Context(), u.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAddressResponse(a))
}

// HandleDelete removes an address.
//
//	@Summary		Delete an address
//	@Tags			Addresses
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Address ID"
//	@Success		204
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"Address not found"
//	@Router			/v1/me/addresses/{id} [delete].
func (h *AddressesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := currentUser(w, r, h.UserService)
	if !ok {
		return
	}

	if err := h.AddressService.Delete(r.Context(), u.ID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func fromAddressRequest(req accountsdk.AddressRequest, userID, id string) domain.Address {
	return domain.Address{
		ID:          id,
		UserID:      userID,
		AddressType: domain.AddressType(req.AddressType),
		Default:     req.Default,
		Country:     req.Country,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Street1:     req.Street1,
		Street2:     req.Street2,
		Region:      req.Region,
		City:        req.City,
		PostalCode:  req.PostalCode,
	}
}

func toAddressResponse(a domain.Address) accountsdk.AddressResponse {
	return accountsdk.AddressResponse{
		ID:          a.ID,
		AddressType: string(a.AddressType),
		Default:     a.Default,
		Country:     a.Country,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Phone:       a.Phone,
		Street1:     a.Street1,
		Street2:     a.Street2,
		Region:      a.Region,
		City:        a.City,
		PostalCode:  a.PostalCode,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
