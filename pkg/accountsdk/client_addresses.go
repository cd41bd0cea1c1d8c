package accountsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListAddresses returns the account's addresses. addressType filters by
// type when non-empty.
func (c *Client) ListAddresses(ctx context.Context, addressType string) ([]AddressResponse, error) {
	path := "/v1/me/addresses"
	if addressType != "" {
		path += "?" + url.Values{"type": {addressType}}.Encode()
	}

	var list ListAddressesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return list.Addresses, nil
}

// CreateAddress stores a new address.
func (c *Client) CreateAddress(ctx context.Context, req AddressRequest) (*AddressResponse, error) {
	var addr AddressResponse
	if err := c.do(ctx, http.MethodPost, "/v1/me/addresses", req, &addr, http.StatusCreated); err != nil {
		return nil, err
	}
	return &addr, nil
}

// GetAddress returns one address.
func (c *Client) GetAddress(ctx context.Context, id string) (*AddressResponse, error) {
	var addr AddressResponse
	if err := c.do(ctx, http.MethodGet, "/v1/me/addresses/"+url.PathEscape(id), nil, &addr, http.StatusOK); err != nil {
		return nil, err
	}
	return &addr, nil
}

// UpdateAddress replaces an address.
func (c *Client) UpdateAddress(ctx context.Context, id string, req AddressRequest) (*AddressResponse, error) {
	var addr AddressResponse
	if err := c.do(ctx, http.MethodPut, "/v1/me/addresses/"+url.PathEscape(id), req, &addr, http.StatusOK); err != nil {
		return nil, err
	}
	return &addr, nil
}

// SetDefaultAddress makes an address the default of its type.
func (c *Client) SetDefaultAddress(ctx context.Context, id string) (*AddressResponse, error) {
	var addr AddressResponse
	if err := c.do(ctx, http.MethodPost, "/v1/me/addresses/"+url.PathEscape(id)+"/default", nil, &addr, http.StatusOK); err != nil {
		return nil, err
	}
	return &addr, nil
}

// DeleteAddress removes an address.
func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/me/addresses/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}
