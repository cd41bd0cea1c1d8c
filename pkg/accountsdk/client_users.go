package accountsdk

import (
	"context"
	"net/http"
)

// Register creates a new account. No token is required.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	var user UserResponse
	if err := c.do(ctx, http.MethodPost, "/v1/users", req, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the authenticated account.
func (c *Client) Me(ctx context.Context) (*UserResponse, error) {
	var user UserResponse
	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePhone changes the phone number, which resets its verification.
func (c *Client) UpdatePhone(ctx context.Context, phone string) (*UserResponse, error) {
	var user UserResponse
	if err := c.do(ctx, http.MethodPut, "/v1/me/phone", UpdatePhoneRequest{Phone: phone}, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestPhoneCode asks the service to issue and deliver a verification code.
func (c *Client) RequestPhoneCode(ctx context.Context) (*CodeIssuedResponse, error) {
	var issued CodeIssuedResponse
	if err := c.do(ctx, http.MethodPost, "/v1/me/phone/verification", nil, &issued, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &issued, nil
}

// ConfirmPhoneCode submits a verification code and returns the updated account.
func (c *Client) ConfirmPhoneCode(ctx context.Context, code string) (*UserResponse, error) {
	var user UserResponse
	if err := c.do(ctx, http.MethodPost, "/v1/me/phone/verification/confirm", ConfirmCodeRequest{Code: code}, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}
