/*
Package accountsdk provides a client SDK for the accounts service.

# Overview

The package carries the request and response types shared with the HTTP
handlers, and a Client that speaks to a running service:

	client := accountsdk.NewClient("http://localhost:8080")

	// Public endpoints
	health, err := client.Livez(ctx)
	user, err := client.Register(ctx, accountsdk.RegisterRequest{
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})

Endpoints under /v1/me need a bearer token issued by the identity provider
whose JWKS the service trusts:

	me := client.WithToken(accessToken)

	profile, err := me.Me(ctx)
	issued, err := me.RequestPhoneCode(ctx)
	profile, err = me.ConfirmPhoneCode(ctx, "123456")

# Errors

Non-success responses come back as *APIError. Use errors.As to inspect the
code, or IsCode for a quick check:

	_, err := me.ConfirmPhoneCode(ctx, guess)
	var apiErr *accountsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == accountsdk.ErrorCodeInvalidCode {
		fmt.Println("attempts left:", *apiErr.AttemptsRemaining)
	}
*/
package accountsdk
