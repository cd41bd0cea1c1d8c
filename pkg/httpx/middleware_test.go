package httpx_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRecover(t *testing.T) {
	h := httpx.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), `"error_description":"internal server error"`)

	t.Run("quotes request id", func(t *testing.T) {
		logged := slogx.HTTPMiddleware(slogx.Discard())(h)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(slogx.RequestIDHeader, "req-500")
		rec := httptest.NewRecorder()
		logged.ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "internal server error (request req-500)")
	})
}

type verifierFunc func(string) (jwtx.Claims, error)

func (f verifierFunc) Verify(raw string) (jwtx.Claims, error) { return f(raw) }

func TestAuthnMiddleware(t *testing.T) {
	v := verifierFunc(func(raw string) (jwtx.Claims, error) {
		if raw != "good" {
			return jwtx.Claims{}, errors.New("bad token")
		}
		return jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "acc-1"}}, nil
	})

	var seen string
	h := httpx.AuthnMiddleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpx.AccountID(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.code, rec.Code)
			if tc.code == http.StatusOK {
				require.Equal(t, "acc-1", seen)
			} else {
				require.Empty(t, seen)
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Email string `json:"email"`
	}

	decode := func(s string) (body, error) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(s))
		err := httpx.DecodeJSON(httptest.NewRecorder(), req, &b)
		return b, err
	}

	b, err := decode(`{"email":"a@b.test"}`)
	require.NoError(t, err)
	require.Equal(t, "a@b.test", b.Email)

	_, err = decode(`{"email":"a@b.test","admin":true}`)
	require.ErrorIs(t, err, httpx.ErrBadJSON)

	_, err = decode(`{"email":"a@b.test"}{}`)
	require.ErrorIs(t, err, httpx.ErrBadJSON)

	_, err = decode(string(bytes.Repeat([]byte("x"), httpx.MaxBodyBytes+1)))
	require.ErrorIs(t, err, httpx.ErrBadJSON)
}
