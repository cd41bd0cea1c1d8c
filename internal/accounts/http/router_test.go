package http_test

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	accountshttp "github.com/aussiebroadwan/accounts/internal/accounts/http"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/settings"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://auth.example.test"
	testAudience = "accounts"
	testKID      = "test-key"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "accounts-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// captureSender keeps the last code handed off so tests can submit it.
type captureSender struct {
	mu   sync.Mutex
	last domain.VerificationCode
}

func (s *captureSender) SendCode(_ context.Context, _ domain.User, c domain.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = c
	return nil
}

func (s *captureSender) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.Code
}

type testEnv struct {
	handler http.Handler
	users   *service.UserService
	sender  *captureSender
	priv    ed25519.PrivateKey
}

func newTestEnv(t *testing.T, keys *jwtx.KeySet) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	if keys == nil {
		keys = jwtx.NewKeySet()
		require.NoError(t, keys.AddJWK(jwtx.NewEd25519JWK(testKID, pub)))
	}
	verifier := jwtx.NewVerifier(keys, jwtx.VerifyOptions{
		Issuer:   testIssuer,
		Audience: []string{testAudience},
	})

	env := &testEnv{
		users:  &service.UserService{Store: st},
		sender: &captureSender{},
		priv:   priv,
	}

	router := accountshttp.NewRouter(keys, verifier, "test", st, slogx.Discard())
	router.UserService = env.users
	router.VerificationService = &service.VerificationService{
		Store:    st,
		Settings: settings.Static{Length: 6, Characters: "0123456789", Attempts: 5, Minutes: 7},
		Sender:   env.sender,
	}
	router.AddressService = &service.AddressService{Store: st}
	router.ApplyRoutes()

	env.handler = router
	return env
}

func (e *testEnv) token(t *testing.T, sub string) string {
	t.Helper()
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   sub,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		},
	})
	tok.Header["kid"] = testKID
	s, err := tok.SignedString(e.priv)
	require.NoError(t, err)
	return s
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns it with a token.
func (e *testEnv) register(t *testing.T, req accountsdk.RegisterRequest) (accountsdk.UserResponse, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/v1/users", "", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	u := decode[accountsdk.UserResponse](t, rec)
	return u, e.token(t, u.ID)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) accountsdk.ErrorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[accountsdk.ErrorResponse](t, rec)
	require.Equal(t, code, body.Error)
	return body
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, nil)

	u, _ := env.register(t, accountsdk.RegisterRequest{
		Email:     "Ada@Example.COM",
		Password:  "correct horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.Equal(t, "ada@example.com", u.Email)
	require.Equal(t, "Ada Lovelace", u.FullName)
	require.True(t, u.IsActive)
	require.False(t, u.IsStaff)

	t.Run("duplicate email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/users", "", accountsdk.RegisterRequest{Email: "ADA@example.com"})
		requireError(t, rec, http.StatusConflict, accountsdk.ErrorCodeDuplicateEmail)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/users", "", accountsdk.RegisterRequest{Email: "nope"})
		body := requireError(t, rec, http.StatusBadRequest, accountsdk.ErrorCodeValidation)
		require.Contains(t, body.Details, "email")
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/v1/users", "", map[string]any{"email": "x@example.com", "is_superuser": true})
		requireError(t, rec, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest)
	})
}

func TestMe(t *testing.T) {
	env := newTestEnv(t, nil)
	u, tok := env.register(t, accountsdk.RegisterRequest{Email: "me@example.com", Password: "pw"})

	t.Run("no token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/me", "", nil)
		requireError(t, rec, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidToken)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("foreign signature", func(t *testing.T) {
		_, other, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		forged := (&testEnv{priv: other}).token(t, u.ID)
		rec := env.do(t, http.MethodGet, "/v1/me", forged, nil)
		requireError(t, rec, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidToken)
	})

	t.Run("ok", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/me", tok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, u.ID, decode[accountsdk.UserResponse](t, rec).ID)
	})

	t.Run("unknown account", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/me", env.token(t, "01JUNKNOWN"), nil)
		requireError(t, rec, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidToken)
	})

	t.Run("inactive account", func(t *testing.T) {
		require.NoError(t, env.users.Deactivate(context.Background(), u.ID))
		rec := env.do(t, http.MethodGet, "/v1/me", tok, nil)
		requireError(t, rec, http.StatusForbidden, accountsdk.ErrorCodeAccountInactive)
	})
}

func TestPhoneVerificationFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	_, tok := env.register(t, accountsdk.RegisterRequest{Email: "phone@example.com", Password: "pw"})

	rec := env.do(t, http.MethodPost, "/v1/me/phone/verification", tok, nil)
	requireError(t, rec, http.StatusConflict, accountsdk.ErrorCodeNoPhone)

	rec = env.do(t, http.MethodPut, "/v1/me/phone", tok, accountsdk.UpdatePhoneRequest{Phone: "0400"})
	requireError(t, rec, http.StatusBadRequest, accountsdk.ErrorCodeValidation)

	rec = env.do(t, http.MethodPut, "/v1/me/phone", tok, accountsdk.UpdatePhoneRequest{Phone: "+61400000300"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.False(t, decode[accountsdk.UserResponse](t, rec).PhoneVerified)

	rec = env.do(t, http.MethodPost, "/v1/me/phone/verification/confirm", tok, accountsdk.ConfirmCodeRequest{Code: "123456"})
	requireError(t, rec, http.StatusNotFound, accountsdk.ErrorCodeCodeNotFound)

	rec = env.do(t, http.MethodPost, "/v1/me/phone/verification", tok, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	issued := decode[accountsdk.CodeIssuedResponse](t, rec)
	require.Equal(t, 5, issued.MaxAttempts)

	code := env.sender.Code()
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	rec = env.do(t, http.MethodPost, "/v1/me/phone/verification/confirm", tok, accountsdk.ConfirmCodeRequest{Code: wrong})
	body := requireError(t, rec, http.StatusBadRequest, accountsdk.ErrorCodeInvalidCode)
	require.NotNil(t, body.AttemptsRemaining)
	require.Equal(t, 4, *body.AttemptsRemaining)

	rec = env.do(t, http.MethodPost, "/v1/me/phone/verification/confirm", tok, accountsdk.ConfirmCodeRequest{Code: code})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, decode[accountsdk.UserResponse](t, rec).PhoneVerified)

	rec = env.do(t, http.MethodPost, "/v1/me/phone/verification/confirm", tok, accountsdk.ConfirmCodeRequest{Code: code})
	requireError(t, rec, http.StatusConflict, accountsdk.ErrorCodeCodeConsumed)
}

func TestPhoneVerificationLocks(t *testing.T) {
	env := newTestEnv(t, nil)
	_, tok := env.register(t, accountsdk.RegisterRequest{Email: "lock@example.com", Phone: "+61400000301"})

	rec := env.do(t, http.MethodPost, "/v1/me/phone/verification", tok, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	code := env.sender.Code()
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for range 5 {
		rec = env.do(t, http.MethodPost, "/v1/me/phone/verification/confirm", tok, accountsdk.ConfirmCodeRequest{Code: wrong})
		requireError(t, rec, http.StatusBadRequest, accountsdk.ErrorCodeInvalidCode)
	}

	rec = env.do(t, http.MethodPost, "/v1/me/phone/verification/confirm", tok, accountsdk.ConfirmCodeRequest{Code: code})
	requireError(t, rec, http.StatusLocked, accountsdk.ErrorCodeCodeLocked)
}

func TestAddresses(t *testing.T) {
	env := newTestEnv(t, nil)
	_, tok := env.register(t, accountsdk.RegisterRequest{Email: "addr@example.com"})
	_, otherTok := env.register(t, accountsdk.RegisterRequest{Email: "other@example.com"})

	req := accountsdk.AddressRequest{
		AddressType: accountsdk.AddressTypeBilling,
		Default:     true,
		Country:     "au",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Phone:       "+61400000400",
		Street1:     "1 Example St",
		City:        "Sydney",
	}

	rec := env.do(t, http.MethodPost, "/v1/me/addresses", tok, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[accountsdk.AddressResponse](t, rec)
	require.Equal(t, "AU", first.Country)
	require.True(t, first.Default)

	rec = env.do(t, http.MethodPost, "/v1/me/addresses", tok, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[accountsdk.AddressResponse](t, rec)

	rec = env.do(t, http.MethodGet, "/v1/me/addresses/"+first.ID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, decode[accountsdk.AddressResponse](t, rec).Default, "older default demoted")

	rec = env.do(t, http.MethodPost, "/v1/me/addresses/"+first.ID+"/default", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/me/addresses?type=B", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[accountsdk.ListAddressesResponse](t, rec).Addresses
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID)
	require.True(t, list[0].Default)
	require.False(t, list[1].Default)

	t.Run("update", func(t *testing.T) {
		upd := req
		upd.Default = false
		upd.City = "Hobart"
		rec := env.do(t, http.MethodPut, "/v1/me/addresses/"+second.ID, tok, upd)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Equal(t, "Hobart", decode[accountsdk.AddressResponse](t, rec).City)
	})

	t.Run("invalid", func(t *testing.T) {
		bad := req
		bad.Country = "Australia"
		bad.Street1 = ""
		rec := env.do(t, http.MethodPost, "/v1/me/addresses", tok, bad)
		body := requireError(t, rec, http.StatusBadRequest, accountsdk.ErrorCodeValidation)
		require.Len(t, body.Details, 2)
	})

	t.Run("unknown type filter", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/me/addresses?type=X", tok, nil)
		requireError(t, rec, http.StatusBadRequest, accountsdk.ErrorCodeValidation)
	})

	t.Run("other accounts cannot see it", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/v1/me/addresses/"+first.ID, otherTok, nil)
		requireError(t, rec, http.StatusNotFound, accountsdk.ErrorCodeNotFound)
		rec = env.do(t, http.MethodPut, "/v1/me/addresses/"+first.ID, otherTok, req)
		requireError(t, rec, http.StatusNotFound, accountsdk.ErrorCodeNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/v1/me/addresses/"+second.ID, tok, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		rec = env.do(t, http.MethodDelete, "/v1/me/addresses/"+second.ID, tok, nil)
		requireError(t, rec, http.StatusNotFound, accountsdk.ErrorCodeNotFound)
	})
}

func TestHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.do(t, http.MethodGet, "/livez", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", decode[accountsdk.HealthResponse](t, rec).Status)

		rec = env.do(t, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", decode[accountsdk.HealthResponse](t, rec).Checks.Keys)
	})

	t.Run("no keys", func(t *testing.T) {
		env := newTestEnv(t, jwtx.NewKeySet())
		rec := env.do(t, http.MethodGet, "/readyz", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		health := decode[accountsdk.HealthResponse](t, rec)
		require.Equal(t, "degraded", health.Status)
		require.Equal(t, "ok", health.Checks.Database)
	})
}

func TestRequestIDEcho(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set(slogx.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))
}
