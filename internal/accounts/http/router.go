package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"

	_ "github.com/aussiebroadwan/accounts/api/accounts" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate swag init -g router.go -d .,../../../pkg/accountsdk -o ../../../api/accounts --packageName accounts

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     httpx.TokenVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	UserService         *service.UserService
	VerificationService *service.VerificationService
	AddressService      *service.AddressService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier httpx.TokenVerifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerPhoneVerification()
	r.registerAddresses()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Accounts Service API
//	@version		0.1.0
//	@description	Account records, phone verification codes and postal addresses.
//	@description
//	@description				Endpoints under /v1/me need a bearer JWT from the trusted identity provider.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/accounts
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with bearer authentication and a per-account rate limit.
func (r *Router) secured(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByAccount(limit),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// POST /v1/users - strict rate limit by IP (public sign-up)
	r.Mux.Handle("POST /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /v1/me", r.secured(h.HandleMe, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/me/phone", r.secured(h.HandleUpdatePhone, httpx.ModerateLimit))
}

func (r *Router) registerPhoneVerification() {
	h := &PhoneVerificationHandler{
		UserService:         r.UserService,
		VerificationService: r.VerificationService,
	}

	// Issuing and confirming codes share the moderate limit so that the
	// per-code attempt cap is not the only brake on guessing.
	r.Mux.Handle("POST /v1/me/phone/verification", r.secured(h.HandleRequest, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/me/phone/verification/confirm", r.secured(h.HandleConfirm, httpx.ModerateLimit))
}

func (r *Router) registerAddresses() {
	h := &AddressesHandler{
		UserService:    r.UserService,
		AddressService: r.AddressService,
	}

	r.Mux.Handle("GET /v1/me/addresses", r.secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/me/addresses", r.secured(h.HandleCreate, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/me/addresses/{id}", r.secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/me/addresses/{id}", r.secured(h.HandleUpdate, httpx.LenientLimit))
	r.Mux.Handle("DELETE /v1/me/addresses/{id}", r.secured(h.HandleDelete, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/me/addresses/{id}/default", r.secured(h.HandleSetDefault, httpx.LenientLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
