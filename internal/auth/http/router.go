package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spendlog/spendlog/internal/auth/obs"
	"github.com/spendlog/spendlog/internal/auth/service"
	"github.com/spendlog/spendlog/internal/auth/store"
	"github.com/spendlog/spendlog/pkg/httpx"
	"github.com/spendlog/spendlog/pkg/jwtx"
	"github.com/spendlog/spendlog/pkg/slogx"

	_ "github.com/spendlog/spendlog/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	tokens       *jwtx.Issuer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	metrics        *obs.Metrics
	AccountService *service.AccountService
	SessionService *service.SessionService

	// SecureCookies marks the refresh cookie Secure; off only in dev.
	SecureCookies bool
}

func NewRouter(
	tokens *jwtx.Issuer,
	buildVersion string,
	st store.Store,
	metrics *obs.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tokens:       tokens,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      metrics,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerSessions()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Spendlog Authentication Service API
//	@version		0.1.0
//	@description	Account and session management for the Spendlog expense tracker: registration with
//	@description	email verification, password reset, and JWT-based sessions with revocable refresh tokens.
//	@description
//	@description				Access tokens are HS256-signed JWTs passed as "Bearer {token}". Refresh tokens
//	@description				travel only in the HttpOnly refreshToken cookie.
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

// handle registers a route with per-route middleware plus metrics
// instrumentation keyed by the route pattern.
func (r *Router) handle(pattern string, h http.Handler, middlewares ...httpx.Middleware) {
	h = httpx.Chain(h, middlewares...)
	if r.metrics != nil {
		h = r.metrics.Instrument(pattern, h)
	}
	r.Mux.Handle(pattern, h)
}

func (r *Router) registerAccounts() {
	// POST /register - strict rate limit (account creation abuse)
	r.handle("POST /register",
		&RegisterHandler{Accounts: r.AccountService, Metrics: r.metrics},
		httpx.RateLimitByIP(httpx.StrictLimit),
	)

	// GET /verify/{token} - moderate rate limit (clicked links, token is unguessable)
	r.handle("GET /verify/{token}",
		&VerifyHandler{Accounts: r.AccountService, Metrics: r.metrics},
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	resetHandler := &PasswordResetHandler{Accounts: r.AccountService, Metrics: r.metrics}

	// POST /forgot-password - strict rate limit (email bombing prevention)
	r.handle("POST /forgot-password",
		http.HandlerFunc(resetHandler.HandleForgot),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)

	// POST /reset-password - strict rate limit (token guessing prevention)
	r.handle("POST /reset-password",
		http.HandlerFunc(resetHandler.HandleReset),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)
}

func (r *Router) registerSessions() {
	// POST /login - strict rate limit (brute force prevention)
	r.handle("POST /login",
		&LoginHandler{Sessions: r.SessionService, Metrics: r.metrics, SecureCookies: r.SecureCookies},
		httpx.RateLimitByIP(httpx.StrictLimit),
	)

	// POST /refresh-token - moderate rate limit (legitimate clients refresh often)
	r.handle("POST /refresh-token",
		&RefreshHandler{Sessions: r.SessionService, Metrics: r.metrics},
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	// POST /logout - requires a valid access token
	r.handle("POST /logout",
		&LogoutHandler{Sessions: r.SessionService, Metrics: r.metrics, SecureCookies: r.SecureCookies},
		AuthnMiddleware(r.tokens, r.store.Users()),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.handle("GET /livez",
		LivezHandler(r.startTime, r.buildVersion),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)
	r.handle("GET /readyz",
		ReadyzHandler(r.startTime, r.buildVersion, r.store),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
