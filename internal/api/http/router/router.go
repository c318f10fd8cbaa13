package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/bookshop-server/internal/api/http/handler"
	"github.com/dtroode/bookshop-server/internal/api/http/middleware"
	"github.com/dtroode/bookshop-server/internal/api/http/response"
	"github.com/dtroode/bookshop-server/internal/logger"
	"github.com/dtroode/bookshop-server/internal/model"
)

// Router wires the bookshop HTTP routes to their handlers and guards.
type Router struct {
	authService    handler.AuthService
	userService    handler.UserService
	tokenService   middleware.TokenService
	pinger         handler.Pinger
	contextManager model.ContextManager
	metricsHandler http.Handler
	corsOrigins    []string
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService handler.AuthService,
	userService handler.UserService,
	tokenService middleware.TokenService,
	pinger handler.Pinger,
	contextManager model.ContextManager,
	metricsHandler http.Handler,
	corsOrigins []string,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		userService:    userService,
		tokenService:   tokenService,
		pinger:         pinger,
		contextManager: contextManager,
		metricsHandler: metricsHandler,
		corsOrigins:    corsOrigins,
		logger:         logger,
	}
}

// Register builds the handler tree:
//
//	GET  /health
//	GET  /metrics
//	POST /auth/register
//	POST /auth/login
//	GET  /users/profile     (authenticated)
//	GET  /users/admin-only  (authenticated, admin)
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.logger)
	userHandler := handler.NewUser(r.userService, r.contextManager, r.logger)
	healthHandler := handler.NewHealth(r.pinger, r.logger)

	mux := chi.NewRouter()
	mux.Use(
		chimw.RequestID,
		chimw.RealIP,
		logging.Handler,
		chimw.Recoverer,
		middleware.SecurityHeaders,
		middleware.CORS(r.corsOrigins),
	)

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	mux.Get("/health", healthHandler.Check)
	if r.metricsHandler != nil {
		mux.Method(http.MethodGet, "/metrics", r.metricsHandler)
	}

	mux.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", authHandler.Register)
		ar.Post("/login", authHandler.Login)
	})

	mux.Route("/users", func(ur chi.Router) {
		ur.Use(authenticate.Handler)
		ur.Get("/profile", userHandler.Profile)
		ur.With(middleware.RequireRole(r.contextManager, r.logger, model.RoleAdmin)).
			Get("/admin-only", userHandler.AdminOnly)
	})

	return mux
}
