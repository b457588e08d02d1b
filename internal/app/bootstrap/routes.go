// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	auditlogfeature "github.com/dalemusser/sahayog/internal/app/features/auditlog"
	catalogfeature "github.com/dalemusser/sahayog/internal/app/features/catalog"
	dashboardfeature "github.com/dalemusser/sahayog/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/sahayog/internal/app/features/errors"
	grouporderfeature "github.com/dalemusser/sahayog/internal/app/features/grouporders"
	healthfeature "github.com/dalemusser/sahayog/internal/app/features/health"
	loginfeature "github.com/dalemusser/sahayog/internal/app/features/login"
	logoutfeature "github.com/dalemusser/sahayog/internal/app/features/logout"
	registerfeature "github.com/dalemusser/sahayog/internal/app/features/register"
	reviewsfeature "github.com/dalemusser/sahayog/internal/app/features/reviews"
	userstore "github.com/dalemusser/sahayog/internal/app/store/users"
	"github.com/dalemusser/sahayog/internal/app/system/auth"
	"github.com/dalemusser/sahayog/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router. It runs after Startup, so the
// shared services in deps.Services are ready.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request: role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))
	sessionMgr.SetTokenIssuer(auth.NewTokenIssuer(appCfg.TokenSecret, appCfg.TokenTTL))

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	// Loads the SessionUser from the cookie or bearer token when present.
	r.Use(sessionMgr.LoadSessionUser)

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, svc.Audit, svc.LoginLimiter, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	registerHandler := registerfeature.NewHandler(db, errLog, svc.Audit, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler, svc.WriteLimiter))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, svc.Audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	r.Route("/api", func(api chi.Router) {
		orders := grouporderfeature.NewHandler(svc.Engine, errLog, logger)
		api.Mount("/grouporders", grouporderfeature.Routes(orders, sessionMgr, svc.WriteLimiter))

		catalog := catalogfeature.NewHandler(db, errLog, logger)
		api.Mount("/suppliers", catalogfeature.SupplierRoutes(catalog, sessionMgr))
		api.Mount("/products", catalogfeature.ProductRoutes(catalog, sessionMgr))

		reviews := reviewsfeature.NewHandler(db, svc.Engine, svc.Audit, errLog, logger)
		api.Mount("/reviews", reviewsfeature.Routes(reviews, sessionMgr))

		dashboard := dashboardfeature.NewHandler(db, svc.Engine, errLog, logger)
		api.Mount("/dashboard", dashboardfeature.Routes(dashboard, sessionMgr))

		audit := auditlogfeature.NewHandler(db, errLog, logger)
		api.Mount("/audit", auditlogfeature.Routes(audit, sessionMgr))
	})

	return r, nil
}

// requestID tags each request with a UUID, reusing a caller-supplied
// X-Request-ID. The id is stored under chi's key so middleware.GetReqID
// finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
