package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"wasata/internal/common"
	"wasata/internal/domain/user"
	"wasata/internal/i18n"
	"wasata/internal/http/handlers"
	"wasata/internal/http/metrics"
	httpmw "wasata/internal/http/middleware"
	"wasata/internal/http/response"
)

const (
	authLimit  = 10
	authWindow = time.Minute
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	CompanyHandler     *handlers.CompanyHandler
	JobHandler         *handlers.JobHandler
	ApplicationHandler *handlers.ApplicationHandler
	AdminHandler       *handlers.AdminHandler
	HealthHandler      *handlers.HealthHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Limiter            httpmw.Limiter
	Metrics            *metrics.Collector
	Logger             logrus.FieldLogger

	RequestTimeout  time.Duration
	MaxBodyBytes    int64
	AllowedOrigins  []string
	DefaultLanguage string
	// TrustProxy honors X-Forwarded-For and X-Real-IP from a fronting proxy.
	TrustProxy bool
	// FilesDir is served under /files/ when uploads are stored locally.
	FilesDir string
}

func NewRouter(deps RouterDependencies) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, common.NewError(common.CodeNotFound, "route not found", nil))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusMethodNotAllowed, response.ErrorBody{
			Error:     "method_not_allowed",
			Message:   i18n.Translate(i18n.LanguageFromContext(r.Context()), "method not allowed"),
			RequestID: w.Header().Get(httpmw.RequestIDHeader),
		})
	})
	router.Use(
		mux.MiddlewareFunc(httpmw.Metrics(deps.Metrics)),
		mux.MiddlewareFunc(httpmw.Timeout(deps.RequestTimeout)),
	)

	router.Handle("/health", http.HandlerFunc(deps.HealthHandler.Health)).Methods(http.MethodGet)
	router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	if deps.FilesDir != "" {
		router.PathPrefix("/files/").Handler(http.StripPrefix("/files/", fileServer(deps.FilesDir))).Methods(http.MethodGet, http.MethodHead)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	registerAuthRoutes(api, deps)
	registerUserRoutes(api, deps)
	registerCompanyRoutes(api, deps)
	registerJobRoutes(api, deps)
	registerApplicationRoutes(api, deps)
	registerAdminRoutes(api, deps)

	return httpmw.Chain(router,
		httpmw.RequestID(deps.TrustProxy),
		httpmw.Locale(deps.DefaultLanguage),
		httpmw.Logging(deps.Logger),
		httpmw.Recover(deps.Logger),
		corsMiddleware(deps.AllowedOrigins),
		httpmw.BodyLimit(deps.MaxBodyBytes),
	)
}

// protect requires a bearer token and, when roles are given, one of them.
func protect(deps RouterDependencies, h http.HandlerFunc, roles ...user.Role) http.Handler {
	if len(roles) == 0 {
		return deps.AuthMiddleware.Authenticate(h)
	}
	return httpmw.Chain(h, deps.AuthMiddleware.Authenticate, httpmw.RequireRole(roles...))
}

func registerAuthRoutes(api *mux.Router, deps RouterDependencies) {
	h := deps.AuthHandler
	byIP := func(scope string, next http.HandlerFunc) http.Handler {
		return httpmw.RateLimit(deps.Limiter, deps.Metrics, scope, httpmw.ByClientIP, authLimit, authWindow)(next)
	}
	api.Handle("/auth/register", byIP("register", h.Register)).Methods(http.MethodPost)
	api.Handle("/auth/login", byIP("login", h.Login)).Methods(http.MethodPost)
	api.Handle("/auth/refresh", http.HandlerFunc(h.Refresh)).Methods(http.MethodPost)
	api.Handle("/auth/logout", http.HandlerFunc(h.Logout)).Methods(http.MethodPost)
	api.Handle("/auth/me", protect(deps, h.Me)).Methods(http.MethodGet)
}

func registerUserRoutes(api *mux.Router, deps RouterDependencies) {
	h := deps.UserHandler
	api.Handle("/users/me", protect(deps, h.GetMe)).Methods(http.MethodGet)
	api.Handle("/users/me", protect(deps, h.UpdateMe)).Methods(http.MethodPut)
	api.Handle("/users/me/cv", protect(deps, h.UploadCV, user.RoleUser)).Methods(http.MethodPost)
	api.Handle("/users/me/password", protect(deps, h.ChangePassword)).Methods(http.MethodPut)
}

func registerCompanyRoutes(api *mux.Router, deps RouterDependencies) {
	h := deps.CompanyHandler
	api.Handle("/companies", protect(deps, h.Create, user.RoleCompany)).Methods(http.MethodPost)
	api.Handle("/companies/me", protect(deps, h.GetMine, user.RoleCompany)).Methods(http.MethodGet)
	api.Handle("/companies/me", protect(deps, h.UpdateMine, user.RoleCompany)).Methods(http.MethodPut)
	api.Handle("/companies/me/logo", protect(deps, h.UploadLogo, user.RoleCompany)).Methods(http.MethodPost)
	api.Handle("/companies/me/jobs", protect(deps, deps.JobHandler.ListMine, user.RoleCompany)).Methods(http.MethodGet)
	api.Handle("/companies/{id}", http.HandlerFunc(h.GetPublic)).Methods(http.MethodGet)
}

func registerJobRoutes(api *mux.Router, deps RouterDependencies) {
	h := deps.JobHandler
	api.Handle("/jobs", http.HandlerFunc(h.ListPublic)).Methods(http.MethodGet)
	api.Handle("/jobs", protect(deps, h.Create, user.RoleCompany)).Methods(http.MethodPost)
	api.Handle("/jobs/{id}", http.HandlerFunc(h.GetPublic)).Methods(http.MethodGet)
	api.Handle("/jobs/{id}", protect(deps, h.Update, user.RoleCompany)).Methods(http.MethodPut)
	api.Handle("/jobs/{id}", protect(deps, h.Delete, user.RoleCompany)).Methods(http.MethodDelete)
	api.Handle("/jobs/{id}/close", protect(deps, h.SetClosed, user.RoleCompany)).Methods(http.MethodPatch)
}

func registerApplicationRoutes(api *mux.Router, deps RouterDependencies) {
	h := deps.ApplicationHandler
	api.Handle("/jobs/{id}/applications", protect(deps, h.Apply, user.RoleUser)).Methods(http.MethodPost)
	api.Handle("/jobs/{id}/applications", protect(deps, h.ListForJob, user.RoleCompany)).Methods(http.MethodGet)
	api.Handle("/applications/me", protect(deps, h.ListMine, user.RoleUser)).Methods(http.MethodGet)
	api.Handle("/applications/{id}", protect(deps, h.Withdraw, user.RoleUser)).Methods(http.MethodDelete)
	api.Handle("/applications/{id}/status", protect(deps, h.UpdateStatus, user.RoleCompany)).Methods(http.MethodPatch)
}

func registerAdminRoutes(api *mux.Router, deps RouterDependencies) {
	h := deps.AdminHandler
	admin := func(next http.HandlerFunc) http.Handler {
		return protect(deps, next, user.RoleAdmin)
	}
	api.Handle("/admin/stats", admin(h.Stats)).Methods(http.MethodGet)
	api.Handle("/admin/companies", admin(h.ListCompanies)).Methods(http.MethodGet)
	api.Handle("/admin/companies/{id}/approval", admin(h.DecideCompany)).Methods(http.MethodPatch)
	api.Handle("/admin/jobs", admin(h.ListJobs)).Methods(http.MethodGet)
	api.Handle("/admin/jobs/{id}/approval", admin(h.DecideJob)).Methods(http.MethodPatch)
	api.Handle("/admin/users", admin(h.ListUsers)).Methods(http.MethodGet)
	api.Handle("/admin/users/{id}/block", admin(h.SetBlocked)).Methods(http.MethodPatch)
	api.Handle("/admin/users/{id}", admin(h.DeleteUser)).Methods(http.MethodDelete)
	api.Handle("/admin/audit-logs", admin(h.ListAuditLogs)).Methods(http.MethodGet)
}

func corsMiddleware(origins []string) httpmw.Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language", httpmw.RequestIDHeader},
		ExposedHeaders:   []string{httpmw.RequestIDHeader, "Retry-After"},
		AllowCredentials: !allowsAny(origins),
		MaxAge:           600,
	})
	return c.Handler
}

func allowsAny(origins []string) bool {
	for _, origin := range origins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}

// fileServer serves uploaded files without directory listings.
func fileServer(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			response.Error(w, r, common.NewError(common.CodeNotFound, "route not found", nil))
			return
		}
		files.ServeHTTP(w, r)
	})
}
