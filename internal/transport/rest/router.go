package rest

import "net/http"

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Auth    *AuthHandler
	Admin   *AdminHandler
	Health  *HealthHandler
	Metrics http.Handler

	// RequireAuth gates routes that need an authenticated session. The
	// identity itself is resolved earlier in the middleware chain.
	RequireAuth func(http.Handler) http.Handler
}

// NewRouter mounts all REST routes on a ServeMux. Admin routes are gated
// twice: RequireAuth here, the role check inside each handler.
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health.Health)
	mux.HandleFunc("GET /health/live", deps.Health.Live)
	mux.HandleFunc("GET /health/ready", deps.Health.Ready)

	mux.HandleFunc("POST /auth/login", deps.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", deps.Auth.Refresh)

	protected := func(h http.HandlerFunc) http.Handler {
		return deps.RequireAuth(h)
	}

	mux.Handle("POST /auth/logout", protected(deps.Auth.Logout))
	mux.Handle("GET /auth/sessions", protected(deps.Auth.ListSessions))
	mux.Handle("DELETE /auth/sessions/{token}", protected(deps.Auth.TerminateSession))

	mux.Handle("GET /admin/audit", protected(deps.Admin.SearchAudit))
	mux.Handle("POST /admin/audit/verify", protected(deps.Admin.SweepAuditIntegrity))
	mux.Handle("POST /admin/audit/{id}/verify", protected(deps.Admin.VerifyAuditRecord))
	mux.Handle("GET /admin/audit/actors/{id}/summary", protected(deps.Admin.ActorSummary))

	mux.Handle("GET /admin/threats", protected(deps.Admin.ListThreats))
	mux.Handle("GET /admin/threats/stats", protected(deps.Admin.ThreatStats))
	mux.Handle("POST /admin/threats/{id}/resolve", protected(deps.Admin.ResolveThreat))

	mux.Handle("POST /admin/cleanup", protected(deps.Admin.Cleanup))
	if deps.Metrics != nil {
		mux.Handle("GET /admin/metrics", protected(deps.Metrics.ServeHTTP))
	}

	return mux
}
