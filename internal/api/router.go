package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/example/foodyham/internal/api/middleware"
	"github.com/example/foodyham/internal/auth"
	"github.com/example/foodyham/internal/domain/user"
	"github.com/example/foodyham/internal/metrics"
)

// NewRouter mounts the collaborator API under /api. When m is non-nil every
// request is counted by route pattern and /metrics is served.
func NewRouter(handlers *Handlers, authHandlers *AuthHandlers, jwtService *auth.JWTService, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(withLogging(m))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	requireAuth := middleware.AuthMiddleware(jwtService)
	requireAdmin := middleware.RequireRole(user.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.Post("/auth/register", authHandlers.Register)
		r.Post("/auth/login", authHandlers.Login)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/auth/me", authHandlers.Me)
			r.Put("/auth/profile", authHandlers.UpdateProfile)
			r.Put("/auth/password", authHandlers.ChangePassword)
		})

		// Products
		r.Get("/products", handlers.GetProducts)
		r.Get("/products/{id}", handlers.GetProduct)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Post("/products", handlers.CreateProduct)
			r.Put("/products/{id}", handlers.UpdateProduct)
			r.Delete("/products/{id}", handlers.DeleteProduct)
			r.Put("/products/feature/{id}", handlers.FeatureProduct)
			r.Get("/analytics/sales", handlers.GetSalesAnalytics)
		})

		// Orders
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/orders", handlers.GetOrders)
			r.Post("/orders", handlers.PlaceOrder)
		})

		// Feedback
		r.With(middleware.OptionalAuthMiddleware(jwtService)).Post("/feedback", handlers.SubmitFeedback)
	})

	return r
}

func withLogging(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			m.ObserveRequest(r.Method+" "+route, ww.Status(), elapsed)
			log.Printf("[StubAPI] %s %s %d %s", r.Method, r.URL.Path, ww.Status(), elapsed.Round(time.Millisecond))
		})
	}
}
