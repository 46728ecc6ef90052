package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/gmcandra/mebel-api/internal/auth"
	"github.com/gmcandra/mebel-api/internal/catalog"
	"github.com/gmcandra/mebel-api/internal/config"
	"github.com/gmcandra/mebel-api/internal/httputil"
	"github.com/gmcandra/mebel-api/internal/logging"
	"github.com/gmcandra/mebel-api/internal/order"
	"github.com/gmcandra/mebel-api/internal/user"
)

// Handlers groups the HTTP handlers the router wires up.
type Handlers struct {
	Auth    *auth.Handler
	Users   *auth.UsersHandler
	Catalog *catalog.Handler
	Orders  *order.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, authMiddleware *auth.Middleware, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	requireAdmin := authMiddleware.RequireRole(user.RoleAdmin)

	// Public routes
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Auth routes (public, rate limited per handler)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Get("/verify-email/{token}", h.Auth.VerifyEmail)
		r.Post("/forgot-password", h.Auth.ForgotPassword)
		r.Post("/reset-password", h.Auth.ResetPassword)
		r.Post("/resend-verification", h.Auth.ResendVerificationEmail)
	})

	// Catalog reads are public; writes are admin only
	r.Route("/category", func(r chi.Router) {
		r.Get("/", h.Catalog.ListCategories)
		r.Get("/{id}", h.Catalog.GetCategory)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth, requireAdmin)
			r.Post("/", h.Catalog.CreateCategory)
			r.Patch("/{id}", h.Catalog.UpdateCategory)
			r.Delete("/{id}", h.Catalog.DeleteCategory)
		})
	})

	r.Route("/product", func(r chi.Router) {
		r.Get("/", h.Catalog.ListProducts)
		r.Get("/{id}", h.Catalog.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth, requireAdmin)
			r.Post("/", h.Catalog.CreateProduct)
			r.Patch("/{id}", h.Catalog.UpdateProduct)
			r.Delete("/{id}", h.Catalog.DeleteProduct)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		// The payment gateway calls this without a session token.
		r.Post("/payments/notification", h.Orders.Notification)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Post("/create-transaction", h.Orders.CreateTransaction)
			r.Get("/", h.Orders.List)
			r.Get("/{id}", h.Orders.Get)
			r.With(requireAdmin).Delete("/{id}", h.Orders.Delete)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Put("/me/push-token", h.Users.RegisterPushToken)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/{id}", h.Users.Get)
			r.Patch("/{id}", h.Users.Update)
			r.Delete("/{id}", h.Users.Delete)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} httputil.Response
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, "api is running", nil)
}
