package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"techevents/internal/delivery/http/controllers"
	"techevents/internal/delivery/http/middleware"
	"techevents/internal/domain"
	"techevents/internal/metrics"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Users    *controllers.UserController
	Events   *controllers.EventController
	Bookings *controllers.BookingController
	Health   *controllers.HealthController
}

// RouterConfig carries the cross-cutting dependencies of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AllowedOrigins []string
	Metrics        *metrics.HTTP
	Gatherer       prometheus.Gatherer
}

// NewRouter initializes the HTTP router with all application routes, wrapped
// in logging, CORS and metrics middleware.
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	admin := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	// API Routes
	mux.HandleFunc("GET /users", c.Users.ListUsers)
	mux.HandleFunc("POST /users", c.Users.CreateUser)

	mux.HandleFunc("GET /events", c.Events.ListEvents)
	mux.HandleFunc("GET /events/{slug}", c.Events.GetEventBySlug)
	mux.HandleFunc("POST /events", admin(c.Events.CreateEvent))
	mux.HandleFunc("PUT /events/{id}", admin(c.Events.UpdateEvent))
	mux.HandleFunc("GET /events/{id}/bookings", admin(c.Bookings.ListEventBookings))

	mux.HandleFunc("POST /bookings", c.Bookings.CreateBooking)
	mux.HandleFunc("PUT /bookings/{id}", admin(c.Bookings.UpdateBooking))

	// Operations
	mux.HandleFunc("GET /healthz", c.Health.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger,
		middleware.CORS(cfg.AllowedOrigins,
			middleware.Metrics(cfg.Metrics, mux)))
}
