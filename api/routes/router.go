package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adewalecodes/buildbazaar-backend/api/controllers"
	"github.com/adewalecodes/buildbazaar-backend/api/middleware"
	bookingssvc "github.com/adewalecodes/buildbazaar-backend/internal/bookings"
	catalogsvc "github.com/adewalecodes/buildbazaar-backend/internal/catalog"
	checkoutsvc "github.com/adewalecodes/buildbazaar-backend/internal/checkout"
	dashboardsvc "github.com/adewalecodes/buildbazaar-backend/internal/dashboard"
	orderssvc "github.com/adewalecodes/buildbazaar-backend/internal/orders"
	requestssvc "github.com/adewalecodes/buildbazaar-backend/internal/requests"
	"github.com/adewalecodes/buildbazaar-backend/pkg/config"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
	pkgredis "github.com/adewalecodes/buildbazaar-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Checkout  checkoutsvc.Service
	Orders    orderssvc.Service
	Bookings  bookingssvc.Service
	Requests  requestssvc.Service
	Dashboard dashboardsvc.Service
	Catalog   catalogsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger(redisClient)))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/categories", controllers.PublicCategories(svcs.Catalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore(redisClient), logg))

		r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListMyOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(svcs.Orders, logg))
		})
		r.Get("/seller/orders", controllers.ListSellerOrders(svcs.Orders, logg))

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateBooking(svcs.Bookings, logg))
			r.Get("/", controllers.ListMyBookings(svcs.Bookings, logg))
			r.Get("/{bookingId}", controllers.GetBooking(svcs.Bookings, logg))
			r.Post("/{bookingId}/counter", controllers.CounterQuote(svcs.Bookings, logg))
			r.Post("/{bookingId}/accept", controllers.AcceptQuote(svcs.Bookings, logg))
			r.Post("/{bookingId}/milestones/{index}/toggle", controllers.ToggleBookingMilestone(svcs.Bookings, logg))
		})
		r.Get("/seller/bookings", controllers.ListAssignedBookings(svcs.Bookings, logg))

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", controllers.CreateRequest(svcs.Requests, logg))
			r.Get("/", controllers.ListMyRequests(svcs.Requests, logg))
		})

		r.Get("/dashboard/records", controllers.DashboardRecords(svcs.Dashboard, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))

			r.Post("/orders/{orderId}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))

			r.Route("/bookings/{bookingId}", func(r chi.Router) {
				r.Post("/verify", controllers.AdminVerifyBooking(svcs.Bookings, logg))
				r.Post("/quote", controllers.AdminSendQuote(svcs.Bookings, logg))
				r.Post("/assign", controllers.AdminAssignPartner(svcs.Bookings, logg))
				r.Post("/complete", controllers.AdminCompleteBooking(svcs.Bookings, logg))
			})

			r.Route("/requests/{requestId}", func(r chi.Router) {
				r.Post("/status", controllers.AdminUpdateRequestStatus(svcs.Requests, logg))
				r.Post("/quote", controllers.AdminFinalizeRequestQuote(svcs.Requests, logg))
			})
		})
	})

	return r
}

func idempotencyStore(client *pkgredis.Client) pkgredis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}

func redisPinger(client *pkgredis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
