package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/travelbookhq/travelbook-gateway/api/controllers"
	"github.com/travelbookhq/travelbook-gateway/api/middleware"
	"github.com/travelbookhq/travelbook-gateway/internal/blog"
	"github.com/travelbookhq/travelbook-gateway/internal/bookings"
	"github.com/travelbookhq/travelbook-gateway/internal/cart"
	"github.com/travelbookhq/travelbook-gateway/internal/catalog"
	checkoutsvc "github.com/travelbookhq/travelbook-gateway/internal/checkout"
	"github.com/travelbookhq/travelbook-gateway/internal/itinerary"
	"github.com/travelbookhq/travelbook-gateway/internal/session"
	"github.com/travelbookhq/travelbook-gateway/pkg/config"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	pkgredis "github.com/travelbookhq/travelbook-gateway/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       pkgredis.Pinger
	Sessions    session.Manager
	Catalog     catalog.Service
	Blog        blog.Service
	Itineraries itinerary.Service
	Cart        cart.Service
	Checkout    checkoutsvc.Service
	Bookings    bookings.Service
}

// NewRouter assembles the gateway's HTTP surface.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(deps.Config.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(deps.Sessions, deps.Logger))

		r.Route("/destinations", func(r chi.Router) {
			r.Get("/", controllers.DestinationsList(deps.Catalog, deps.Logger))
			r.Get("/{id}", controllers.DestinationDetail(deps.Catalog, deps.Logger))
		})

		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", controllers.HotelsList(deps.Catalog, deps.Logger))
			r.Get("/search", controllers.HotelsSearch(deps.Catalog, deps.Logger))
			r.Get("/{id}", controllers.HotelDetail(deps.Catalog, deps.Logger))
		})

		r.Route("/flights", func(r chi.Router) {
			r.Get("/", controllers.FlightsList(deps.Catalog, deps.Logger))
			r.Get("/{id}", controllers.FlightDetail(deps.Catalog, deps.Logger))
		})

		r.Route("/packages", func(r chi.Router) {
			r.Get("/", controllers.PackagesList(deps.Catalog, deps.Logger))
			r.Get("/{id}", controllers.PackageDetail(deps.Catalog, deps.Logger))
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", controllers.BlogList(deps.Blog, deps.Logger))
			r.Get("/{slug}", controllers.BlogDetail(deps.Blog, deps.Logger))
		})

		r.Route("/itineraries", func(r chi.Router) {
			r.Get("/", controllers.ItinerariesList(deps.Itineraries, deps.Logger))
			r.Get("/{id}", controllers.ItineraryDetail(deps.Itineraries, deps.Logger))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, deps.Logger))
			r.Post("/items", controllers.CartAddItem(deps.Cart, deps.Logger))
			r.Put("/items/{id}", controllers.CartUpdateQuantity(deps.Cart, deps.Logger))
			r.Delete("/items/{id}", controllers.CartRemoveItem(deps.Cart, deps.Logger))
			r.Delete("/", controllers.CartClear(deps.Cart, deps.Logger))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutState(deps.Checkout, deps.Logger))
			r.Post("/guest-info", controllers.CheckoutGuestInfo(deps.Checkout, deps.Logger))
			r.Post("/payment", controllers.CheckoutPayment(deps.Checkout, deps.Logger))
			r.Post("/back", controllers.CheckoutBack(deps.Checkout, deps.Logger))
			r.Post("/submit", controllers.CheckoutSubmit(deps.Checkout, deps.Sessions, deps.Logger))
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.BookingsList(deps.Bookings, deps.Sessions, deps.Logger))
			r.Get("/{id}", controllers.BookingDetail(deps.Bookings, deps.Sessions, deps.Logger))
			r.Put("/{id}/cancel", controllers.BookingCancel(deps.Bookings, deps.Sessions, deps.Logger))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/session", controllers.AuthBootstrap(deps.Sessions, deps.Logger))
			r.Post("/login", controllers.AuthLogin(deps.Sessions, deps.Logger))
			r.Post("/register", controllers.AuthRegister(deps.Sessions, deps.Logger))
			r.Post("/logout", controllers.AuthLogout(deps.Sessions, deps.Logger))
		})
	})

	return r
}
