package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakmart/storefront-backend/api/controllers"
	"github.com/oakmart/storefront-backend/api/middleware"
	cartsvc "github.com/oakmart/storefront-backend/internal/cart"
	"github.com/oakmart/storefront-backend/internal/cartview"
	"github.com/oakmart/storefront-backend/internal/catalog"
	checkoutsvc "github.com/oakmart/storefront-backend/internal/checkout"
	"github.com/oakmart/storefront-backend/internal/wishlist"
	"github.com/oakmart/storefront-backend/pkg/config"
	"github.com/oakmart/storefront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	metricsHandler http.Handler,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	wishlistService wishlist.Service,
	checkoutService checkoutsvc.Service,
	cartView *cartview.View,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.GuestSession(cfg.Session, logg))

		r.Get("/ping", controllers.SessionPing())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(catalogService, logg))
			r.Get("/{id}", controllers.ProductGet(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartView, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Get("/summary", controllers.CartSummary(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, catalogService, logg))
			r.Put("/items/{productId}", controllers.CartSetQuantity(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(wishlistService, logg))
			r.Post("/toggle", controllers.WishlistToggle(wishlistService, logg))
		})

		r.Post("/checkout", controllers.CheckoutPlace(checkoutService, logg))

		r.Get("/events/cart", controllers.CartEvents(cartView, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.ProductCreate(catalogService, logg))
			r.Patch("/{id}", controllers.ProductUpdate(catalogService, logg))
			r.Delete("/{id}", controllers.ProductDelete(catalogService, logg))
		})
	})

	return r
}
