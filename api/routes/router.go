package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-wishlist/api/controllers"
	wishlistcontrollers "github.com/angelmondragon/storefront-wishlist/api/controllers/wishlist"
	"github.com/angelmondragon/storefront-wishlist/api/middleware"
	"github.com/angelmondragon/storefront-wishlist/internal/wishlist"
	"github.com/angelmondragon/storefront-wishlist/pkg/config"
	"github.com/angelmondragon/storefront-wishlist/pkg/locale"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
	"github.com/angelmondragon/storefront-wishlist/pkg/metrics"
	"github.com/angelmondragon/storefront-wishlist/pkg/redis"
)

// Deps carries what the router hands to middleware and controllers.
type Deps struct {
	Wishlists   wishlist.Service
	Views       wishlistcontrollers.Views
	Locales     *locale.Resolver
	Idempotency redis.IdempotencyStore
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	Ready       map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.Storefront.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	svc, views := deps.Wishlists, deps.Views
	r.Route("/wishlist", func(r chi.Router) {
		r.Use(
			middleware.Locale(deps.Locales, logg),
			middleware.Owner(cfg.JWT, cfg.Storefront.SessionCookieName, cfg.App.IsProd(), logg),
			middleware.Idempotency(deps.Idempotency, cfg.Redis.IdempotencyTTL, logg),
		)

		r.Get("/", wishlistcontrollers.WishlistGet(svc, views, logg))
		r.Get("/code/{code}", wishlistcontrollers.WishlistByCode(svc, views, logg))
		r.Get("/lite/all", wishlistcontrollers.WishlistLiteAll(svc, views, logg))
		r.Get("/all", wishlistcontrollers.WishlistAll(svc, views, logg))
		r.Post("/create", wishlistcontrollers.WishlistCreate(svc, views, logg))
		r.Post("/duplicate/{wishListId}", wishlistcontrollers.WishlistDuplicate(svc, views, logg))
		r.Post("/duplicate_as_type/{wishListId}", wishlistcontrollers.WishlistDuplicateAsType(svc, views, logg))
		r.Post("/update/{wishListId}", wishlistcontrollers.WishlistUpdate(svc, views, logg))
		r.Post("/delete/{wishListId}", wishlistcontrollers.WishlistDelete(svc, views, logg))
		r.Post("/add/{productSaleElementId}", wishlistcontrollers.WishlistAddProduct(svc, views, logg))
		r.Post("/set-default", wishlistcontrollers.WishlistSetDefault(svc, views, logg))
		r.Post("/remove/{productSaleElementId}", wishlistcontrollers.WishlistRemoveProduct(svc, views, logg))
		r.Post("/clear/{wishListId}", wishlistcontrollers.WishlistClear(svc, views, logg))
		r.Get("/exist/{productSaleElementId}/{wishListId}", wishlistcontrollers.WishlistExists(svc, views, logg))
		r.Post("/add-to-cart/{wishListId}", wishlistcontrollers.WishlistAddToCart(svc, views, logg))
		r.Post("/cart/from-wishlist/{wishListId}", wishlistcontrollers.WishlistCartFromWishlist(svc, views, logg))
	})

	return r
}
