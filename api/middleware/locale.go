package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-wishlist/pkg/locale"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
)

// Locale negotiates the storefront locale from Accept-Language.
func Locale(resolver *locale.Resolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil {
				next.ServeHTTP(w, r)
				return
			}
			tag := resolver.Resolve(r.Header.Get("Accept-Language"))
			ctx := locale.WithLocale(r.Context(), tag)
			if logg != nil {
				ctx = logg.WithField(ctx, "locale", tag.String())
			}
			w.Header().Set("Content-Language", tag.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
