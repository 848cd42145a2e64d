package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-wishlist/api/responses"
	pkgAuth "github.com/angelmondragon/storefront-wishlist/pkg/auth"
	"github.com/angelmondragon/storefront-wishlist/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-wishlist/pkg/errors"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
	"github.com/angelmondragon/storefront-wishlist/pkg/owner"
)

const (
	sessionHeader   = "X-Session-Id"
	sessionMaxAge   = 60 * 60 * 24 * 365
	maxSessionIDLen = 128
)

// Owner resolves who the request acts for. A valid bearer token wins; otherwise
// the storefront session from the header or cookie is used, and a new session
// is minted for first-time visitors.
func Owner(jwtCfg config.JWTConfig, cookieName string, secureCookie bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var customerID *uuid.UUID
			if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
				token := raw
				if strings.HasPrefix(strings.ToLower(token), "bearer ") {
					token = strings.TrimSpace(token[7:])
				}
				if token == "" {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
					return
				}
				claims, err := pkgAuth.ParseCustomerToken(jwtCfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}
				id := claims.CustomerID
				customerID = &id
			}

			sessionID := sessionFromRequest(r, cookieName)
			if customerID == nil && sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   sessionMaxAge,
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
			}
			if sessionID != "" {
				w.Header().Set(sessionHeader, sessionID)
			}

			key := owner.Resolve(customerID, sessionID)
			ctx = WithOwner(ctx, key)
			if logg != nil {
				ctx = logg.WithOwner(ctx, key.Kind().String(), key.ID())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromRequest(r *http.Request, cookieName string) string {
	if v := strings.TrimSpace(r.Header.Get(sessionHeader)); validSessionID(v) {
		return v
	}
	if cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		if v := strings.TrimSpace(c.Value); validSessionID(v) {
			return v
		}
	}
	return ""
}

func validSessionID(v string) bool {
	return v != "" && len(v) <= maxSessionIDLen
}
