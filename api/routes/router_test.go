package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/angelmondragon/storefront-wishlist/internal/cart"
	"github.com/angelmondragon/storefront-wishlist/internal/wishlist"
	"github.com/angelmondragon/storefront-wishlist/pkg/config"
	"github.com/angelmondragon/storefront-wishlist/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-wishlist/pkg/locale"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
	"github.com/angelmondragon/storefront-wishlist/pkg/metrics"
	"github.com/angelmondragon/storefront-wishlist/pkg/outbox"
	"github.com/angelmondragon/storefront-wishlist/pkg/redis"
)

type testServer struct {
	handler http.Handler
	mr      *miniredis.Miniredis
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	cfg := &config.Config{
		App:   config.AppConfig{Env: "test"},
		JWT:   config.JWTConfig{Secret: "secret", Issuer: "storefront"},
		Redis: config.RedisConfig{},
		Storefront: config.StorefrontConfig{
			PublicBaseURL:     "https://shop.example.com",
			SessionCookieName: "wl_session",
			CORSOrigins:       []string{"https://shop.example.com"},
		},
	}

	client := dbtest.Client(t)
	carts, err := cart.NewService(cart.NewRepository(client.DB()), client)
	require.NoError(t, err)
	svc, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:         wishlist.NewRepository(client.DB()),
		Tx:           client,
		Carts:        carts,
		Outbox:       outbox.NewService(outbox.NewRepository(client.DB()), nil),
		DefaultTitle: "My wishlist",
	})
	require.NoError(t, err)

	resolver, err := locale.NewResolver("en-US", []string{"fr-FR"})
	require.NoError(t, err)
	urls, err := wishlist.NewSharedURLBuilder(cfg.Storefront.PublicBaseURL, language.AmericanEnglish)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })

	reg := prometheus.NewRegistry()
	handler := NewRouter(cfg, logger.Nop(), Deps{
		Wishlists:   svc,
		Views:       wishlist.NewPresenter(nil, urls, nil),
		Locales:     resolver,
		Idempotency: redis.Wrap(raw),
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
	})
	return testServer{handler: handler, mr: mr}
}

func (s testServer) do(t *testing.T, method, path, session, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if session != "" {
		req.Header.Set("X-Session-Id", session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type wishlistBody struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Default   bool   `json:"default"`
	IsType    bool   `json:"isType"`
	SharedURL string `json:"sharedUrl"`
	Items     []struct {
		ProductSaleElementID int64 `json:"productSaleElementId"`
		Quantity             int   `json:"quantity"`
	} `json:"items"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	return envelope.Data
}

func TestHealthLive(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWishlistLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	const session = "sess-router"

	rec := s.do(t, http.MethodPost, "/wishlist/create", session,
		`{"title":"T","productSaleElements":[{"productSaleElementId":5,"quantity":2}]}`,
		"Accept-Language", "fr-FR")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[wishlistBody](t, rec)
	assert.Equal(t, "T", created.Title)
	assert.True(t, created.Default)
	assert.True(t, strings.HasPrefix(created.SharedURL, "https://shop.example.com/fr/wishlist/shared/"), created.SharedURL)

	rec = s.do(t, http.MethodPost, "/wishlist/add/5", session, `{"quantity":3,"wishListId":"`+created.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[wishlistBody](t, rec)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Quantity)

	rec = s.do(t, http.MethodGet, "/wishlist/exist/5/"+created.ID, session, "")
	assert.True(t, decode[bool](t, rec))

	rec = s.do(t, http.MethodGet, "/wishlist/?wishListId="+created.ID, "someone-else", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"data":null}`, strings.TrimSpace(rec.Body.String()))

	rec = s.do(t, http.MethodPost, "/wishlist/duplicate_as_type/"+created.ID, session, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	clone := decode[wishlistBody](t, rec)
	assert.True(t, clone.IsType)
	assert.NotEqual(t, created.ID, clone.ID)

	rec = s.do(t, http.MethodPost, "/wishlist/duplicate_as_type/"+created.ID, session, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/wishlist/lite/all", session, "")
	lite := decode[[]wishlistBody](t, rec)
	assert.Len(t, lite, 2)
	for _, w := range lite {
		assert.Nil(t, w.Items)
	}

	rec = s.do(t, http.MethodPost, "/wishlist/add-to-cart/"+created.ID, session, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/wishlist/clear/"+created.ID, session, "")
	cleared := decode[wishlistBody](t, rec)
	assert.Empty(t, cleared.Items)

	rec = s.do(t, http.MethodPost, "/wishlist/delete/"+created.ID, session, "")
	assert.Equal(t, `{"data":{}}`, strings.TrimSpace(rec.Body.String()))
}

func TestWishlistMintsSessionForAnonymousVisitor(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/wishlist/all", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-Id"))
	assert.Equal(t, `{"data":[]}`, strings.TrimSpace(rec.Body.String()))
}

func TestWishlistCreateIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	const session = "sess-idem"
	body := `{"title":"Once"}`

	first := s.do(t, http.MethodPost, "/wishlist/create", session, body, "Idempotency-Key", "k1")
	second := s.do(t, http.MethodPost, "/wishlist/create", session, body, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	rec := s.do(t, http.MethodGet, "/wishlist/lite/all", session, "")
	assert.Len(t, decode[[]wishlistBody](t, rec), 1)
}

func TestMetricsEndpointExposesRequests(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/health/live", "", "")

	rec := s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/health/live",status="200"}`)
}
