package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/angelmondragon/storefront-wishlist/pkg/config"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
	"github.com/angelmondragon/storefront-wishlist/pkg/metrics"
)

const (
	breakerName    = "catalog"
	defaultTimeout = 3 * time.Second
)

// ErrCircuitOpen is returned while the breaker rejects calls to the catalog.
var ErrCircuitOpen = gobreaker.ErrOpenState

// HTTPClient queries the catalog service over HTTP behind a circuit breaker.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]Product]
	logg    *logger.Logger
}

// NewHTTPClient builds a catalog client from configuration. httpClient may be
// nil, in which case one with cfg.Timeout is created.
func NewHTTPClient(cfg config.CatalogConfig, httpClient *http.Client, state *metrics.BreakerMetrics, logg *logger.Logger) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("catalog base url %q must be absolute", cfg.BaseURL)
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logg == nil {
		logg = logger.Nop()
	}

	settings := gobreaker.Settings{
		Name:     breakerName,
		Interval: cfg.BreakerInterval,
		Timeout:  cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			return err == nil || errors.As(err, &statusErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ctx := logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			logg.Warn(ctx, "circuit breaker state change")
			state.SetState(name, stateValue(to))
		},
	}
	state.SetState(breakerName, metrics.BreakerClosed)

	return &HTTPClient{
		baseURL: base,
		http:    httpClient,
		breaker: gobreaker.NewCircuitBreaker[[]Product](settings),
		logg:    logg,
	}, nil
}

// Products implements Lookup.
func (c *HTTPClient) Products(ctx context.Context, locale string, ids []int64) (map[int64]Product, error) {
	ids = uniqueIDs(ids)
	out := make(map[int64]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	products, err := c.breaker.Execute(func() ([]Product, error) {
		return c.fetch(ctx, locale, ids)
	})
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		out[product.ProductSaleElementID] = product
	}
	return out, nil
}

// State reports the breaker state.
func (c *HTTPClient) State() gobreaker.State {
	return c.breaker.State()
}

type productsEnvelope struct {
	Data []Product `json:"data"`
}

func (c *HTTPClient) fetch(ctx context.Context, locale string, ids []int64) ([]Product, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = strconv.FormatInt(id, 10)
	}
	query := url.Values{}
	query.Set("ids", strings.Join(raw, ","))
	if locale != "" {
		query.Set("locale", locale)
	}
	endpoint := c.baseURL.JoinPath("product-sale-elements")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("catalog server error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var envelope productsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return envelope.Data, nil
}

// StatusError reports a non-2xx, non-5xx catalog response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog responded with status %d", e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	default:
		return metrics.BreakerClosed
	}
}

var _ Lookup = (*HTTPClient)(nil)
