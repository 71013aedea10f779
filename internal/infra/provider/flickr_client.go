package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PhotoSearch/internal/domain"
	"github.com/PhotoSearch/internal/infra/metrics"
	"github.com/PhotoSearch/internal/infra/transformer"
	"github.com/PhotoSearch/pkg/logging"
	"github.com/sony/gobreaker"
)

const (
	DefaultBaseURL = "https://api.flickr.com/services/rest/"

	methodSearch = "flickr.photos.search"
	methodRecent = "flickr.photos.getRecent"
	extras       = "url_q,url_m"
	userAgent    = "photosearch/1.0"
)

// FlickrClient calls the Flickr REST API. It performs a single attempt per call;
// the circuit breaker only short-circuits calls while the service is failing.
type FlickrClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	sampler *logging.ErrorSampler
}

func NewFlickrClient(baseURL, apiKey string, timeout time.Duration) *FlickrClient {
	return newFlickrClient(&http.Client{Timeout: timeout}, baseURL, apiKey)
}

func newFlickrClient(client *http.Client, baseURL, apiKey string) *FlickrClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cbSettings := gobreaker.Settings{
		Name:        "flickr",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A caller abandoning a request says nothing about the service.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("CircuitBreaker state changed", "name", name, "from", from, "to", to)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	}

	return &FlickrClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
		sampler: logging.NewErrorSampler(10),
	}
}

// Search runs flickr.photos.search for text.
func (c *FlickrClient) Search(ctx context.Context, text string, perPage, page int) (*domain.RawResponse, error) {
	query := c.baseQuery(methodSearch, perPage, page)
	query.Set("text", text)
	return c.call(ctx, query)
}

// Recent runs flickr.photos.getRecent.
func (c *FlickrClient) Recent(ctx context.Context, perPage, page int) (*domain.RawResponse, error) {
	return c.call(ctx, c.baseQuery(methodRecent, perPage, page))
}

func (c *FlickrClient) baseQuery(method string, perPage, page int) url.Values {
	query := url.Values{}
	query.Set("method", method)
	query.Set("api_key", c.apiKey)
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("extras", extras)
	query.Set("format", "json")
	query.Set("nojsoncallback", "1")
	return query
}

func (c *FlickrClient) call(ctx context.Context, query url.Values) (*domain.RawResponse, error) {
	method := query.Get("method")
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, query.Encode())

	result, err := c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		slog.Debug("flickr request", "method", method, "page", query.Get("page"))

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				slog.Warn("Failed to close response body", "error", err)
			}
		}()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("flickr returned status %d", resp.StatusCode)
		}

		return transformer.Decode(resp.Body)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Debug("Flickr call cancelled", "method", method)
			return nil, err
		}
		if shouldLog, streak := c.sampler.Record(method); shouldLog {
			slog.Error("Flickr call failed", "method", method, "error", err, "consecutive_failures", streak)
		}
		return nil, err
	}

	if streak := c.sampler.Reset(method); streak > 0 {
		slog.Info("Flickr calls recovered", "method", method, "failed_before", streak)
	}
	return result.(*domain.RawResponse), nil
}
