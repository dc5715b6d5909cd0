package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/pkg/circuitbreaker"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

// SupabaseConfig holds the hosted backend settings
type SupabaseConfig struct {
	URL           string
	AnonKey       string
	Timeout       time.Duration
	BulkFunction  string
	RefreshMargin time.Duration
}

// SupabaseBackend talks to PostgREST, GoTrue and Edge Functions over HTTP
type SupabaseBackend struct {
	cfg      SupabaseConfig
	baseURL  *url.URL
	client   *http.Client
	breaker  *circuitbreaker.Breaker
	sessions *sessionManager
}

// SupabaseOption customizes a SupabaseBackend
type SupabaseOption func(*SupabaseBackend)

// WithHTTPClient replaces the instrumented default client
func WithHTTPClient(c *http.Client) SupabaseOption {
	return func(b *SupabaseBackend) { b.client = c }
}

// WithBreaker replaces the default circuit breaker
func WithBreaker(cb *circuitbreaker.Breaker) SupabaseOption {
	return func(b *SupabaseBackend) { b.breaker = cb }
}

// NewSupabaseBackend creates the backend and restores any persisted session from store
func NewSupabaseBackend(ctx context.Context, cfg SupabaseConfig, store domain.KeyValueStore, opts ...SupabaseOption) (*SupabaseBackend, error) {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase url and anon key are required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid supabase url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BulkFunction == "" {
		cfg.BulkFunction = "create-products-from-ai"
	}
	if cfg.RefreshMargin <= 0 {
		cfg.RefreshMargin = time.Minute
	}

	b := &SupabaseBackend{
		cfg:     cfg,
		baseURL: base,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: circuitbreaker.New("supabase", 5, 30*time.Second),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.sessions = newSessionManager(store, b.refreshToken, cfg.RefreshMargin)

	if err := b.sessions.restore(ctx); err != nil {
		// A broken persisted session only costs the user a fresh sign-in
		logger.Warn(ctx).Err(err).Msg("Failed to restore persisted session")
	}

	logger.Logger.Info().
		Str("url", base.String()).
		Msg("Supabase backend initialized")

	return b, nil
}

// Close stops the session refresh timer
func (b *SupabaseBackend) Close() error {
	b.sessions.stop()
	return nil
}

// apiError is the union of the error shapes PostgREST, GoTrue and Edge Functions return
type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Code             any    `json:"code"`
}

func (e apiError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Message, e.Msg, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// HTTPError is a non-2xx response from the backend
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// countable decides which failures trip the breaker: server and transport errors only
func countable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled)
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
	// bearer overrides the session access token
	bearer string
}

func (b *SupabaseBackend) do(ctx context.Context, req request, out any) error {
	u := *b.baseURL
	u.Path = b.baseURL.Path + req.path
	if req.query != nil {
		u.RawQuery = req.query.Encode()
	}

	var payload []byte
	if req.body != nil {
		var err error
		payload, err = json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	token := req.bearer
	if token == "" {
		token = b.sessions.accessToken()
	}
	if token == "" {
		token = b.cfg.AnonKey
	}

	return b.breaker.Call(func() error {
		httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("apikey", b.cfg.AnonKey)
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("Accept", "application/json")
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		for k, v := range req.headers {
			httpReq.Header.Set(k, v)
		}

		resp, err := b.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("failed to reach backend: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= http.StatusBadRequest {
			var apiErr apiError
			_ = json.Unmarshal(body, &apiErr)
			return &HTTPError{Status: resp.StatusCode, Message: apiErr.text()}
		}

		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}, countable)
}

// ListProducts returns every product, newest first
func (b *SupabaseBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := b.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/products",
		query:  url.Values{"select": {"*"}, "order": {"created_at.desc"}},
	}, &products)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// ListReviews returns the reviews of one product, newest first
func (b *SupabaseBackend) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	var reviews []domain.Review
	err := b.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/reviews",
		query: url.Values{
			"select":     {"*"},
			"product_id": {"eq." + productID},
			"order":      {"created_at.desc"},
		},
	}, &reviews)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// CreateReview inserts a review and returns the stored row
func (b *SupabaseBackend) CreateReview(ctx context.Context, review domain.NewReview) (*domain.Review, error) {
	var rows []domain.Review
	err := b.do(ctx, request{
		method:  http.MethodPost,
		path:    "/rest/v1/reviews",
		body:    review,
		headers: map[string]string{"Prefer": "return=representation"},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create review: backend returned no row")
	}
	return &rows[0], nil
}

// InvokeBulkGenerate calls the product generation edge function
func (b *SupabaseBackend) InvokeBulkGenerate(ctx context.Context, topic string) (string, error) {
	var result struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	err := b.do(ctx, request{
		method: http.MethodPost,
		path:   "/functions/v1/" + url.PathEscape(b.cfg.BulkFunction),
		body:   map[string]string{"topic": topic},
	}, &result)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Message != "" {
			return "", domain.NewFunctionError("invoke bulk generate", httpErr.Message, err)
		}
		return "", fmt.Errorf("failed to invoke function: %w", err)
	}
	if result.Error != "" {
		return "", domain.NewFunctionError("invoke bulk generate", result.Error, nil)
	}
	return result.Message, nil
}

// Ping checks the auth service health endpoint
func (b *SupabaseBackend) Ping(ctx context.Context) error {
	return b.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/v1/health",
		bearer: b.cfg.AnonKey,
	}, nil)
}

// BreakerStats reports the circuit breaker guarding backend calls
func (b *SupabaseBackend) BreakerStats() map[string]interface{} {
	return b.breaker.Stats()
}
