package repository

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// MetricsBackend records request counts and latency per backend operation
type MetricsBackend struct {
	next           domain.Backend
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewMetricsBackend wraps next and registers its collectors with reg
func NewMetricsBackend(next domain.Backend, reg prometheus.Registerer) (*MetricsBackend, error) {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_backend_requests_total",
			Help: "Total number of backend requests",
		},
		[]string{"op", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_backend_request_duration_seconds",
			Help:    "Backend request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	for _, c := range []prometheus.Collector{requestCounter, requestLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &MetricsBackend{
		next:           next,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
	}, nil
}

func (b *MetricsBackend) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	b.requestCounter.WithLabelValues(op, status).Inc()
	b.requestLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (b *MetricsBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	start := time.Now()
	products, err := b.next.ListProducts(ctx)
	b.observe("list_products", start, err)
	return products, err
}

func (b *MetricsBackend) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	start := time.Now()
	reviews, err := b.next.ListReviews(ctx, productID)
	b.observe("list_reviews", start, err)
	return reviews, err
}

func (b *MetricsBackend) CreateReview(ctx context.Context, review domain.NewReview) (*domain.Review, error) {
	start := time.Now()
	created, err := b.next.CreateReview(ctx, review)
	b.observe("create_review", start, err)
	return created, err
}

func (b *MetricsBackend) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	start := time.Now()
	user, err := b.next.SignIn(ctx, email, password)
	b.observe("sign_in", start, err)
	return user, err
}

func (b *MetricsBackend) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	start := time.Now()
	user, err := b.next.SignUp(ctx, email, password)
	b.observe("sign_up", start, err)
	return user, err
}

func (b *MetricsBackend) SignOut(ctx context.Context) error {
	start := time.Now()
	err := b.next.SignOut(ctx)
	b.observe("sign_out", start, err)
	return err
}

func (b *MetricsBackend) SubscribeSessionChanges(listener domain.SessionListener) func() {
	return b.next.SubscribeSessionChanges(listener)
}

func (b *MetricsBackend) InvokeBulkGenerate(ctx context.Context, topic string) (string, error) {
	start := time.Now()
	msg, err := b.next.InvokeBulkGenerate(ctx, topic)
	b.observe("invoke_bulk_generate", start, err)
	return msg, err
}

func (b *MetricsBackend) Ping(ctx context.Context) error {
	start := time.Now()
	err := b.next.Ping(ctx)
	b.observe("ping", start, err)
	return err
}
