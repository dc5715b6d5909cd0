package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

const tracerName = "storefront-backend"

// TracingBackend wraps a backend with one span per call
type TracingBackend struct {
	next   domain.Backend
	tracer trace.Tracer
}

// NewTracingBackend creates a new backend with tracing. The tracer comes from
// the global provider at construction, so InitTracer has to run first.
func NewTracingBackend(next domain.Backend) *TracingBackend {
	return &TracingBackend{next: next, tracer: otel.Tracer(tracerName)}
}

// ListProducts with tracing
func (b *TracingBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := b.tracer.Start(ctx, "backend.ListProducts")
	defer span.End()

	products, err := b.next.ListProducts(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// ListReviews with tracing
func (b *TracingBackend) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	ctx, span := b.tracer.Start(ctx, "backend.ListReviews",
		trace.WithAttributes(attribute.String("product.id", productID)),
	)
	defer span.End()

	reviews, err := b.next.ListReviews(ctx, productID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(reviews)))
	return reviews, nil
}

// CreateReview with tracing
func (b *TracingBackend) CreateReview(ctx context.Context, review domain.NewReview) (*domain.Review, error) {
	ctx, span := b.tracer.Start(ctx, "backend.CreateReview",
		trace.WithAttributes(
			attribute.String("product.id", review.ProductID),
			attribute.Bool("review.is_ai", review.IsAI),
		),
	)
	defer span.End()

	created, err := b.next.CreateReview(ctx, review)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("review.id", created.ID))
	return created, nil
}

// SignIn with tracing. Credentials never go into attributes.
func (b *TracingBackend) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, span := b.tracer.Start(ctx, "backend.SignIn")
	defer span.End()

	user, err := b.next.SignIn(ctx, email, password)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}

// SignUp with tracing
func (b *TracingBackend) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, span := b.tracer.Start(ctx, "backend.SignUp")
	defer span.End()

	user, err := b.next.SignUp(ctx, email, password)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}

// SignOut with tracing
func (b *TracingBackend) SignOut(ctx context.Context) error {
	ctx, span := b.tracer.Start(ctx, "backend.SignOut")
	defer span.End()

	if err := b.next.SignOut(ctx); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// SubscribeSessionChanges is passed through untraced; it is not a request
func (b *TracingBackend) SubscribeSessionChanges(listener domain.SessionListener) func() {
	return b.next.SubscribeSessionChanges(listener)
}

// InvokeBulkGenerate with tracing
func (b *TracingBackend) InvokeBulkGenerate(ctx context.Context, topic string) (string, error) {
	ctx, span := b.tracer.Start(ctx, "backend.InvokeBulkGenerate",
		trace.WithAttributes(attribute.String("generate.topic", topic)),
	)
	defer span.End()

	msg, err := b.next.InvokeBulkGenerate(ctx, topic)
	if err != nil {
		recordError(span, err)
		return "", err
	}
	return msg, nil
}

// Ping with tracing
func (b *TracingBackend) Ping(ctx context.Context) error {
	ctx, span := b.tracer.Start(ctx, "backend.Ping")
	defer span.End()

	if err := b.next.Ping(ctx); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
