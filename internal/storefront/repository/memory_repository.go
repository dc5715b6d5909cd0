package repository

import (
	"context"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// MockPassword is the only password the memory backend accepts for sign-in
const MockPassword = "password123"

// MockUserID is the identity returned for every mock sign-in
const MockUserID = "user-123"

// MemoryBackend is an in-process stand-in for the hosted backend.
// It serves seeded data and simulates network latency.
type MemoryBackend struct {
	mu       sync.RWMutex
	products []domain.Product
	reviews  []domain.Review
	hub      *sessionHub
	latency  time.Duration
	now      func() time.Time
}

// MemoryOption customizes a MemoryBackend
type MemoryOption func(*MemoryBackend)

// WithLatency delays every call, like a real network round trip
func WithLatency(d time.Duration) MemoryOption {
	return func(b *MemoryBackend) { b.latency = d }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) MemoryOption {
	return func(b *MemoryBackend) { b.now = now }
}

// WithSeed replaces the default catalog
func WithSeed(products []domain.Product, reviews []domain.Review) MemoryOption {
	return func(b *MemoryBackend) {
		b.products = slices.Clone(products)
		b.reviews = slices.Clone(reviews)
	}
}

// NewMemoryBackend creates a memory backend preloaded with the demo catalog
func NewMemoryBackend(opts ...MemoryOption) *MemoryBackend {
	b := &MemoryBackend{
		hub: newSessionHub(),
		now: time.Now,
	}
	b.products, b.reviews = seedCatalog(time.Now())
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *MemoryBackend) wait(ctx context.Context) error {
	if b.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(b.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListProducts returns every product, newest first
func (b *MemoryBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := b.wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	products := slices.Clone(b.products)
	slices.SortStableFunc(products, func(a, c domain.Product) int {
		return c.CreatedAt.Compare(a.CreatedAt)
	})
	return products, nil
}

// ListReviews returns the reviews of one product, newest first
func (b *MemoryBackend) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	if err := b.wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	reviews := []domain.Review{}
	for _, r := range b.reviews {
		if r.ProductID == productID {
			reviews = append(reviews, r)
		}
	}
	slices.SortStableFunc(reviews, func(a, c domain.Review) int {
		return c.CreatedAt.Compare(a.CreatedAt)
	})
	return reviews, nil
}

// CreateReview stores a review, assigning its id and timestamp
func (b *MemoryBackend) CreateReview(ctx context.Context, review domain.NewReview) (*domain.Review, error) {
	if err := b.wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	if strings.TrimSpace(review.ProductID) == "" {
		return nil, fmt.Errorf("product id is required")
	}
	if strings.TrimSpace(review.Content) == "" {
		return nil, fmt.Errorf("content is required")
	}

	created := domain.Review{
		ID:        uuid.NewString(),
		ProductID: review.ProductID,
		Author:    review.Author,
		Content:   review.Content,
		CreatedAt: b.now().UTC(),
		IsAI:      review.IsAI,
	}

	b.mu.Lock()
	b.reviews = append(b.reviews, created)
	b.mu.Unlock()

	return &created, nil
}

// SignIn accepts any email with MockPassword
func (b *MemoryBackend) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if err := b.wait(ctx); err != nil {
		return nil, domain.NewAuthError(domain.ReasonNetwork, "sign in", "Network error, please try again.", err)
	}
	if password != MockPassword {
		return nil, domain.NewAuthError(domain.ReasonInvalidCredentials, "sign in", "Invalid password", nil)
	}

	user, err := domain.NewUser(MockUserID, email)
	if err != nil {
		return nil, err
	}
	b.hub.set(user)
	return copyUser(user), nil
}

// SignUp registers a new identity and signs it in
func (b *MemoryBackend) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	if err := b.wait(ctx); err != nil {
		return nil, domain.NewAuthError(domain.ReasonNetwork, "sign up", "Network error, please try again.", err)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewAuthError(domain.ReasonValidation, "sign up", "Unable to validate email address: invalid format", err)
	}
	if len(password) < 6 {
		return nil, domain.NewAuthError(domain.ReasonValidation, "sign up", "Password should be at least 6 characters.", nil)
	}

	user, err := domain.NewUser(uuid.NewString(), email)
	if err != nil {
		return nil, err
	}
	b.hub.set(user)
	return copyUser(user), nil
}

// SignOut ends the session
func (b *MemoryBackend) SignOut(ctx context.Context) error {
	if err := b.wait(ctx); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	b.hub.set(nil)
	return nil
}

// ExpireSession ends the session as if the server revoked it
func (b *MemoryBackend) ExpireSession() {
	b.hub.set(nil)
}

// SubscribeSessionChanges delivers the current identity, then every transition
func (b *MemoryBackend) SubscribeSessionChanges(listener domain.SessionListener) func() {
	return b.hub.subscribe(listener)
}

// InvokeBulkGenerate adds a handful of products for the topic
func (b *MemoryBackend) InvokeBulkGenerate(ctx context.Context, topic string) (string, error) {
	if err := b.wait(ctx); err != nil {
		return "", fmt.Errorf("failed to invoke function: %w", err)
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("topic is required")
	}
	if b.hub.user() == nil {
		return "", fmt.Errorf("not authenticated")
	}

	title := cases.Title(language.English).String(topic)
	editions := []struct {
		suffix string
		price  string
	}{
		{"Essentials", "29.99"},
		{"Pro Edition", "89.00"},
		{"Starter Kit", "49.50"},
	}

	now := b.now().UTC()
	generated := make([]domain.Product, 0, len(editions))
	for i, e := range editions {
		generated = append(generated, domain.Product{
			ID:            uuid.NewString(),
			Name:          title + " " + e.suffix,
			ImageURL:      "https://picsum.photos/seed/" + uuid.NewString()[:8] + "/600/400",
			Price:         decimal.RequireFromString(e.price),
			AffiliateLink: "#",
			Description:   fmt.Sprintf("A curated %s pick generated for %q.", strings.ToLower(e.suffix), topic),
			CreatedAt:     now.Add(time.Duration(i) * time.Millisecond),
		})
	}

	b.mu.Lock()
	b.products = append(b.products, generated...)
	b.mu.Unlock()

	return fmt.Sprintf("Generated %d products for %q", len(generated), topic), nil
}

// Ping always succeeds
func (b *MemoryBackend) Ping(context.Context) error {
	return nil
}
