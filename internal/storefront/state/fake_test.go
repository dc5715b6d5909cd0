package state

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/repository"
	"github.com/tair/affiliate-reviews/pkg/storage"
)

// fakeBackend delegates to the memory backend unless a hook is set, and counts calls
type fakeBackend struct {
	*repository.MemoryBackend

	mu           sync.Mutex
	calls        map[string]int
	listProducts func(ctx context.Context) ([]domain.Product, error)
	listReviews  func(ctx context.Context, productID string) ([]domain.Review, error)
	createReview func(ctx context.Context, review domain.NewReview) (*domain.Review, error)
	bulkGenerate func(ctx context.Context, topic string) (string, error)
}

func newFakeBackend(opts ...repository.MemoryOption) *fakeBackend {
	return &fakeBackend{
		MemoryBackend: repository.NewMemoryBackend(opts...),
		calls:         make(map[string]int),
	}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) ListProducts(ctx context.Context) ([]domain.Product, error) {
	f.record("ListProducts")
	f.mu.Lock()
	hook := f.listProducts
	f.mu.Unlock()
	if hook != nil {
		return hook(ctx)
	}
	return f.MemoryBackend.ListProducts(ctx)
}

func (f *fakeBackend) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	f.record("ListReviews")
	f.mu.Lock()
	hook := f.listReviews
	f.mu.Unlock()
	if hook != nil {
		return hook(ctx, productID)
	}
	return f.MemoryBackend.ListReviews(ctx, productID)
}

func (f *fakeBackend) CreateReview(ctx context.Context, review domain.NewReview) (*domain.Review, error) {
	f.record("CreateReview")
	f.mu.Lock()
	hook := f.createReview
	f.mu.Unlock()
	if hook != nil {
		return hook(ctx, review)
	}
	return f.MemoryBackend.CreateReview(ctx, review)
}

func (f *fakeBackend) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	f.record("SignIn")
	return f.MemoryBackend.SignIn(ctx, email, password)
}

func (f *fakeBackend) InvokeBulkGenerate(ctx context.Context, topic string) (string, error) {
	f.record("InvokeBulkGenerate")
	f.mu.Lock()
	hook := f.bulkGenerate
	f.mu.Unlock()
	if hook != nil {
		return hook(ctx, topic)
	}
	return f.MemoryBackend.InvokeBulkGenerate(ctx, topic)
}

func (f *fakeBackend) setListReviews(hook func(ctx context.Context, productID string) ([]domain.Review, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listReviews = hook
}

func (f *fakeBackend) setListProducts(hook func(ctx context.Context) ([]domain.Product, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listProducts = hook
}

func (f *fakeBackend) setCreateReview(hook func(ctx context.Context, review domain.NewReview) (*domain.Review, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createReview = hook
}

func (f *fakeBackend) setBulkGenerate(hook func(ctx context.Context, topic string) (string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkGenerate = hook
}

// fakeGenerator returns fixed text and remembers the product names it was asked about
type fakeGenerator struct {
	mu    sync.Mutex
	names []string
	text  string
	err   error
}

func (g *fakeGenerator) GenerateReview(_ context.Context, productName string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.names = append(g.names, productName)
	return g.text, g.err
}

func (g *fakeGenerator) asked() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.names...)
}

// fakePublisher records events
type fakePublisher struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (p *fakePublisher) Publish(_ context.Context, event domain.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type harness struct {
	app       *App
	backend   *fakeBackend
	generator *fakeGenerator
	publisher *fakePublisher
	store     *storage.FileStore
}

func newHarness(t *testing.T, opts ...repository.MemoryOption) *harness {
	t.Helper()
	h := &harness{
		backend:   newFakeBackend(opts...),
		generator: &fakeGenerator{text: "A dependable pick for everyday use."},
		publisher: &fakePublisher{},
		store:     storage.NewFileStore(filepath.Join(t.TempDir(), "state.yaml")),
	}
	h.app = NewApp(Deps{
		Backend:   h.backend,
		Generator: h.generator,
		Publisher: h.publisher,
		Store:     h.store,
	})
	t.Cleanup(h.app.Close)

	// Wait for the initial session check
	require.Eventually(t, func() bool { return !h.app.Session.Loading() }, time.Second, 5*time.Millisecond)
	return h
}

func (h *harness) signIn(t *testing.T) *domain.User {
	t.Helper()
	user, err := h.app.Session.SignIn(context.Background(), "shopper@example.com", repository.MockPassword)
	require.NoError(t, err)
	return user
}

func (h *harness) productByID(t *testing.T, id string) domain.Product {
	t.Helper()
	products, err := h.backend.MemoryBackend.ListProducts(context.Background())
	require.NoError(t, err)
	for _, p := range products {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("product %s not seeded", id)
	return domain.Product{}
}
