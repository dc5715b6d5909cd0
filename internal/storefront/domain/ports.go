package domain

import "context"

// CatalogReader reads products and reviews from the backend
type CatalogReader interface {
	// ListProducts returns every product, newest first
	ListProducts(ctx context.Context) ([]Product, error)
	// ListReviews returns the reviews of one product, newest first
	ListReviews(ctx context.Context, productID string) ([]Review, error)
}

// ReviewWriter persists reviews
type ReviewWriter interface {
	CreateReview(ctx context.Context, review NewReview) (*Review, error)
}

// SessionListener receives the identity after every session transition (nil when it ended)
type SessionListener func(user *User)

// Authenticator drives the backend's auth endpoints.
//
// SubscribeSessionChanges delivers the current session once, asynchronously,
// right after subscribing, then again on every transition.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
	SubscribeSessionChanges(listener SessionListener) (unsubscribe func())
}

// FunctionInvoker calls server side functions
type FunctionInvoker interface {
	// InvokeBulkGenerate asks the backend to create AI products for a topic
	// and returns the message it reports
	InvokeBulkGenerate(ctx context.Context, topic string) (string, error)
}

// Backend is the persistence and auth collaborator
type Backend interface {
	CatalogReader
	ReviewWriter
	Authenticator
	FunctionInvoker
	Ping(ctx context.Context) error
}

// TextGenerator produces review text for a product
type TextGenerator interface {
	GenerateReview(ctx context.Context, productName string) (string, error)
}

// ActivityPublisher ships storefront activity events
type ActivityPublisher interface {
	Publish(ctx context.Context, event ActivityEvent) error
}

// KeyValueStore is durable client-side storage
type KeyValueStore interface {
	// Get returns ("", false, nil) when the key is absent
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
