package state

import (
	"context"
	"strings"
	"sync"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/usecase/command"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

// AdminTrigger runs AI product generation. It keeps its own loading, error
// and success state apart from the shared error slot.
type AdminTrigger struct {
	notifier

	handler *command.GenerateProductsHandler
	session *SessionStore
	catalog *CatalogStore

	mu      sync.RWMutex
	loading bool
	errMsg  string
	success string
}

// NewAdminTrigger creates an admin trigger
func NewAdminTrigger(invoker domain.FunctionInvoker, publisher domain.ActivityPublisher, session *SessionStore, catalog *CatalogStore) *AdminTrigger {
	return &AdminTrigger{
		handler: command.NewGenerateProductsHandler(invoker, publisher),
		session: session,
		catalog: catalog,
	}
}

// Loading is true while generation runs
func (a *AdminTrigger) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

// Error returns the message of the last failure
func (a *AdminTrigger) Error() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.errMsg
}

// Success returns the message of the last success
func (a *AdminTrigger) Success() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.success
}

// GenerateProducts asks the backend to create products for topic and
// refreshes the catalog afterwards. Blank topics and missing sessions are
// rejected before any network call.
func (a *AdminTrigger) GenerateProducts(ctx context.Context, topic string) error {
	if strings.TrimSpace(topic) == "" {
		a.setError(command.MsgBlankTopic)
		return domain.ErrBlankInput
	}
	user := a.session.User()
	if user == nil {
		a.setError(command.MsgNotSignedIn)
		return domain.ErrNotSignedIn
	}

	a.mu.Lock()
	if a.loading {
		a.mu.Unlock()
		return domain.ErrInFlight
	}
	a.loading = true
	a.errMsg = ""
	a.success = ""
	a.mu.Unlock()
	a.notify()

	msg, err := a.handler.Handle(ctx, command.GenerateProductsCommand{Topic: topic, UserID: user.ID})

	a.mu.Lock()
	a.loading = false
	if err != nil {
		a.errMsg = domain.UserMessage(err, command.MsgUnexpected)
	} else {
		a.success = msg
	}
	a.mu.Unlock()
	a.notify()

	if err != nil {
		logger.Error(ctx).Err(err).Str("topic", topic).Msg("Product generation failed")
		return err
	}

	logger.Info(ctx).Str("topic", topic).Msg("Products generated")
	_ = a.catalog.Refresh(ctx)
	return nil
}

// Reset clears the error and success messages
func (a *AdminTrigger) Reset() {
	a.mu.Lock()
	a.errMsg = ""
	a.success = ""
	a.mu.Unlock()
	a.notify()
}

func (a *AdminTrigger) setError(msg string) {
	a.mu.Lock()
	a.errMsg = msg
	a.mu.Unlock()
	a.notify()
}
