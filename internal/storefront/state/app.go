package state

import (
	"context"
	"sync"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/usecase/command"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

// Deps are the collaborators the storefront runs against
type Deps struct {
	Backend   domain.Backend
	Generator domain.TextGenerator
	Publisher domain.ActivityPublisher
	Store     domain.KeyValueStore
	Sort      domain.SortKey
}

// App wires every store and flow of the storefront together
type App struct {
	Nav     *Navigator
	Errors  *ErrorSlot
	Session *SessionStore
	Catalog *CatalogStore
	Detail  *DetailController
	Reviews *ReviewFlow
	Admin   *AdminTrigger
	Prefs   *Preferences

	affiliate *command.OpenAffiliateLinkHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	lastUser *domain.User
	closed   bool
	unsubs   []func()
}

// NewApp creates the storefront state
func NewApp(deps Deps) *App {
	nav := NewNavigator()
	if deps.Sort != "" {
		nav.SetSort(deps.Sort)
	}
	errs := NewErrorSlot()
	session := NewSessionStore(deps.Backend, nav)
	catalog := NewCatalogStore(deps.Backend, errs)
	detail := NewDetailController(deps.Backend, errs, nav)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Nav:       nav,
		Errors:    errs,
		Session:   session,
		Catalog:   catalog,
		Detail:    detail,
		Reviews:   NewReviewFlow(detail, session, deps.Backend, deps.Generator, deps.Publisher, errs),
		Admin:     NewAdminTrigger(deps.Backend, deps.Publisher, session, catalog),
		Prefs:     NewPreferences(deps.Store),
		affiliate: command.NewOpenAffiliateLinkHandler(deps.Publisher),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.unsubs = append(a.unsubs,
		nav.OnHome(a.onHome),
		session.Subscribe(a.onSessionChange),
	)
	return a
}

// Start loads preferences and kicks off the first catalog refresh
func (a *App) Start(ctx context.Context) error {
	if err := a.Prefs.Load(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Using default theme")
	}
	a.Go(func(ctx context.Context) {
		_ = a.Catalog.Refresh(ctx)
	})
	return nil
}

// Go runs fn in the background until Close. fn's context ends on Close.
func (a *App) Go(fn func(ctx context.Context)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(a.ctx)
	}()
}

// Close cancels background work, waits for it and stops all subscriptions
func (a *App) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	unsubs := a.unsubs
	a.unsubs = nil
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	a.Session.Close()
}

// Subscribe registers fn with every store. The returned func removes it everywhere.
func (a *App) Subscribe(fn func()) func() {
	unsubs := []func(){
		a.Nav.Subscribe(fn),
		a.Errors.Subscribe(fn),
		a.Session.Subscribe(fn),
		a.Catalog.Subscribe(fn),
		a.Detail.Subscribe(fn),
		a.Admin.Subscribe(fn),
		a.Prefs.Subscribe(fn),
	}
	return func() {
		for _, unsubscribe := range unsubs {
			unsubscribe()
		}
	}
}

// Screen decides what the view layer shows
func (a *App) Screen() domain.Screen {
	switch a.Nav.Page() {
	case domain.PageLogin:
		return domain.ScreenLogin
	case domain.PageAdmin:
		if a.Session.User() == nil {
			return domain.ScreenAccessDenied
		}
		return domain.ScreenAdmin
	}
	if a.Detail.Selected() != nil {
		return domain.ScreenDetail
	}
	return domain.ScreenGrid
}

// VisibleProducts is the catalog filtered and ordered by the current search and sort
func (a *App) VisibleProducts() []domain.Product {
	return View(a.Catalog.Products(), a.Nav.Search(), a.Nav.Sort())
}

// OpenAffiliateLink records the click and returns the product's link
func (a *App) OpenAffiliateLink(ctx context.Context, product domain.Product) string {
	var userID string
	if u := a.Session.User(); u != nil {
		userID = u.ID
	}
	return a.affiliate.Handle(ctx, command.OpenAffiliateLinkCommand{Product: product, UserID: userID})
}

// onHome refreshes the catalog whenever the home page shows the grid
func (a *App) onHome() {
	if a.Detail.Selected() != nil {
		return
	}
	a.Go(func(ctx context.Context) {
		_ = a.Catalog.Refresh(ctx)
	})
}

// onSessionChange leaves the login page once a session appears
func (a *App) onSessionChange() {
	user := a.Session.User()

	a.mu.Lock()
	signedIn := a.lastUser == nil && user != nil
	a.lastUser = user
	a.mu.Unlock()

	if signedIn && a.Nav.Page() == domain.PageLogin {
		a.Nav.GoHome()
	}
}
