package state

import (
	"sync"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// Navigator holds the current page, search text and sort key
type Navigator struct {
	notifier
	home notifier

	mu     sync.RWMutex
	page   domain.Page
	search string
	sort   domain.SortKey
}

// NewNavigator creates a navigator on the home page
func NewNavigator() *Navigator {
	return &Navigator{page: domain.PageHome, sort: domain.SortDefault}
}

// Page returns the current page
func (n *Navigator) Page() domain.Page {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.page
}

// GoTo switches page. Going to the home page behaves like GoHome.
func (n *Navigator) GoTo(page domain.Page) {
	if page == domain.PageHome {
		n.GoHome()
		return
	}
	n.mu.Lock()
	n.page = page
	n.mu.Unlock()
	n.notify()
}

// GoHome switches to the home page and fires the home listeners, even when
// the home page is already showing
func (n *Navigator) GoHome() {
	n.mu.Lock()
	n.page = domain.PageHome
	n.mu.Unlock()
	n.notify()
	n.home.notify()
}

// OnHome registers fn to run on every GoHome
func (n *Navigator) OnHome(fn func()) func() {
	return n.home.Subscribe(fn)
}

// Search returns the search text
func (n *Navigator) Search() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.search
}

// SetSearch replaces the search text
func (n *Navigator) SetSearch(search string) {
	n.mu.Lock()
	n.search = search
	n.mu.Unlock()
	n.notify()
}

// Sort returns the sort key
func (n *Navigator) Sort() domain.SortKey {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sort
}

// SetSort replaces the sort key
func (n *Navigator) SetSort(key domain.SortKey) {
	n.mu.Lock()
	n.sort = key
	n.mu.Unlock()
	n.notify()
}

// CycleSort advances to the next sort key
func (n *Navigator) CycleSort() domain.SortKey {
	n.mu.Lock()
	n.sort = n.sort.Next()
	key := n.sort
	n.mu.Unlock()
	n.notify()
	return key
}
