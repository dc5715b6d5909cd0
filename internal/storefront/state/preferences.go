package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

const themeKey = "theme"

// Preferences holds the persisted theme
type Preferences struct {
	notifier

	store domain.KeyValueStore

	mu    sync.RWMutex
	theme domain.Theme
}

// NewPreferences creates preferences backed by store, starting on the light theme
func NewPreferences(store domain.KeyValueStore) *Preferences {
	return &Preferences{store: store, theme: domain.ThemeLight}
}

// Load reads the saved theme
func (p *Preferences) Load(ctx context.Context) error {
	raw, ok, err := p.store.Get(ctx, themeKey)
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}
	if !ok {
		return nil
	}

	p.mu.Lock()
	p.theme = domain.ParseTheme(raw)
	p.mu.Unlock()
	p.notify()
	return nil
}

// Theme returns the current theme
func (p *Preferences) Theme() domain.Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

// ToggleTheme flips the theme and saves it. The new theme applies even when saving fails.
func (p *Preferences) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	p.mu.Lock()
	p.theme = p.theme.Toggle()
	theme := p.theme
	p.mu.Unlock()
	p.notify()

	if err := p.store.Set(ctx, themeKey, string(theme)); err != nil {
		return theme, fmt.Errorf("failed to save theme: %w", err)
	}
	return theme, nil
}
