package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/repository"
	"github.com/tair/affiliate-reviews/internal/storefront/state"
	"github.com/tair/affiliate-reviews/kafka"
	"github.com/tair/affiliate-reviews/pkg/storage"
)

type stubGenerator struct{}

func (stubGenerator) GenerateReview(_ context.Context, productName string) (string, error) {
	return "Solid value for the price: " + productName, nil
}

func newTestModel(t *testing.T) (Model, *state.App) {
	t.Helper()
	app := state.NewApp(state.Deps{
		Backend:   repository.NewMemoryBackend(),
		Generator: stubGenerator{},
		Publisher: kafka.NoopPublisher{},
		Store:     storage.NewFileStore(filepath.Join(t.TempDir(), "state.yaml")),
	})
	t.Cleanup(app.Close)

	require.Eventually(t, func() bool { return !app.Session.Loading() }, time.Second, 5*time.Millisecond)
	require.NoError(t, app.Catalog.Refresh(context.Background()))

	m := NewModel(context.Background(), app)
	t.Cleanup(m.Close)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, app
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// finish runs a store operation synchronously and feeds its result back
func finish(t *testing.T, m Model, cmd tea.Cmd) (Model, opDoneMsg) {
	t.Helper()
	require.NotNil(t, cmd)
	done, ok := cmd().(opDoneMsg)
	require.True(t, ok, "expected a store operation")
	m, _ = update(t, m, done)
	return m, done
}

func TestModel_GridSearchAndSelect(t *testing.T) {
	m, app := newTestModel(t)

	assert.Equal(t, domain.ScreenGrid, m.screen)
	assert.Contains(t, m.View(), "AeroGlide Wireless Mouse")

	m, _ = update(t, m, runes("/"))
	assert.Equal(t, focusSearch, m.focus)
	m, _ = update(t, m, runes("aero"))
	assert.Equal(t, "aero", app.Nav.Search())
	m, _ = update(t, m, key(tea.KeyEnter))
	assert.Equal(t, focusNone, m.focus)
	require.Len(t, app.VisibleProducts(), 1)

	m, cmd := update(t, m, key(tea.KeyEnter))
	m, done := finish(t, m, cmd)
	require.NoError(t, done.err)

	assert.Equal(t, domain.ScreenDetail, m.screen)
	view := m.View()
	assert.Contains(t, view, "AeroGlide Wireless Mouse")
	assert.Contains(t, view, "Reviews")
	assert.Len(t, app.Detail.Reviews(), 2)

	m, _ = update(t, m, key(tea.KeyEsc))
	assert.Equal(t, domain.ScreenGrid, m.screen)
	assert.Nil(t, app.Detail.Selected())
}

func TestModel_SearchWithoutMatches(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, runes("/"))
	m, _ = update(t, m, runes("zzzz"))

	assert.Contains(t, m.View(), "No products found.")
}

func TestModel_CursorStaysInRange(t *testing.T) {
	m, app := newTestModel(t)

	for range 10 {
		m, _ = update(t, m, runes("j"))
	}
	assert.Equal(t, len(app.VisibleProducts())-1, m.cursor)

	for range 10 {
		m, _ = update(t, m, runes("k"))
	}
	assert.Equal(t, 0, m.cursor)
}

func TestModel_CycleSort(t *testing.T) {
	m, app := newTestModel(t)

	m, _ = update(t, m, runes("s"))

	assert.Equal(t, domain.SortPriceAsc, app.Nav.Sort())
	assert.Contains(t, m.View(), domain.SortPriceAsc.Label())
}

func TestModel_SignIn(t *testing.T) {
	m, app := newTestModel(t)

	m, _ = update(t, m, runes("l"))
	require.Equal(t, domain.ScreenLogin, m.screen)
	assert.Contains(t, m.View(), "Welcome Back!")

	m, _ = update(t, m, runes("shopper@example.com"))
	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusPassword, m.focus)
	m, _ = update(t, m, runes(repository.MockPassword))

	m, cmd := update(t, m, key(tea.KeyEnter))
	m, done := finish(t, m, cmd)
	require.NoError(t, done.err)

	require.Eventually(t, func() bool { return app.Screen() == domain.ScreenGrid }, time.Second, 5*time.Millisecond)
	m, _ = update(t, m, changedMsg{})
	assert.Equal(t, domain.ScreenGrid, m.screen)
	assert.Contains(t, m.View(), "shopper@example.com")
	assert.Empty(t, m.email.Value())
	assert.Empty(t, m.password.Value())
}

func TestModel_SignInWrongPassword(t *testing.T) {
	m, app := newTestModel(t)

	m, _ = update(t, m, runes("l"))
	m, _ = update(t, m, runes("shopper@example.com"))
	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, runes("nope"))

	m, cmd := update(t, m, key(tea.KeyEnter))
	m, done := finish(t, m, cmd)
	require.Error(t, done.err)

	assert.Nil(t, app.Session.User())
	assert.Equal(t, domain.ScreenLogin, m.screen)
	require.NotEmpty(t, app.Session.Error())
	assert.Contains(t, m.View(), app.Session.Error())
}

func TestModel_ToggleLoginMode(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, runes("l"))
	m, _ = update(t, m, runes("someone@example.com"))
	m, _ = update(t, m, key(tea.KeyCtrlT))

	assert.Equal(t, modeSignUp, m.mode)
	assert.Empty(t, m.email.Value())
	assert.Contains(t, m.View(), "Create an Account")

	m, _ = update(t, m, key(tea.KeyEsc))
	assert.Equal(t, domain.ScreenGrid, m.screen)
}

func TestModel_SignUp(t *testing.T) {
	m, app := newTestModel(t)

	m, _ = update(t, m, runes("l"))
	m, _ = update(t, m, key(tea.KeyCtrlT))
	m, _ = update(t, m, runes("new@example.com"))
	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, runes("secret99"))

	m, cmd := update(t, m, key(tea.KeyEnter))
	_, done := finish(t, m, cmd)
	require.NoError(t, done.err)

	require.Eventually(t, func() bool {
		u := app.Session.User()
		return u != nil && u.Email == "new@example.com"
	}, time.Second, 5*time.Millisecond)
}

func TestModel_AdminRequiresSession(t *testing.T) {
	m, app := newTestModel(t)

	m, _ = update(t, m, runes("a"))
	assert.Equal(t, domain.ScreenAccessDenied, m.screen)
	assert.Contains(t, m.View(), "You must be logged in to access the Admin Panel.")

	m, _ = update(t, m, key(tea.KeyEsc))
	assert.Equal(t, domain.ScreenGrid, m.screen)

	_, err := app.Session.SignIn(context.Background(), "admin@example.com", repository.MockPassword)
	require.NoError(t, err)

	m, _ = update(t, m, runes("a"))
	require.Equal(t, domain.ScreenAdmin, m.screen)
	assert.Equal(t, focusTopic, m.focus)

	m, _ = update(t, m, runes("desk lamps"))
	m, cmd := update(t, m, key(tea.KeyEnter))
	m, done := finish(t, m, cmd)
	require.NoError(t, done.err)

	assert.NotEmpty(t, app.Admin.Success())
	assert.Empty(t, m.topic.Value())
	assert.Contains(t, m.View(), app.Admin.Success())
}

func TestModel_WriteReviewSignedOutGoesToLogin(t *testing.T) {
	m, app := newTestModel(t)

	require.NoError(t, app.Detail.Select(context.Background(), app.VisibleProducts()[0]))
	m, _ = update(t, m, changedMsg{})
	require.Equal(t, domain.ScreenDetail, m.screen)

	m, _ = update(t, m, runes("w"))

	assert.Equal(t, domain.ScreenLogin, m.screen)
}

func TestModel_SubmitReview(t *testing.T) {
	m, app := newTestModel(t)
	ctx := context.Background()

	_, err := app.Session.SignIn(ctx, "shopper@example.com", repository.MockPassword)
	require.NoError(t, err)
	require.NoError(t, app.Detail.Select(ctx, app.VisibleProducts()[0]))
	m, _ = update(t, m, changedMsg{})
	before := len(app.Detail.Reviews())

	m, _ = update(t, m, runes("w"))
	require.Equal(t, focusReview, m.focus)
	m, _ = update(t, m, runes("Great build quality."))

	m, cmd := update(t, m, key(tea.KeyCtrlS))
	m, done := finish(t, m, cmd)
	require.NoError(t, done.err)

	reviews := app.Detail.Reviews()
	require.Len(t, reviews, before+1)
	assert.Equal(t, "Great build quality.", reviews[0].Content)
	assert.Equal(t, "shopper@example.com", reviews[0].Author)
	assert.Equal(t, focusNone, m.focus)
	assert.Empty(t, m.review.Value())
}

func TestModel_GenerateReview(t *testing.T) {
	m, app := newTestModel(t)
	ctx := context.Background()

	_, err := app.Session.SignIn(ctx, "shopper@example.com", repository.MockPassword)
	require.NoError(t, err)
	product := app.VisibleProducts()[0]
	require.NoError(t, app.Detail.Select(ctx, product))
	m, _ = update(t, m, changedMsg{})

	m, cmd := update(t, m, runes("g"))
	m, done := finish(t, m, cmd)
	require.NoError(t, done.err)

	reviews := app.Detail.Reviews()
	require.NotEmpty(t, reviews)
	assert.True(t, reviews[0].IsAI)
	assert.Contains(t, m.View(), "[AI] "+domain.AILabel)
}

func TestModel_BuyShowsAffiliateLink(t *testing.T) {
	m, app := newTestModel(t)

	product := app.VisibleProducts()[0]
	require.NoError(t, app.Detail.Select(context.Background(), product))
	m, _ = update(t, m, changedMsg{})

	m, _ = update(t, m, runes("b"))

	assert.Equal(t, "Buy it here: "+product.AffiliateLink, m.notice)
}

func TestModel_ToggleTheme(t *testing.T) {
	m, app := newTestModel(t)
	require.Equal(t, domain.ThemeLight, m.styles.Theme)

	m, cmd := update(t, m, runes("t"))
	m, done := finish(t, m, cmd)
	require.NoError(t, done.err)

	assert.Equal(t, domain.ThemeDark, app.Prefs.Theme())
	assert.Equal(t, domain.ThemeDark, m.styles.Theme)
}

func TestModel_InFlightNotice(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, opDoneMsg{op: opGenerateReview, err: domain.ErrInFlight})

	assert.Equal(t, "Still working on the previous request.", m.notice)
	assert.Contains(t, m.View(), m.notice)
}

func TestModel_ErrorBanner(t *testing.T) {
	m, app := newTestModel(t)

	app.Errors.Set("Failed to fetch products.")

	assert.Contains(t, m.View(), "Failed to fetch products.")
}

func TestModel_WaitForChange(t *testing.T) {
	m, app := newTestModel(t)

	app.Nav.SetSearch("mouse")

	msg := m.waitForChange()()
	assert.Equal(t, changedMsg{}, msg)
}

func TestModel_WaitForChangeStopsWithContext(t *testing.T) {
	_, app := newTestModel(t)
	ctx, cancel := context.WithCancel(context.Background())
	m := NewModel(ctx, app)
	defer m.Close()

	cancel()

	assert.Nil(t, m.waitForChange()())
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := update(t, m, key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
