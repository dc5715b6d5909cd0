package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/state"
)

type focusArea int

const (
	focusNone focusArea = iota
	focusSearch
	focusReview
	focusEmail
	focusPassword
	focusTopic
)

type loginMode int

const (
	modeSignIn loginMode = iota
	modeSignUp
)

// Operation names carried by opDoneMsg
const (
	opSelect           = "select"
	opRefresh          = "refresh"
	opSubmitReview     = "submit-review"
	opGenerateReview   = "generate-review"
	opGenerateProducts = "generate-products"
	opSignIn           = "sign-in"
	opSignUp           = "sign-up"
	opSignOut          = "sign-out"
	opToggleTheme      = "toggle-theme"
)

// changedMsg tells the model that some store changed
type changedMsg struct{}

// opDoneMsg reports the end of a store operation started by a key press
type opDoneMsg struct {
	op  string
	err error
}

// Model is the storefront's bubbletea model
type Model struct {
	app         *state.App
	ctx         context.Context
	changes     chan struct{}
	unsubscribe func()

	styles Styles
	screen domain.Screen
	width  int
	height int
	cursor int
	focus  focusArea
	mode   loginMode
	notice string

	search   textinput.Model
	review   textarea.Model
	email    textinput.Model
	password textinput.Model
	topic    textinput.Model
	spinner  spinner.Model
}

// NewModel creates the model and subscribes it to every store of app.
// Store operations run with ctx; cancel it once the program exits.
func NewModel(ctx context.Context, app *state.App) Model {
	changes := make(chan struct{}, 1)
	unsubscribe := app.Subscribe(func() {
		// Coalesce bursts of notifications into one redraw
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	search := textinput.New()
	search.Placeholder = "Search products..."
	search.Prompt = "/ "

	review := textarea.New()
	review.SetHeight(4)
	review.ShowLineNumbers = false

	email := textinput.New()
	email.Placeholder = "Email address"

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	topic := textinput.New()
	topic.Placeholder = "e.g. 'coffee brewing equipment' or 'running shoes for beginners'"
	topic.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		app:         app,
		ctx:         ctx,
		changes:     changes,
		unsubscribe: unsubscribe,
		styles:      NewStyles(app.Prefs.Theme()),
		search:      search,
		review:      review,
		email:       email,
		password:    password,
		topic:       topic,
		spinner:     sp,
	}
	m.enterScreen(app.Screen())
	return m
}

// Close stops listening to the stores
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init starts the change bridge and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.spinner.Tick)
}

func (m Model) waitForChange() tea.Cmd {
	changes, done := m.changes, m.ctx.Done()
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-done:
			return nil
		}
	}
}

// run executes fn off the UI goroutine and reports back with opDoneMsg
func (m Model) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.review.SetWidth(max(20, msg.Width-4))
		m.search.Width = max(20, msg.Width/2)
		m.topic.Width = max(20, msg.Width-8)

	case changedMsg:
		cmd = m.waitForChange()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)

	case opDoneMsg:
		m.handleDone(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.notice = ""
		switch m.screen {
		case domain.ScreenGrid:
			cmd = m.handleGridKey(msg)
		case domain.ScreenDetail:
			cmd = m.handleDetailKey(msg)
		case domain.ScreenLogin:
			cmd = m.handleLoginKey(msg)
		case domain.ScreenAdmin:
			cmd = m.handleAdminKey(msg)
		case domain.ScreenAccessDenied:
			cmd = m.handleAccessDeniedKey(msg)
		}
	}

	if theme := m.app.Prefs.Theme(); theme != m.styles.Theme {
		m.styles = NewStyles(theme)
	}
	if screen := m.app.Screen(); screen != m.screen {
		m.enterScreen(screen)
	}
	m.clampCursor()

	return m, cmd
}

func (m *Model) enterScreen(screen domain.Screen) {
	m.screen = screen
	m.focus = focusNone
	m.search.Blur()
	m.review.Blur()
	m.email.Blur()
	m.password.Blur()
	m.topic.Blur()

	switch screen {
	case domain.ScreenLogin:
		m.focus = focusEmail
		m.email.Focus()
	case domain.ScreenAdmin:
		m.focus = focusTopic
		m.topic.Focus()
	}
}

func (m *Model) clampCursor() {
	n := len(m.app.VisibleProducts())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) handleDone(msg opDoneMsg) {
	if errors.Is(msg.err, domain.ErrInFlight) {
		m.notice = "Still working on the previous request."
		return
	}

	switch msg.op {
	case opSubmitReview:
		if msg.err == nil {
			m.review.Reset()
			m.review.Blur()
			m.focus = focusNone
		}
	case opSignIn:
		if msg.err == nil {
			m.email.Reset()
			m.password.Reset()
		}
	case opSignUp:
		if msg.err == nil {
			m.email.Reset()
			m.password.Reset()
			if m.app.Session.User() == nil {
				m.notice = "Check your email to confirm your account, then sign in."
				m.mode = modeSignIn
			}
		}
	case opSignOut:
		if msg.err == nil {
			m.notice = "Signed out."
		}
	case opGenerateProducts:
		if msg.err == nil {
			m.topic.Reset()
		}
	case opToggleTheme:
		if msg.err != nil {
			m.notice = "Theme changed but could not be saved."
		}
	}
}
