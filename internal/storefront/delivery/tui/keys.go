package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// handleCommonKey covers keys that work on every screen outside text entry
func (m *Model) handleCommonKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "t":
		return m.run(opToggleTheme, func(ctx context.Context) error {
			_, err := m.app.Prefs.ToggleTheme(ctx)
			return err
		}), true
	case "l":
		if m.app.Session.User() == nil {
			m.app.Nav.GoTo(domain.PageLogin)
		}
		return nil, true
	case "o":
		if m.app.Session.User() != nil {
			return m.run(opSignOut, m.app.Session.SignOut), true
		}
		return nil, true
	case "a":
		m.app.Nav.GoTo(domain.PageAdmin)
		return nil, true
	}
	return nil, false
}

func (m *Model) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	if m.focus == focusSearch {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.focus = focusNone
			m.search.Blur()
			return nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != m.app.Nav.Search() {
			m.app.Nav.SetSearch(m.search.Value())
			m.cursor = 0
		}
		return cmd
	}

	if cmd, ok := m.handleCommonKey(msg); ok {
		return cmd
	}

	switch msg.String() {
	case "/":
		m.focus = focusSearch
		return m.search.Focus()
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "s":
		m.app.Nav.CycleSort()
	case "r":
		return m.run(opRefresh, m.app.Catalog.Refresh)
	case "enter":
		products := m.app.VisibleProducts()
		if m.cursor < 0 || m.cursor >= len(products) {
			return nil
		}
		p := products[m.cursor]
		return m.run(opSelect, func(ctx context.Context) error {
			return m.app.Detail.Select(ctx, p)
		})
	}
	return nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	if m.focus == focusReview {
		switch msg.Type {
		case tea.KeyEsc:
			m.focus = focusNone
			m.review.Blur()
			return nil
		case tea.KeyCtrlS:
			text := m.review.Value()
			return m.run(opSubmitReview, func(ctx context.Context) error {
				return m.app.Reviews.SubmitManualReview(ctx, text)
			})
		}
		var cmd tea.Cmd
		m.review, cmd = m.review.Update(msg)
		return cmd
	}

	if cmd, ok := m.handleCommonKey(msg); ok {
		return cmd
	}

	switch msg.String() {
	case "esc", "backspace", "h":
		m.app.Detail.Deselect()
	case "w":
		user := m.app.Session.User()
		if user == nil {
			m.app.Nav.GoTo(domain.PageLogin)
			return nil
		}
		m.focus = focusReview
		m.review.Placeholder = "What do you think, " + user.Email + "?"
		return m.review.Focus()
	case "g":
		return m.run(opGenerateReview, m.app.Reviews.GenerateAIReview)
	case "b":
		if p := m.app.Detail.Selected(); p != nil {
			m.notice = "Buy it here: " + m.app.OpenAffiliateLink(m.ctx, *p)
		}
	}
	return nil
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.app.Session.ClearError()
		m.app.Nav.GoHome()
		return nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if m.focus == focusEmail {
			m.focus = focusPassword
			m.email.Blur()
			return m.password.Focus()
		}
		m.focus = focusEmail
		m.password.Blur()
		return m.email.Focus()
	case tea.KeyCtrlT:
		if m.mode == modeSignIn {
			m.mode = modeSignUp
		} else {
			m.mode = modeSignIn
		}
		m.email.Reset()
		m.password.Reset()
		m.app.Session.ClearError()
		return nil
	case tea.KeyEnter:
		email, password := m.email.Value(), m.password.Value()
		if m.mode == modeSignUp {
			return m.run(opSignUp, func(ctx context.Context) error {
				_, err := m.app.Session.SignUp(ctx, email, password)
				return err
			})
		}
		return m.run(opSignIn, func(ctx context.Context) error {
			_, err := m.app.Session.SignIn(ctx, email, password)
			return err
		})
	}

	var cmd tea.Cmd
	if m.focus == focusPassword {
		m.password, cmd = m.password.Update(msg)
	} else {
		m.email, cmd = m.email.Update(msg)
	}
	return cmd
}

func (m *Model) handleAdminKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.app.Admin.Reset()
		m.app.Nav.GoHome()
		return nil
	case tea.KeyEnter:
		topic := m.topic.Value()
		return m.run(opGenerateProducts, func(ctx context.Context) error {
			return m.app.Admin.GenerateProducts(ctx, topic)
		})
	}

	var cmd tea.Cmd
	m.topic, cmd = m.topic.Update(msg)
	return cmd
}

func (m *Model) handleAccessDeniedKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		m.app.Nav.GoHome()
		return nil
	}
	cmd, _ := m.handleCommonKey(msg)
	return cmd
}
