package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

const dateLayout = "Jan 2, 2006"

// View renders the current screen
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.screen == domain.ScreenGrid || m.screen == domain.ScreenDetail {
		if msg := m.app.Errors.Message(); msg != "" {
			b.WriteString(m.styles.Error.Render("Error: " + msg))
			b.WriteString("\n\n")
		}
	}
	if m.notice != "" {
		b.WriteString(m.styles.Success.Render(m.notice))
		b.WriteString("\n\n")
	}

	switch m.screen {
	case domain.ScreenGrid:
		b.WriteString(m.renderGrid())
	case domain.ScreenDetail:
		b.WriteString(m.renderDetail())
	case domain.ScreenLogin:
		b.WriteString(m.renderLogin())
	case domain.ScreenAdmin:
		b.WriteString(m.renderAdmin())
	case domain.ScreenAccessDenied:
		b.WriteString(m.renderAccessDenied())
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderHeader() string {
	who := "Not signed in"
	if u := m.app.Session.User(); u != nil {
		who = u.Email
	}
	left := m.styles.Header.Render("AI Affiliate Reviews")
	right := m.styles.Muted.Render(fmt.Sprintf("%s · %s theme", who, m.styles.Theme))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (m Model) renderGrid() string {
	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("  ")
	b.WriteString(m.styles.Muted.Render("Sort: " + m.app.Nav.Sort().Label()))
	b.WriteString("\n\n")

	products := m.app.VisibleProducts()
	if m.app.Catalog.Loading() && len(products) == 0 {
		b.WriteString(m.spinner.View() + " Loading products...")
		return b.String()
	}
	if len(products) == 0 {
		b.WriteString(m.styles.Muted.Render("No products found."))
		return b.String()
	}

	for i, p := range products {
		line := fmt.Sprintf("%-40s %s", p.Name, m.styles.Price.Render(p.DisplayPrice()))
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.app.Catalog.Loading() {
		b.WriteString(m.spinner.View() + " Refreshing...")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderDetail() string {
	p := m.app.Detail.Selected()
	if p == nil {
		return ""
	}

	var card strings.Builder
	card.WriteString(m.styles.Title.Render(p.Name))
	card.WriteString("\n")
	card.WriteString(m.styles.Price.Render(p.DisplayPrice()))
	card.WriteString("\n\n")
	card.WriteString(p.Description)
	if p.AffiliateLink != "" {
		card.WriteString("\n\n")
		card.WriteString(m.styles.Muted.Render(p.AffiliateLink))
	}

	var b strings.Builder
	b.WriteString(m.styles.Card.Render(card.String()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Title.Render("Reviews"))
	b.WriteString("\n")

	if m.app.Detail.Loading() {
		b.WriteString(m.spinner.View() + " Working...\n")
	}

	if m.focus == focusReview {
		b.WriteString(m.review.View())
		b.WriteString("\n")
	}

	reviews := m.app.Detail.Reviews()
	if len(reviews) == 0 && !m.app.Detail.Loading() {
		b.WriteString(m.styles.Muted.Render("No reviews yet. Be the first to write one!"))
	}
	for _, r := range reviews {
		author := r.Author
		if r.IsAI {
			author = m.styles.AIBadge.Render("[AI] " + r.Author)
		}
		b.WriteString(fmt.Sprintf("\n%s  %s\n", author, m.styles.Muted.Render(r.CreatedAt.Format(dateLayout))))
		b.WriteString(r.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderLogin() string {
	var b strings.Builder

	title := "Welcome Back!"
	if m.mode == modeSignUp {
		title = "Create an Account"
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n\n")

	if msg := m.app.Session.Error(); msg != "" {
		b.WriteString(m.styles.Error.Render(msg))
		b.WriteString("\n\n")
	}

	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.app.Session.Loading() {
		b.WriteString(m.spinner.View() + " Please wait...")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderAdmin() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Admin Panel"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Enter a topic and AI will create new products for the catalog."))
	b.WriteString("\n\n")
	b.WriteString(m.topic.View())
	b.WriteString("\n\n")

	switch {
	case m.app.Admin.Loading():
		b.WriteString(m.spinner.View() + " Generating Products...")
	case m.app.Admin.Error() != "":
		b.WriteString(m.styles.Error.Render(m.app.Admin.Error()))
	case m.app.Admin.Success() != "":
		b.WriteString(m.styles.Success.Render(m.app.Admin.Success()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderAccessDenied() string {
	return m.styles.Title.Render("Access Denied") + "\n\n" +
		"You must be logged in to access the Admin Panel."
}

func (m Model) helpLine() string {
	signedIn := m.app.Session.User() != nil
	account := "l login"
	if signedIn {
		account = "o sign out"
	}

	switch m.screen {
	case domain.ScreenGrid:
		if m.focus == focusSearch {
			return "type to search • enter/esc done"
		}
		return "↑/↓ move • enter open • / search • s sort • r refresh • t theme • a admin • " + account + " • q quit"
	case domain.ScreenDetail:
		if m.focus == focusReview {
			return "ctrl+s submit • esc cancel"
		}
		return "esc back • w write review • g AI review • b buy • t theme • " + account + " • q quit"
	case domain.ScreenLogin:
		return "tab switch field • enter submit • ctrl+t sign in/sign up • esc back"
	case domain.ScreenAdmin:
		return "enter generate • esc back"
	case domain.ScreenAccessDenied:
		return "l login • esc back • q quit"
	}
	return ""
}
