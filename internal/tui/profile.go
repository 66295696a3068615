package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/prana/studio/internal/model"
)

type profileLoadedMsg struct {
	user model.User
	err  error
}

// fetchProfile loads the account record fresh on every entry. The profile
// is authoritative data about the account itself, so unlike the catalog it
// is never served from a cache.
func (m *Model) fetchProfile() tea.Cmd {
	m.profileLoading = true
	client := m.client
	return func() tea.Msg {
		user, err := client.Profile()
		return profileLoadedMsg{user: user, err: err}
	}
}

func (m Model) handleProfileLoaded(msg profileLoadedMsg) (tea.Model, tea.Cmd) {
	m.profileLoading = false
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to load your profile.")
	}
	m.profile = msg.user
	return m, nil
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.Sessions), key.Matches(msg, m.keys.Escape):
		return m.enterSessions()

	case key.Matches(msg, m.keys.Admin):
		return m.enterAdmin()

	case key.Matches(msg, m.keys.Users):
		return m.enterUsers()
	}
	return m, nil
}

func (m Model) renderProfile() string {
	var b strings.Builder

	b.WriteString(FormLabelStyle.Render("My Profile"))
	b.WriteString("\n\n")

	if m.profileLoading {
		b.WriteString(ListItemStyle.Render(m.spinnerFrame() + " Loading..."))
		b.WriteString("\n")
	} else {
		b.WriteString(FormLabelStyle.Render("Name:  "))
		b.WriteString(m.profile.Name)
		b.WriteString("\n")
		b.WriteString(FormLabelStyle.Render("Email: "))
		b.WriteString(m.profile.Email)
		b.WriteString("\n")
		b.WriteString(FormLabelStyle.Render("Role:  "))
		b.WriteString(string(m.profile.Role))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("s/esc: sessions   L: log out   q: quit"))
	return b.String()
}
