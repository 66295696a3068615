package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/prana/studio/internal/api"
	"github.com/prana/studio/internal/config"
)

// authResultMsg is sent after a login or signup attempt.
type authResultMsg struct {
	res api.AuthResult
	err error
}

// loginCmd exchanges the form's credentials for a token.
func (m Model) loginCmd(email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.Login(email, password)
		return authResultMsg{res: res, err: err}
	}
}

func (m Model) signupCmd(name, email, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.Signup(name, email, password)
		return authResultMsg{res: res, err: err}
	}
}

// submitAuth validates the form and starts the login or signup request.
func (m *Model) submitAuth() tea.Cmd {
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	name := strings.TrimSpace(m.nameInput.Value())

	if email == "" || password == "" || (m.signupMode && name == "") {
		m.authError = "Please fill in all fields."
		return nil
	}

	m.authError = ""
	m.authBusy = true
	if m.signupMode {
		return m.signupCmd(name, email, password)
	}
	return m.loginCmd(email, password)
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.err != nil {
		if m.signupMode {
			m.authError = "Signup failed. Please try again."
		} else {
			m.authError = "Invalid credentials. Please try again."
		}
		return m, nil
	}

	m.auth.Set(msg.res.Token, msg.res.User)
	m.passwordInput.SetValue("")
	m.authError = ""

	// Move to the catalog; the all-sessions lane is empty after login so
	// this always issues its first fetch.
	m.viewMode = ViewModeSessions
	fetchCmd := m.selectTab(tabAll)

	cfg := m.cfg
	res := msg.res
	saveCmd := func() tea.Msg {
		cfg.AuthToken = res.Token
		user := res.User
		cfg.User = &user
		return credentialsSavedMsg{err: config.Save(cfg)}
	}

	return m, tea.Batch(fetchCmd, saveCmd)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setLoginFocus(m.loginFocus + 1)
		return m, nil
	case "shift+tab", "up":
		m.setLoginFocus(m.loginFocus - 1)
		return m, nil
	case "ctrl+n":
		// Toggle between login and signup.
		m.signupMode = !m.signupMode
		m.authError = ""
		m.setLoginFocus(0)
		return m, nil
	}

	if key.Matches(msg, m.keys.Enter) {
		return m, m.submitAuth()
	}

	// Everything else goes to the focused field.
	var cmd tea.Cmd
	switch m.loginField(m.loginFocus) {
	case &m.nameInput:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case &m.emailInput:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case &m.passwordInput:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

// loginField maps a focus index to the corresponding input for the current
// mode (signup has the extra name field at the top).
func (m *Model) loginField(idx int) *textinput.Model {
	if m.signupMode {
		switch idx {
		case 0:
			return &m.nameInput
		case 1:
			return &m.emailInput
		default:
			return &m.passwordInput
		}
	}
	switch idx {
	case 0:
		return &m.emailInput
	default:
		return &m.passwordInput
	}
}

func (m *Model) loginFieldCount() int {
	if m.signupMode {
		return 3
	}
	return 2
}

func (m *Model) setLoginFocus(idx int) {
	count := m.loginFieldCount()
	if idx < 0 {
		idx = count - 1
	}
	m.loginFocus = idx % count

	m.nameInput.Blur()
	m.emailInput.Blur()
	m.passwordInput.Blur()
	m.loginField(m.loginFocus).Focus()
}

func (m Model) renderLogin() string {
	var b strings.Builder

	title := "Login"
	if m.signupMode {
		title = "Sign up"
	}
	b.WriteString(FormLabelStyle.Render(title))
	b.WriteString("\n\n")

	if m.signupMode {
		b.WriteString(m.nameInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.emailInput.View())
	b.WriteString("\n")
	b.WriteString(m.passwordInput.View())
	b.WriteString("\n\n")

	if m.authBusy {
		b.WriteString(HelpStyle.Render(m.spinnerFrame() + " Signing in..."))
		b.WriteString("\n")
	}
	if m.authError != "" {
		b.WriteString(ErrorTextStyle.Render(m.authError))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter: submit   tab: next field   ctrl+n: switch login/signup   ctrl+c: quit"))

	return FormStyle.Render(b.String())
}
