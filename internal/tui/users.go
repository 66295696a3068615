package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/prana/studio/internal/model"
)

type usersLoadedMsg struct {
	users []model.User
	err   error
}

type userRoleSavedMsg struct {
	user model.User
	err  error
}

type userDeletedMsg struct {
	id  string
	err error
}

func (m *Model) fetchUsersIfNeeded() tea.Cmd {
	if m.usersFetched || m.usersLoading {
		return nil
	}
	m.usersLoading = true
	client := m.client
	return func() tea.Msg {
		users, err := client.ListUsers()
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m Model) handleUsersLoaded(msg usersLoadedMsg) (tea.Model, tea.Cmd) {
	m.usersLoading = false
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to fetch users.")
	}
	m.users = msg.users
	m.usersFetched = true
	m.clampUsersCursor()
	return m, nil
}

func (m *Model) clampUsersCursor() {
	if m.usersCursor >= len(m.users) {
		m.usersCursor = len(m.users) - 1
	}
	if m.usersCursor < 0 {
		m.usersCursor = 0
	}
}

// submitRole assigns the picked role to the user under the cursor.
func (m *Model) submitRole() tea.Cmd {
	m.rolePicker = false
	if m.usersCursor >= len(m.users) {
		return nil
	}
	id := m.users[m.usersCursor].ID
	role := model.Roles[m.roleIdx]
	client := m.client
	return func() tea.Msg {
		user, err := client.UpdateUserRole(id, role)
		return userRoleSavedMsg{user: user, err: err}
	}
}

func (m Model) handleUserRoleSaved(msg userRoleSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to update role.")
	}
	for i, u := range m.users {
		if u.ID == msg.user.ID {
			m.users[i] = msg.user
			break
		}
	}
	return m, m.showNotice(noticeSuccess, "Role updated.")
}

func (m *Model) deleteSelectedUser() tea.Cmd {
	if m.usersCursor >= len(m.users) {
		return nil
	}
	id := m.users[m.usersCursor].ID
	client := m.client
	return func() tea.Msg {
		err := client.DeleteUser(id)
		return userDeletedMsg{id: id, err: err}
	}
}

func (m Model) handleUserDeleted(msg userDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to delete user.")
	}
	var kept []model.User
	for _, u := range m.users {
		if u.ID != msg.id {
			kept = append(kept, u)
		}
	}
	m.users = kept
	m.clampUsersCursor()
	return m, m.showNotice(noticeSuccess, "User deleted.")
}

func (m Model) handleUsersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.rolePicker {
		switch msg.String() {
		case "left":
			if m.roleIdx > 0 {
				m.roleIdx--
			}
		case "right":
			if m.roleIdx < len(model.Roles)-1 {
				m.roleIdx++
			}
		case "enter":
			return m, m.submitRole()
		case "esc":
			m.rolePicker = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.Sessions), key.Matches(msg, m.keys.Escape):
		return m.enterSessions()

	case key.Matches(msg, m.keys.Admin):
		return m.enterAdmin()

	case key.Matches(msg, m.keys.Up):
		if m.usersCursor > 0 {
			m.usersCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.usersCursor < len(m.users)-1 {
			m.usersCursor++
		}

	case key.Matches(msg, m.keys.Edit):
		if m.usersCursor < len(m.users) {
			m.rolePicker = true
			m.roleIdx = 0
			for i, r := range model.Roles {
				if r == m.users[m.usersCursor].Role {
					m.roleIdx = i
					break
				}
			}
		}

	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelectedUser()
	}

	return m, nil
}

func (m Model) renderUsers() string {
	var b strings.Builder

	b.WriteString(FormLabelStyle.Render("Manage Users"))
	b.WriteString("\n\n")

	if m.usersLoading {
		b.WriteString(ListItemStyle.Render(m.spinnerFrame() + " Loading..."))
		b.WriteString("\n")
	}

	if len(m.users) == 0 && !m.usersLoading {
		b.WriteString(EmptyStyle.Render("No users."))
		b.WriteString("\n")
	}

	for i, u := range m.users {
		line := u.Name + "  " + HeaderMetaStyle.Render(u.Email) + "  [" + string(u.Role) + "]"
		if i == m.usersCursor {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.rolePicker && m.usersCursor < len(m.users) {
		b.WriteString("\n")
		b.WriteString(DialogStyle.Render(
			"Role for " + m.users[m.usersCursor].Name + ": ← " +
				string(model.Roles[m.roleIdx]) + " →\n\n" +
				HelpStyle.Render("enter: apply   esc: keep current"),
		))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("e: edit role   d: delete   s/esc: sessions   a: schedule   L: log out   q: quit"))
	return b.String()
}
