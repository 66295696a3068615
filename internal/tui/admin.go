package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/prana/studio/internal/api"
	"github.com/prana/studio/internal/localtime"
	"github.com/prana/studio/internal/model"
)

// Editor form fields in focus order.
const (
	editorFieldName = iota
	editorFieldDesc
	editorFieldInstructor
	editorFieldDate
	editorFieldCount
)

type adminSessionsLoadedMsg struct {
	sessions []model.Session
	err      error
}

type instructorsLoadedMsg struct {
	instructors []model.Instructor
	err         error
}

type sessionSavedMsg struct {
	session model.Session
	created bool
	err     error
}

type sessionDeletedMsg struct {
	id  string
	err error
}

// fetchAdminIfNeeded loads the schedule and the instructor list when the
// admin view opens. Each list tracks its own fetch state, so a list whose
// fetch failed is retried on the next entry while the other stays cached.
// Loaded lists live for the app session; created, updated and deleted
// sessions patch them in place.
func (m *Model) fetchAdminIfNeeded() tea.Cmd {
	client := m.client
	var cmds []tea.Cmd

	if !m.adminFetched && !m.adminLoading {
		m.adminLoading = true
		cmds = append(cmds, func() tea.Msg {
			sessions, err := client.ListSessions()
			return adminSessionsLoadedMsg{sessions: sessions, err: err}
		})
	}
	if !m.instructorsFetched && !m.instructorsLoading {
		m.instructorsLoading = true
		cmds = append(cmds, func() tea.Msg {
			instructors, err := client.ListInstructors()
			return instructorsLoadedMsg{instructors: instructors, err: err}
		})
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m Model) handleAdminSessionsLoaded(msg adminSessionsLoadedMsg) (tea.Model, tea.Cmd) {
	m.adminLoading = false
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to load the schedule.")
	}
	m.adminSessions = msg.sessions
	m.adminFetched = true
	m.clampAdminCursor()
	return m, nil
}

func (m Model) handleInstructorsLoaded(msg instructorsLoadedMsg) (tea.Model, tea.Cmd) {
	m.instructorsLoading = false
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to load instructors.")
	}
	m.instructors = msg.instructors
	m.instructorsFetched = true
	return m, nil
}

func (m *Model) clampAdminCursor() {
	if m.adminCursor >= len(m.adminSessions) {
		m.adminCursor = len(m.adminSessions) - 1
	}
	if m.adminCursor < 0 {
		m.adminCursor = 0
	}
}

// openEditor opens the draft form. With a session it enters edit mode and
// populates the draft from it; the stored UTC time is shifted to display
// form exactly once, here. Rendering and submission must never shift an
// already-displayed value again.
func (m *Model) openEditor(s *model.Session) {
	m.editorOpen = true
	m.editorFocus = editorFieldName

	if s == nil {
		m.isEditing = false
		m.draftID = ""
		m.draftName.SetValue("")
		m.draftDesc.SetValue("")
		m.draftDate.SetValue("")
		m.instructorIdx = -1
	} else {
		m.isEditing = true
		m.draftID = s.ID
		m.draftName.SetValue(s.Name)
		m.draftDesc.SetValue(s.Description)
		m.draftDate.SetValue(localtime.ToDisplay(s.DateTime))
		m.instructorIdx = -1
		for i, ins := range m.instructors {
			if ins.ID == s.Instructor.ID {
				m.instructorIdx = i
				break
			}
		}
	}

	m.focusEditorField(editorFieldName)
}

// closeEditor resets the draft to empty values, both on cancel and after a
// successful submit.
func (m *Model) closeEditor() {
	m.editorOpen = false
	m.isEditing = false
	m.draftID = ""
	m.draftName.SetValue("")
	m.draftDesc.SetValue("")
	m.draftDate.SetValue("")
	m.instructorIdx = -1
	m.draftName.Blur()
	m.draftDesc.Blur()
	m.draftDate.Blur()
}

func (m *Model) focusEditorField(idx int) {
	if idx < 0 {
		idx = editorFieldCount - 1
	}
	m.editorFocus = idx % editorFieldCount

	m.draftName.Blur()
	m.draftDesc.Blur()
	m.draftDate.Blur()
	switch m.editorFocus {
	case editorFieldName:
		m.draftName.Focus()
	case editorFieldDesc:
		m.draftDesc.Focus()
	case editorFieldDate:
		m.draftDate.Focus()
	}
}

// submitDraft validates the draft and dispatches to create or update
// depending on the editor mode.
func (m *Model) submitDraft() tea.Cmd {
	name := strings.TrimSpace(m.draftName.Value())
	desc := strings.TrimSpace(m.draftDesc.Value())
	date := strings.TrimSpace(m.draftDate.Value())

	if name == "" || date == "" || m.instructorIdx < 0 || m.instructorIdx >= len(m.instructors) {
		return m.showNotice(noticeError, "Title, instructor and date are required.")
	}

	utc, err := localtime.ToStorage(date)
	if err != nil {
		return m.showNotice(noticeError, "Date must look like 2006-01-02T15:04.")
	}

	in := api.SessionInput{
		Name:        name,
		Description: desc,
		Instructor:  m.instructors[m.instructorIdx].ID,
		DateTime:    localtime.FormatStorage(utc),
	}

	client := m.client
	if m.isEditing {
		id := m.draftID
		return func() tea.Msg {
			session, err := client.UpdateSession(id, in)
			return sessionSavedMsg{session: session, err: err}
		}
	}
	return func() tea.Msg {
		session, err := client.CreateSession(in)
		return sessionSavedMsg{session: session, created: true, err: err}
	}
}

func (m Model) handleSessionSaved(msg sessionSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to save the session.")
	}

	if msg.created {
		m.adminSessions = append(m.adminSessions, msg.session)
	} else {
		for i, s := range m.adminSessions {
			if s.ID == msg.session.ID {
				m.adminSessions[i] = msg.session
				break
			}
		}
	}

	// The catalog shows the same sessions; force it to re-sync on the next
	// visit rather than patching two lists in lockstep.
	m.lanes[tabAll].stale = true

	m.closeEditor()
	if msg.created {
		return m, m.showNotice(noticeSuccess, "Session added.")
	}
	return m, m.showNotice(noticeSuccess, "Session updated.")
}

// deleteSelectedSession removes the session under the cursor.
func (m *Model) deleteSelectedSession() tea.Cmd {
	if m.adminCursor >= len(m.adminSessions) {
		return nil
	}
	id := m.adminSessions[m.adminCursor].ID
	client := m.client
	return func() tea.Msg {
		err := client.DeleteSession(id)
		return sessionDeletedMsg{id: id, err: err}
	}
}

func (m Model) handleSessionDeleted(msg sessionDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to delete the session.")
	}

	var kept []model.Session
	for _, s := range m.adminSessions {
		if s.ID != msg.id {
			kept = append(kept, s)
		}
	}
	m.adminSessions = kept
	m.clampAdminCursor()
	m.lanes[tabAll].stale = true

	return m, m.showNotice(noticeSuccess, "Session deleted.")
}

func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editorOpen {
		return m.handleEditorKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.Sessions), key.Matches(msg, m.keys.Escape):
		return m.enterSessions()

	case key.Matches(msg, m.keys.Users):
		return m.enterUsers()

	case key.Matches(msg, m.keys.Up):
		if m.adminCursor > 0 {
			m.adminCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.adminCursor < len(m.adminSessions)-1 {
			m.adminCursor++
		}

	case key.Matches(msg, m.keys.New):
		m.openEditor(nil)

	case key.Matches(msg, m.keys.Edit):
		if m.adminCursor < len(m.adminSessions) {
			s := m.adminSessions[m.adminCursor]
			m.openEditor(&s)
		}

	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelectedSession()
	}

	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeEditor()
		return m, nil
	case "tab", "down":
		m.focusEditorField(m.editorFocus + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusEditorField(m.editorFocus - 1)
		return m, nil
	case "enter":
		return m, m.submitDraft()
	}

	// The instructor field is a picker, not a text input.
	if m.editorFocus == editorFieldInstructor {
		switch msg.String() {
		case "left":
			if m.instructorIdx > 0 {
				m.instructorIdx--
			} else if m.instructorIdx < 0 && len(m.instructors) > 0 {
				m.instructorIdx = 0
			}
		case "right":
			if m.instructorIdx < len(m.instructors)-1 {
				m.instructorIdx++
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.editorFocus {
	case editorFieldName:
		m.draftName, cmd = m.draftName.Update(msg)
	case editorFieldDesc:
		m.draftDesc, cmd = m.draftDesc.Update(msg)
	case editorFieldDate:
		m.draftDate, cmd = m.draftDate.Update(msg)
	}
	return m, cmd
}

func (m Model) renderAdmin() string {
	var b strings.Builder

	b.WriteString(FormLabelStyle.Render("Session Management"))
	b.WriteString("\n\n")

	if m.editorOpen {
		b.WriteString(m.renderEditor())
		return b.String()
	}

	if m.adminLoading {
		b.WriteString(ListItemStyle.Render(m.spinnerFrame() + " Loading..."))
		b.WriteString("\n")
	}

	if len(m.adminSessions) == 0 && !m.adminLoading {
		b.WriteString(EmptyStyle.Render("No sessions scheduled."))
		b.WriteString("\n")
	}

	for i, s := range m.adminSessions {
		line := s.Name
		if i == m.adminCursor {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(ListItemStyle.Render(line))
		}
		b.WriteString("\n")
		b.WriteString(ItemMetaStyle.Render(fmt.Sprintf(
			"%s · %s · %s", localtime.ToDisplay(s.DateTime), s.Instructor.Name, s.Description,
		)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("n: new   e: edit   d: delete   s/esc: sessions   u: users   L: log out   q: quit"))
	return b.String()
}

func (m Model) renderEditor() string {
	var b strings.Builder

	title := "Add Session"
	if m.isEditing {
		title = "Edit Session"
	}
	b.WriteString(FormFocusLabelStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.renderEditorField(editorFieldName, "Title", m.draftName))
	b.WriteString(m.renderEditorField(editorFieldDesc, "Description", m.draftDesc))

	instructor := "(none)"
	if m.instructorIdx >= 0 && m.instructorIdx < len(m.instructors) {
		instructor = m.instructors[m.instructorIdx].Name
	}
	label := FormLabelStyle
	if m.editorFocus == editorFieldInstructor {
		label = FormFocusLabelStyle
		instructor = "← " + instructor + " →"
	}
	b.WriteString(label.Render("Instructor: "))
	b.WriteString(instructor)
	b.WriteString("\n")

	b.WriteString(m.renderEditorField(editorFieldDate, "Date (+5:30)", m.draftDate))

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter: save   tab: next field   esc: discard"))
	return FormStyle.Render(b.String())
}

func (m Model) renderEditorField(idx int, label string, input textinput.Model) string {
	style := FormLabelStyle
	if m.editorFocus == idx {
		style = FormFocusLabelStyle
	}
	return style.Render(label+": ") + input.View() + "\n"
}
