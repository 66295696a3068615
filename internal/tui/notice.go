package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// noticeTTL is how long a transient notice stays on screen.
const noticeTTL = 3 * time.Second

type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeError
)

// notice is a transient, auto-dismissing message, the TUI's stand-in for a
// snackbar. Only one is shown at a time; a newer notice replaces the
// current one and the older expiry tick is ignored by id.
type notice struct {
	id   int
	kind noticeKind
	text string
}

// noticeExpiredMsg is sent when a notice's display time is up.
type noticeExpiredMsg struct {
	id int
}

// showNotice replaces the current notice and schedules its expiry.
func (m *Model) showNotice(kind noticeKind, text string) tea.Cmd {
	m.noticeSeq++
	id := m.noticeSeq
	m.activeNotice = &notice{id: id, kind: kind, text: text}
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// handleNoticeExpired clears the notice unless a newer one replaced it.
func (m Model) handleNoticeExpired(msg noticeExpiredMsg) (tea.Model, tea.Cmd) {
	if m.activeNotice != nil && m.activeNotice.id == msg.id {
		m.activeNotice = nil
	}
	return m, nil
}

// renderNotice renders the active notice, or "" when there is none.
func (m Model) renderNotice() string {
	if m.activeNotice == nil {
		return ""
	}
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch m.activeNotice.kind {
	case noticeSuccess:
		style = style.Foreground(ColorGreen)
	case noticeError:
		style = style.Foreground(ColorRed)
	}
	return style.Render(m.activeNotice.text)
}
