package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prana/studio/internal/api"
	"github.com/prana/studio/internal/localtime"
	"github.com/prana/studio/internal/model"
)

// The catalog has two lanes, one per tab: the full schedule and the current
// user's enrollments. Each lane caches its list for the lifetime of the app
// session and is only refetched when an operation marks it stale.
const (
	tabAll      = 0
	tabEnrolled = 1
)

var tabTitles = [2]string{"All Sessions", "Enrolled Sessions"}

// lane tracks the fetch state of one tab's list.
//
// fetched flips false→true on the first successful load and stays true; a
// revisit of an already-fetched lane costs no network call. stale asks for
// one more fetch on the next visit without forgetting the data already shown.
// gen counts issued fetches; responses carrying an older gen are dropped so
// an abandoned slow fetch cannot clobber a newer list.
type lane struct {
	fetched bool
	stale   bool
	loading bool
	gen     int
}

// needsFetch reports whether selecting this lane should hit the network.
func (l lane) needsFetch() bool {
	return !l.loading && (!l.fetched || l.stale)
}

type sessionsLoadedMsg struct {
	gen      int
	sessions []model.Session
	err      error
}

type bookingsLoadedMsg struct {
	gen      int
	bookings []model.Booking
	err      error
}

type bookingCreatedMsg struct {
	booking model.Booking
	err     error
}

type bookingCancelledMsg struct {
	sessionID string
	err       error
}

// fetchAllCmd fetches the full catalog. gen is echoed back so the handler
// can discard responses from superseded fetches.
func (m Model) fetchAllCmd(gen int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sessions, err := client.ListSessions()
		return sessionsLoadedMsg{gen: gen, sessions: sessions, err: err}
	}
}

// fetchBookingsCmd fetches the current user's bookings.
func (m Model) fetchBookingsCmd(gen int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		bookings, err := client.ListUserBookings()
		return bookingsLoadedMsg{gen: gen, bookings: bookings, err: err}
	}
}

// fetchLane unconditionally starts a fetch of the given lane.
func (m *Model) fetchLane(tab int) tea.Cmd {
	l := &m.lanes[tab]
	l.loading = true
	l.gen++
	if tab == tabAll {
		return m.fetchAllCmd(l.gen)
	}
	return m.fetchBookingsCmd(l.gen)
}

// selectTab makes tab the active lane and fetches it only when it was never
// loaded or an operation marked it stale.
func (m *Model) selectTab(tab int) tea.Cmd {
	m.tab = tab
	m.catalogCursor = 0
	if !m.lanes[tab].needsFetch() {
		return nil
	}
	return m.fetchLane(tab)
}

func (m Model) handleSessionsLoaded(msg sessionsLoadedMsg) (tea.Model, tea.Cmd) {
	l := &m.lanes[tabAll]
	if msg.gen != l.gen {
		// Response from a fetch that was superseded; the newer one wins.
		return m, nil
	}
	l.loading = false
	if msg.err != nil {
		// Keep whatever was on screen; the lane stays refetchable.
		return m, m.showNotice(noticeError, "Failed to load sessions.")
	}
	m.sessions = msg.sessions
	l.fetched = true
	l.stale = false
	m.clampCatalogCursor()
	return m, nil
}

func (m Model) handleBookingsLoaded(msg bookingsLoadedMsg) (tea.Model, tea.Cmd) {
	l := &m.lanes[tabEnrolled]
	if msg.gen != l.gen {
		return m, nil
	}
	l.loading = false
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to load your enrollments.")
	}
	m.enrolled = msg.bookings
	l.fetched = true
	l.stale = false
	m.clampCatalogCursor()
	return m, nil
}

// isEnrolled derives the enrollment status of a session from the local
// booking list: enrolled iff some booking references its id.
func (m Model) isEnrolled(sessionID string) bool {
	_, ok := model.BookingFor(m.enrolled, sessionID)
	return ok
}

// resolvedBookings filters out bookings whose session no longer exists on
// the backend; they cannot be rendered or cancelled from here.
func (m Model) resolvedBookings() []model.Booking {
	var out []model.Booking
	for _, b := range m.enrolled {
		if b.Resolved() {
			out = append(out, b)
		}
	}
	return out
}

// visibleSessions is the list the active tab shows.
func (m Model) visibleSessions() []model.Session {
	if m.tab == tabAll {
		return m.sessions
	}
	var out []model.Session
	for _, b := range m.resolvedBookings() {
		out = append(out, b.Session)
	}
	return out
}

func (m Model) catalogLoading() bool {
	return m.lanes[m.tab].loading
}

func (m *Model) clampCatalogCursor() {
	if n := len(m.visibleSessions()); m.catalogCursor >= n {
		m.catalogCursor = n - 1
	}
	if m.catalogCursor < 0 {
		m.catalogCursor = 0
	}
}

// join enrolls the user in a session. The derived status guards the
// operation locally: a session already enrolled is rejected without a
// network call, which keeps the one-booking-per-session invariant intact
// even before the backend gets a say.
func (m *Model) join(sessionID string) tea.Cmd {
	if m.isEnrolled(sessionID) {
		return m.showNotice(noticeError, "You are already enrolled in this session.")
	}
	client := m.client
	bookingDate := m.now()
	return func() tea.Msg {
		booking, err := client.CreateBooking(sessionID, bookingDate)
		return bookingCreatedMsg{booking: booking, err: err}
	}
}

func (m Model) handleBookingCreated(msg bookingCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrAlreadyEnrolled) {
			return m, m.showNotice(noticeError, "You are already enrolled in this session.")
		}
		return m, m.showNotice(noticeError, "Failed to enroll in the session.")
	}
	// Joins patch the local list with the booking the backend returned
	// instead of refetching. The lane is marked stale so the next visit to
	// the enrolled tab re-syncs with the backend anyway.
	m.enrolled = append(m.enrolled, msg.booking)
	m.lanes[tabEnrolled].stale = true
	return m, m.showNotice(noticeSuccess, "Successfully enrolled in the session!")
}

// requestCancel arms the confirmation dialog for one session. The pending
// id is a single slot: it is cleared whether the user confirms or dismisses.
func (m *Model) requestCancel(sessionID string) {
	m.pendingCancel = sessionID
}

func (m *Model) dismissCancel() {
	m.pendingCancel = ""
}

// confirmCancel performs the cancellation armed by requestCancel. The
// booking id is resolved from local state; if no booking references the
// session the operation fails here and no request is issued. Unlike join,
// nothing is removed until the backend confirms: an optimistic removal
// would let the user join a session they still occupy.
func (m *Model) confirmCancel() tea.Cmd {
	sessionID := m.pendingCancel
	m.pendingCancel = ""

	booking, ok := model.BookingFor(m.enrolled, sessionID)
	if !ok {
		return m.showNotice(noticeError, "No booking found for this session!")
	}

	client := m.client
	bookingID := booking.ID
	return func() tea.Msg {
		// Deletion is keyed on the booking id, not the session id.
		err := client.DeleteBooking(bookingID)
		return bookingCancelledMsg{sessionID: sessionID, err: err}
	}
}

func (m Model) handleBookingCancelled(msg bookingCancelledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.showNotice(noticeError, "Failed to cancel enrollment.")
	}

	var kept []model.Booking
	for _, b := range m.enrolled {
		if b.Session.ID != msg.sessionID {
			kept = append(kept, b)
		}
	}
	m.enrolled = kept
	m.clampCatalogCursor()

	// A background refresh reconciles any drift the patch missed.
	return m, tea.Batch(
		m.showNotice(noticeSuccess, "Enrollment canceled successfully!"),
		m.fetchLane(tabEnrolled),
	)
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The confirmation dialog captures every key until answered.
	if m.pendingCancel != "" {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			return m, m.confirmCancel()
		case key.Matches(msg, m.keys.Dismiss):
			m.dismissCancel()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Logout):
		return m.logout()

	case key.Matches(msg, m.keys.Admin):
		return m.enterAdmin()

	case key.Matches(msg, m.keys.Users):
		return m.enterUsers()

	case key.Matches(msg, m.keys.Profile):
		return m.enterProfile()

	case key.Matches(msg, m.keys.NextTab):
		return m, m.selectTab((m.tab + 1) % len(tabTitles))

	case key.Matches(msg, m.keys.PrevTab):
		return m, m.selectTab((m.tab + len(tabTitles) - 1) % len(tabTitles))

	case key.Matches(msg, m.keys.Up):
		if m.catalogCursor > 0 {
			m.catalogCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.catalogCursor < len(m.visibleSessions())-1 {
			m.catalogCursor++
		}

	case key.Matches(msg, m.keys.Refresh):
		// Explicit refresh bypasses the cache.
		return m, m.fetchLane(m.tab)

	case key.Matches(msg, m.keys.Join):
		if m.tab != tabAll {
			return m, nil
		}
		visible := m.visibleSessions()
		if m.catalogCursor < len(visible) {
			return m, m.join(visible[m.catalogCursor].ID)
		}

	case key.Matches(msg, m.keys.Cancel):
		visible := m.visibleSessions()
		if m.catalogCursor < len(visible) {
			m.requestCancel(visible[m.catalogCursor].ID)
		}
	}

	return m, nil
}

func (m Model) renderCatalog() string {
	var b strings.Builder

	// Tab bar
	var tabs []string
	for i, title := range tabTitles {
		if i == m.tab {
			tabs = append(tabs, ActiveTabStyle.Render(title))
		} else {
			tabs = append(tabs, TabStyle.Render(title))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if m.pendingCancel != "" {
		b.WriteString(DialogStyle.Render(
			"Cancel your enrollment for this session?\n\n" +
				HelpStyle.Render("y: yes, cancel it   n: keep it"),
		))
		b.WriteString("\n")
		return b.String()
	}

	if m.catalogLoading() {
		b.WriteString(ListItemStyle.Render(m.spinnerFrame() + " Loading..."))
		b.WriteString("\n")
	}

	visible := m.visibleSessions()
	if len(visible) == 0 && !m.catalogLoading() {
		if m.tab == tabAll {
			b.WriteString(EmptyStyle.Render("No sessions available."))
		} else {
			b.WriteString(EmptyStyle.Render("You are not enrolled in any sessions yet."))
		}
		b.WriteString("\n")
	}

	for i, s := range visible {
		line := s.Name
		if m.isEnrolled(s.ID) {
			line += "  " + EnrolledBadgeStyle.Render("enrolled")
		}
		if i == m.catalogCursor {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(ListItemStyle.Render(line))
		}
		b.WriteString("\n")
		meta := fmt.Sprintf("%s · %s", localtime.ToDisplay(s.DateTime), s.Instructor.Name)
		if s.Description != "" {
			meta += " · " + s.Description
		}
		b.WriteString(ItemMetaStyle.Render(meta))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "tab: switch list   enter: join   x: cancel enrollment   r: refresh"
	if m.auth.Role().CanManageSessions() {
		help += "   a: schedule   u: users"
	}
	help += "   p: profile   L: log out   q: quit"
	b.WriteString(HelpStyle.Render(help))
	return b.String()
}
