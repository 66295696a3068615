package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prana/studio/internal/api"
	"github.com/prana/studio/internal/model"
)

var (
	testInstructor = model.Instructor{ID: "i1", Name: "Amy"}
	testSession    = model.Session{
		ID:         "s1",
		Name:       "Hatha",
		Instructor: testInstructor,
		DateTime:   time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC),
	}
)

func applyMsg(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	newModel, cmd := m.Update(msg)
	return newModel.(Model), cmd
}

func TestTabCachingFetchesEachLaneOnce(t *testing.T) {
	f := &fakeBackend{sessions: []model.Session{testSession}}
	m := newTestModel(f, model.RoleUser)

	// First visit to the all lane fetches.
	cmd := m.selectTab(tabAll)
	if cmd == nil {
		t.Fatal("first selection of the all lane should fetch")
	}
	m, _ = applyMsg(t, m, cmd())
	if f.listSessionsCalls != 1 {
		t.Fatalf("listSessionsCalls = %d, want 1", f.listSessionsCalls)
	}
	if !m.lanes[tabAll].fetched {
		t.Fatal("lane should be fetched after a successful load")
	}

	// Re-selecting a ready lane is a cached no-op.
	if cmd := m.selectTab(tabAll); cmd != nil {
		t.Error("re-selecting a fetched lane should not fetch")
	}
	if f.listSessionsCalls != 1 {
		t.Errorf("listSessionsCalls = %d, want still 1", f.listSessionsCalls)
	}

	// The enrolled lane has its own fetch state.
	cmd = m.selectTab(tabEnrolled)
	if cmd == nil {
		t.Fatal("first selection of the enrolled lane should fetch")
	}
	m, _ = applyMsg(t, m, cmd())
	if f.listBookingsCalls != 1 {
		t.Errorf("listBookingsCalls = %d, want 1", f.listBookingsCalls)
	}

	// Both lanes cached now.
	if cmd := m.selectTab(tabAll); cmd != nil {
		t.Error("all lane should still be cached")
	}
	if cmd := m.selectTab(tabEnrolled); cmd != nil {
		t.Error("enrolled lane should still be cached")
	}
}

func TestWholesaleReplaceOnLoad(t *testing.T) {
	f := &fakeBackend{}
	m := newTestModel(f, model.RoleUser)
	m.sessions = []model.Session{{ID: "old"}}
	m.lanes[tabAll] = lane{fetched: true, gen: 1}

	m, _ = applyMsg(t, m, sessionsLoadedMsg{gen: 1, sessions: []model.Session{testSession}})

	if len(m.sessions) != 1 || m.sessions[0].ID != "s1" {
		t.Errorf("sessions = %+v, want wholesale replace with s1", m.sessions)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	f := &fakeBackend{}
	m := newTestModel(f, model.RoleUser)

	// Two fetches issued back to back; the first is superseded.
	_ = m.fetchLane(tabAll)
	_ = m.fetchLane(tabAll)
	if m.lanes[tabAll].gen != 2 {
		t.Fatalf("gen = %d, want 2", m.lanes[tabAll].gen)
	}

	m, _ = applyMsg(t, m, sessionsLoadedMsg{gen: 1, sessions: []model.Session{{ID: "stale"}}})
	if m.sessions != nil {
		t.Error("a superseded response must not replace the list")
	}
	if !m.lanes[tabAll].loading {
		t.Error("lane should still be loading, the live fetch is pending")
	}

	m, _ = applyMsg(t, m, sessionsLoadedMsg{gen: 2, sessions: []model.Session{testSession}})
	if len(m.sessions) != 1 || m.sessions[0].ID != "s1" {
		t.Errorf("sessions = %+v, want the live response applied", m.sessions)
	}
	if m.lanes[tabAll].loading {
		t.Error("lane should be done loading")
	}
}

func TestLoadFailureKeepsStaleData(t *testing.T) {
	f := &fakeBackend{}
	m := newTestModel(f, model.RoleUser)
	m.sessions = []model.Session{testSession}
	m.lanes[tabAll] = lane{fetched: true, gen: 1}

	// Explicit refresh fails mid-flight.
	_ = m.fetchLane(tabAll)
	m, _ = applyMsg(t, m, sessionsLoadedMsg{gen: m.lanes[tabAll].gen, err: fmt.Errorf("connection refused")})

	if len(m.sessions) != 1 {
		t.Error("a failed refresh must not blank a populated list")
	}
	if !m.lanes[tabAll].fetched {
		t.Error("fetched must survive a failed refresh")
	}
	if m.lanes[tabAll].loading {
		t.Error("loading should clear on failure")
	}
	if m.activeNotice == nil || m.activeNotice.kind != noticeError {
		t.Error("a load failure should surface as a notice")
	}
}

func TestEnrollmentDerivedFromBookings(t *testing.T) {
	m := newTestModel(&fakeBackend{}, model.RoleUser)
	m.sessions = []model.Session{testSession, {ID: "s2", Name: "Vinyasa"}}
	m.enrolled = []model.Booking{{ID: "b1", Session: testSession}}

	if !m.isEnrolled("s1") {
		t.Error("s1 should be enrolled, a booking references it")
	}
	if m.isEnrolled("s2") {
		t.Error("s2 should not be enrolled")
	}
}

// TestJoinScenario covers scenario A: joining s1 at a fixed instant appends
// the returned booking and surfaces a success notice, with no refetch.
func TestJoinScenario(t *testing.T) {
	f := &fakeBackend{sessions: []model.Session{testSession}}
	m := newTestModel(f, model.RoleUser)
	m.sessions = f.sessions
	m.lanes[tabAll] = lane{fetched: true, gen: 1}

	cmd := m.join("s1")
	if cmd == nil {
		t.Fatal("join should issue a request")
	}
	msg := cmd()
	if f.createBookingCalls != 1 || f.createdSessionIDs[0] != "s1" {
		t.Fatalf("create calls = %d for %v", f.createBookingCalls, f.createdSessionIDs)
	}

	m, _ = applyMsg(t, m, msg)

	if len(m.enrolled) != 1 {
		t.Fatalf("enrolled = %+v, want one booking", m.enrolled)
	}
	b := m.enrolled[0]
	if b.ID != "b1" || b.Session.ID != "s1" {
		t.Errorf("booking = %+v", b)
	}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !b.BookingDate.Equal(want) {
		t.Errorf("bookingDate = %s, want %s", b.BookingDate, want)
	}
	if m.activeNotice == nil || m.activeNotice.kind != noticeSuccess {
		t.Error("join should surface a success notice")
	}
	if f.listBookingsCalls != 0 {
		t.Error("join patches locally, it must not refetch")
	}
	if !m.lanes[tabEnrolled].stale {
		t.Error("enrolled lane should be marked stale after a join")
	}
}

func TestJoinEnrolledLaneRefetchesAfterJoin(t *testing.T) {
	f := &fakeBackend{sessions: []model.Session{testSession}}
	m := newTestModel(f, model.RoleUser)
	m.sessions = f.sessions
	m.lanes[tabAll] = lane{fetched: true, gen: 1}
	m.lanes[tabEnrolled] = lane{fetched: true, gen: 1}

	cmd := m.join("s1")
	m, _ = applyMsg(t, m, cmd())

	// The lane was Ready, but the join marked it stale: selecting it must
	// fetch again instead of serving the cache.
	if cmd := m.selectTab(tabEnrolled); cmd == nil {
		t.Error("selecting the enrolled lane after a join should force a fetch")
	}
}

// TestJoinTwiceRejectedLocally covers the at-most-one-booking invariant: a
// second join for the same session is rejected before any network call.
func TestJoinTwiceRejectedLocally(t *testing.T) {
	f := &fakeBackend{sessions: []model.Session{testSession}}
	m := newTestModel(f, model.RoleUser)
	m.sessions = f.sessions

	cmd := m.join("s1")
	m, _ = applyMsg(t, m, cmd())
	if len(m.enrolled) != 1 {
		t.Fatal("first join should enroll")
	}

	cmd = m.join("s1")
	if f.createBookingCalls != 1 {
		t.Errorf("createBookingCalls = %d, second join must not reach the backend", f.createBookingCalls)
	}
	if cmd == nil {
		t.Fatal("rejected join should still surface a notice")
	}
	if m.activeNotice == nil || m.activeNotice.kind != noticeError {
		t.Error("rejected join should show an error notice")
	}
	if len(m.enrolled) != 1 {
		t.Error("rejected join must not add a second entry")
	}
}

func TestJoinDuplicateRejectedByBackend(t *testing.T) {
	m := newTestModel(&fakeBackend{}, model.RoleUser)

	err := fmt.Errorf("%w: booking exists", api.ErrAlreadyEnrolled)
	m, _ = applyMsg(t, m, bookingCreatedMsg{err: err})

	if len(m.enrolled) != 0 {
		t.Error("a rejected join must not touch local state")
	}
	if m.activeNotice == nil || m.activeNotice.kind != noticeError {
		t.Error("backend duplicate rejection should surface as a notice")
	}
}

// TestCancelScenario covers scenario B: cancel with confirmation deletes by
// booking id and removes the entry by session id on success.
func TestCancelScenario(t *testing.T) {
	f := &fakeBackend{}
	m := newTestModel(f, model.RoleUser)
	m.enrolled = []model.Booking{{ID: "b1", Session: testSession}}
	m.lanes[tabEnrolled] = lane{fetched: true, gen: 1}

	m.requestCancel("s1")
	if m.pendingCancel != "s1" {
		t.Fatalf("pendingCancel = %q", m.pendingCancel)
	}

	cmd := m.confirmCancel()
	if m.pendingCancel != "" {
		t.Error("confirmation should clear the pending slot")
	}
	if cmd == nil {
		t.Fatal("confirmed cancel should issue a request")
	}
	msg := cmd()

	// The deletion is keyed on the booking id, not the session id.
	if len(f.deletedBookingIDs) != 1 || f.deletedBookingIDs[0] != "b1" {
		t.Fatalf("deletedBookingIDs = %v, want [b1]", f.deletedBookingIDs)
	}

	genBefore := m.lanes[tabEnrolled].gen
	m, _ = applyMsg(t, m, msg)

	if len(m.enrolled) != 0 {
		t.Errorf("enrolled = %+v, want empty after cancel", m.enrolled)
	}
	if m.activeNotice == nil || m.activeNotice.kind != noticeSuccess {
		t.Error("cancel should surface a success notice")
	}
	// Background refresh reconciles drift.
	if m.lanes[tabEnrolled].gen != genBefore+1 || !m.lanes[tabEnrolled].loading {
		t.Error("cancel should kick off a background refresh of the enrolled lane")
	}
}

// TestCancelWithoutBooking covers scenario C: cancelling a session with no
// local booking fails immediately and issues no network call.
func TestCancelWithoutBooking(t *testing.T) {
	f := &fakeBackend{}
	m := newTestModel(f, model.RoleUser)
	m.enrolled = []model.Booking{{ID: "b1", Session: testSession}}

	m.requestCancel("s2")
	cmd := m.confirmCancel()

	if f.deleteBookingCalls != 0 {
		t.Error("missing local booking must not reach the backend")
	}
	if m.activeNotice == nil || m.activeNotice.kind != noticeError {
		t.Error("missing booking should surface as an error notice")
	}
	if cmd == nil {
		t.Error("the notice expiry command should still be returned")
	}
	if len(m.enrolled) != 1 {
		t.Error("local state must be untouched")
	}
}

func TestCancelFailureLeavesListIntact(t *testing.T) {
	f := &fakeBackend{}
	m := newTestModel(f, model.RoleUser)
	m.enrolled = []model.Booking{{ID: "b1", Session: testSession}}

	// No optimistic removal: the entry survives a failed delete.
	m, _ = applyMsg(t, m, bookingCancelledMsg{sessionID: "s1", err: fmt.Errorf("HTTP 500")})

	if len(m.enrolled) != 1 {
		t.Error("failed cancel must not remove the booking locally")
	}
	if m.activeNotice == nil || m.activeNotice.kind != noticeError {
		t.Error("failed cancel should surface as a notice")
	}
}

func TestDismissClearsPendingCancel(t *testing.T) {
	m := newTestModel(&fakeBackend{}, model.RoleUser)
	m.enrolled = []model.Booking{{ID: "b1", Session: testSession}}

	m.requestCancel("s1")
	m.dismissCancel()

	if m.pendingCancel != "" {
		t.Error("dismiss should clear the pending slot")
	}
}

func TestConfirmDialogKeys(t *testing.T) {
	f := &fakeBackend{}
	m := newTestModel(f, model.RoleUser)
	m.enrolled = []model.Booking{{ID: "b1", Session: testSession}}
	m.viewMode = ViewModeSessions
	m.requestCancel("s1")

	// "n" dismisses without issuing anything.
	m, _ = applyMsg(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if m.pendingCancel != "" {
		t.Error("n should dismiss the dialog")
	}
	if f.deleteBookingCalls != 0 {
		t.Error("dismiss must not delete anything")
	}

	// "y" confirms.
	m.requestCancel("s1")
	m, cmd := applyMsg(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	if m.pendingCancel != "" {
		t.Error("y should clear the pending slot")
	}
	if cmd == nil {
		t.Error("y should issue the delete")
	}
}

func TestUnresolvedBookingsExcludedFromView(t *testing.T) {
	m := newTestModel(&fakeBackend{}, model.RoleUser)
	m.tab = tabEnrolled
	m.enrolled = []model.Booking{
		{ID: "b1", Session: testSession},
		{ID: "b2"}, // session deleted on the backend
	}

	visible := m.visibleSessions()
	if len(visible) != 1 || visible[0].ID != "s1" {
		t.Errorf("visibleSessions = %+v, want only s1", visible)
	}
}

func TestTabSwitchKeys(t *testing.T) {
	m := newTestModel(&fakeBackend{}, model.RoleUser)
	m.viewMode = ViewModeSessions
	m.lanes[tabAll] = lane{fetched: true, gen: 1}
	m.lanes[tabEnrolled] = lane{fetched: true, gen: 1}

	m, _ = applyMsg(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.tab != tabEnrolled {
		t.Errorf("tab = %d after shift+tab, want the enrolled tab", m.tab)
	}

	m, _ = applyMsg(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.tab != tabAll {
		t.Errorf("tab = %d after tab, want the all tab", m.tab)
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	f := &fakeBackend{sessions: []model.Session{testSession}}
	m := newTestModel(f, model.RoleUser)
	m.lanes[tabAll] = lane{fetched: true, gen: 1}
	m.viewMode = ViewModeSessions

	_, cmd := applyMsg(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("explicit refresh should fetch even when cached")
	}
	cmd()
	if f.listSessionsCalls != 1 {
		t.Errorf("listSessionsCalls = %d, want 1", f.listSessionsCalls)
	}
}

func TestOutOfOrderCancelRefreshUsesCurrentState(t *testing.T) {
	// A cancel's follow-up refresh replaces the list with whatever the
	// backend says at resolution time, not a snapshot from issue time.
	f := &fakeBackend{}
	m := newTestModel(f, model.RoleUser)
	m.enrolled = []model.Booking{
		{ID: "b1", Session: testSession},
		{ID: "b2", Session: model.Session{ID: "s2", Name: "Yin"}},
	}
	m.lanes[tabEnrolled] = lane{fetched: true, gen: 1}

	m, _ = applyMsg(t, m, bookingCancelledMsg{sessionID: "s1"})
	if len(m.enrolled) != 1 || m.enrolled[0].ID != "b2" {
		t.Fatalf("enrolled = %+v", m.enrolled)
	}

	// The refresh lands later with the authoritative list.
	m, _ = applyMsg(t, m, bookingsLoadedMsg{
		gen:      m.lanes[tabEnrolled].gen,
		bookings: []model.Booking{{ID: "b2", Session: model.Session{ID: "s2"}}},
	})
	if len(m.enrolled) != 1 || m.enrolled[0].ID != "b2" {
		t.Errorf("enrolled after refresh = %+v", m.enrolled)
	}
	if m.lanes[tabEnrolled].loading {
		t.Error("refresh should complete the lane")
	}
}
