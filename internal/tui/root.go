package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prana/studio/internal/auth"
	"github.com/prana/studio/internal/config"
	"github.com/prana/studio/internal/model"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewModeLogin    ViewMode = iota // Login / signup form
	ViewModeSessions                 // Session catalog (all / enrolled tabs)
	ViewModeAdmin                    // Schedule management
	ViewModeUsers                    // User role management
	ViewModeProfile                  // Account details
)

type spinnerTickMsg struct{}

// Spinner animation frames
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// credentialsSavedMsg is sent after persisting (or clearing) credentials.
type credentialsSavedMsg struct {
	err error
}

// Model is the root Bubble Tea model
type Model struct {
	// Terminal dimensions
	width  int
	height int
	ready  bool

	// Collaborators
	client Backend
	auth   *auth.Context
	cfg    *config.Config
	now    func() time.Time

	// View state
	viewMode ViewMode
	keys     KeyMap

	spinnerIndex int

	// Transient notice (snackbar)
	activeNotice *notice
	noticeSeq    int

	// Session catalog: two lanes sharing one tab bar
	tab           int
	sessions      []model.Session
	enrolled      []model.Booking
	lanes         [2]lane
	catalogCursor int
	pendingCancel string // session id armed for cancellation, "" when idle

	// Login / signup form
	signupMode    bool
	authBusy      bool
	authError     string
	nameInput     textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int

	// Schedule admin. The schedule and the instructor list fetch
	// independently so a failed one can be retried without refetching the
	// other.
	adminSessions      []model.Session
	instructors        []model.Instructor
	adminFetched       bool
	adminLoading       bool
	instructorsFetched bool
	instructorsLoading bool
	adminCursor        int

	// Schedule editor (one draft shared by create and edit)
	editorOpen    bool
	isEditing     bool
	draftID       string
	draftName     textinput.Model
	draftDesc     textinput.Model
	draftDate     textinput.Model
	instructorIdx int
	editorFocus   int

	// Profile
	profile        model.User
	profileLoading bool

	// User admin
	users        []model.User
	usersFetched bool
	usersLoading bool
	usersCursor  int
	rolePicker   bool
	roleIdx      int
}

// NewModel creates the root model. The catalog's first fetch is primed here
// when credentials already exist, so Init can issue it without mutating.
func NewModel(client Backend, authCtx *auth.Context, cfg *config.Config) Model {
	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 80
	name.Width = 40

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 120
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120
	password.Width = 40

	draftName := textinput.New()
	draftName.Placeholder = "Session title"
	draftName.CharLimit = 120
	draftName.Width = 40

	draftDesc := textinput.New()
	draftDesc.Placeholder = "Description"
	draftDesc.CharLimit = 240
	draftDesc.Width = 40

	draftDate := textinput.New()
	draftDate.Placeholder = "2006-01-02T15:04"
	draftDate.CharLimit = 16
	draftDate.Width = 40

	m := Model{
		client:        client,
		auth:          authCtx,
		cfg:           cfg,
		now:           time.Now,
		keys:          DefaultKeyMap(),
		nameInput:     name,
		emailInput:    email,
		passwordInput: password,
		draftName:     draftName,
		draftDesc:     draftDesc,
		draftDate:     draftDate,
		instructorIdx: -1,
	}

	if authCtx.LoggedIn() {
		m.viewMode = ViewModeSessions
		m.lanes[tabAll] = lane{loading: true, gen: 1}
	} else {
		m.viewMode = ViewModeLogin
		m.emailInput.Focus()
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		spinnerTickCmd(),
	}
	if m.viewMode == ViewModeSessions {
		cmds = append(cmds, m.fetchAllCmd(m.lanes[tabAll].gen))
	}
	return tea.Batch(cmds...)
}

// spinnerTickCmd returns a fast tick command for spinner animation
func spinnerTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m Model) spinnerFrame() string {
	return spinnerFrames[m.spinnerIndex%len(spinnerFrames)]
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinnerTickMsg:
		m.spinnerIndex++
		return m, spinnerTickCmd()

	case noticeExpiredMsg:
		return m.handleNoticeExpired(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Catalog / reconciler results
	case sessionsLoadedMsg:
		return m.handleSessionsLoaded(msg)
	case bookingsLoadedMsg:
		return m.handleBookingsLoaded(msg)
	case bookingCreatedMsg:
		return m.handleBookingCreated(msg)
	case bookingCancelledMsg:
		return m.handleBookingCancelled(msg)

	// Auth results
	case authResultMsg:
		return m.handleAuthResult(msg)
	case credentialsSavedMsg:
		// Persisting credentials is best effort; login already took effect.
		return m, nil

	// Schedule admin results
	case adminSessionsLoadedMsg:
		return m.handleAdminSessionsLoaded(msg)
	case instructorsLoadedMsg:
		return m.handleInstructorsLoaded(msg)
	case sessionSavedMsg:
		return m.handleSessionSaved(msg)
	case sessionDeletedMsg:
		return m.handleSessionDeleted(msg)

	case profileLoadedMsg:
		return m.handleProfileLoaded(msg)

	// User admin results
	case usersLoadedMsg:
		return m.handleUsersLoaded(msg)
	case userRoleSavedMsg:
		return m.handleUserRoleSaved(msg)
	case userDeletedMsg:
		return m.handleUserDeleted(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even with a text field focused.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewModeLogin:
		return m.handleLoginKey(msg)
	case ViewModeSessions:
		return m.handleCatalogKey(msg)
	case ViewModeAdmin:
		return m.handleAdminKey(msg)
	case ViewModeUsers:
		return m.handleUsersKey(msg)
	case ViewModeProfile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

// enterSessions switches back to the catalog, honoring the lane cache.
func (m Model) enterSessions() (tea.Model, tea.Cmd) {
	m.viewMode = ViewModeSessions
	return m, m.selectTab(m.tab)
}

// enterAdmin opens the schedule editor view. The affordance is capability
// gated: non-admin roles get a notice instead of an empty admin screen.
func (m Model) enterAdmin() (tea.Model, tea.Cmd) {
	if !m.auth.Role().CanManageSessions() {
		return m, m.showNotice(noticeError, "Only administrators can manage the schedule.")
	}
	m.viewMode = ViewModeAdmin
	return m, m.fetchAdminIfNeeded()
}

// enterProfile opens the account details view and refetches the record.
func (m Model) enterProfile() (tea.Model, tea.Cmd) {
	m.viewMode = ViewModeProfile
	return m, m.fetchProfile()
}

// enterUsers opens the user management view, admin only.
func (m Model) enterUsers() (tea.Model, tea.Cmd) {
	if !m.auth.Role().CanManageUsers() {
		return m, m.showNotice(noticeError, "Only administrators can manage users.")
	}
	m.viewMode = ViewModeUsers
	return m, m.fetchUsersIfNeeded()
}

// logout clears the auth context and all per-user state. Lists and fetched
// flags reset so the next login starts from a clean slate, like a fresh
// application start.
func (m Model) logout() (tea.Model, tea.Cmd) {
	m.auth.Clear()

	m.sessions = nil
	m.enrolled = nil
	m.lanes = [2]lane{}
	m.tab = tabAll
	m.catalogCursor = 0
	m.pendingCancel = ""
	m.adminSessions = nil
	m.instructors = nil
	m.adminFetched = false
	m.adminLoading = false
	m.instructorsFetched = false
	m.instructorsLoading = false
	m.profile = model.User{}
	m.profileLoading = false
	m.users = nil
	m.usersFetched = false
	m.usersLoading = false
	m.closeEditor()

	m.viewMode = ViewModeLogin
	m.signupMode = false
	m.authError = ""
	m.emailInput.SetValue("")
	m.passwordInput.SetValue("")
	m.nameInput.SetValue("")
	m.loginFocus = 0
	m.emailInput.Focus()

	cfg := m.cfg
	return m, func() tea.Msg {
		cfg.AuthToken = ""
		cfg.User = nil
		return credentialsSavedMsg{err: config.Save(cfg)}
	}
}

// View renders the UI
func (m Model) View() string {
	header := HeaderStyle.Render("Prana Studio")
	if user, ok := m.auth.User(); ok {
		header += HeaderMetaStyle.Render(user.Name + " (" + string(user.Role) + ")")
	}

	parts := []string{header}
	if n := m.renderNotice(); n != "" {
		parts = append(parts, n)
	}
	parts = append(parts, "")

	switch m.viewMode {
	case ViewModeLogin:
		parts = append(parts, m.renderLogin())
	case ViewModeSessions:
		parts = append(parts, m.renderCatalog())
	case ViewModeAdmin:
		parts = append(parts, m.renderAdmin())
	case ViewModeUsers:
		parts = append(parts, m.renderUsers())
	case ViewModeProfile:
		parts = append(parts, m.renderProfile())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
