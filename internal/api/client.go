// Package api is the HTTP client for the studio booking backend. Every
// response is JSON; every request except the auth endpoints carries the
// bearer token supplied by the auth context.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prana/studio/internal/localtime"
	"github.com/prana/studio/internal/model"
)

// ErrAlreadyEnrolled is returned when the backend rejects a booking because
// the user already holds one for that session.
var ErrAlreadyEnrolled = errors.New("already enrolled in session")

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// Client talks to the studio backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
}

// NewClient creates a client for the backend at baseURL. token is consulted
// per request so a login during the session takes effect immediately. The
// client sets no timeout of its own; failures surface through the transport.
func NewClient(baseURL string, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		token:      token,
	}
}

// do executes a request against path and unmarshals the JSON response into
// result when result is non-nil. Non-2xx statuses come back as *StatusError.
func (c *Client) do(method, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	// Auth endpoints are the only ones called without credentials.
	if tok := c.token(); tok != "" && !strings.HasPrefix(path, "/auth/") {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// ListSessions returns the full session catalog.
func (c *Client) ListSessions() ([]model.Session, error) {
	var sessions []model.Session
	if err := c.do(http.MethodGet, "/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListUserBookings returns the current user's bookings, each with its
// session embedded.
func (c *Client) ListUserBookings() ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.do(http.MethodGet, "/bookings/user", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking enrolls the current user in a session. A duplicate rejection
// from the backend is reported as ErrAlreadyEnrolled.
func (c *Client) CreateBooking(sessionID string, bookingDate time.Time) (model.Booking, error) {
	body := struct {
		SessionID   string `json:"sessionId"`
		BookingDate string `json:"bookingDate"`
	}{
		SessionID:   sessionID,
		BookingDate: localtime.FormatStorage(bookingDate),
	}

	var booking model.Booking
	if err := c.do(http.MethodPost, "/bookings", body, &booking); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusConflict {
			return model.Booking{}, fmt.Errorf("%w: %s", ErrAlreadyEnrolled, se.Body)
		}
		return model.Booking{}, err
	}
	return booking, nil
}

// DeleteBooking cancels a booking. The backend keys deletion on the booking
// id, not the session id.
func (c *Client) DeleteBooking(bookingID string) error {
	return c.do(http.MethodDelete, "/bookings/"+bookingID, nil, nil)
}

// SessionInput is the payload for creating or updating a session. Instructor
// is the instructor's id; DateTime is the UTC storage form produced by
// localtime.FormatStorage.
type SessionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	DateTime    string `json:"dateTime"`
}

// CreateSession adds a session to the schedule.
func (c *Client) CreateSession(in SessionInput) (model.Session, error) {
	var session model.Session
	if err := c.do(http.MethodPost, "/sessions", in, &session); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// UpdateSession replaces an existing session's fields.
func (c *Client) UpdateSession(id string, in SessionInput) (model.Session, error) {
	var session model.Session
	if err := c.do(http.MethodPut, "/sessions/"+id, in, &session); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// DeleteSession removes a session from the schedule. Dependent bookings are
// the backend's problem; they come back unresolved on the next fetch.
func (c *Client) DeleteSession(id string) error {
	return c.do(http.MethodDelete, "/sessions/"+id, nil, nil)
}

// ListInstructors returns the accounts that can be assigned to a session.
func (c *Client) ListInstructors() ([]model.Instructor, error) {
	var instructors []model.Instructor
	if err := c.do(http.MethodGet, "/user/instructor", nil, &instructors); err != nil {
		return nil, err
	}
	return instructors, nil
}

// Profile returns the logged-in user's account record.
func (c *Client) Profile() (model.User, error) {
	var user model.User
	if err := c.do(http.MethodGet, "/user/profile", nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// AuthResult is the backend's answer to a successful login or signup.
type AuthResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(email, password string) (AuthResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}

	var res AuthResult
	if err := c.do(http.MethodPost, "/auth/login", body, &res); err != nil {
		return AuthResult{}, err
	}
	if res.Token == "" {
		return AuthResult{}, errors.New("login response missing token")
	}
	return res, nil
}

// Signup registers a new account and returns its token.
func (c *Client) Signup(name, email, password string) (AuthResult, error) {
	body := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{name, email, password}

	var res AuthResult
	if err := c.do(http.MethodPost, "/auth/register", body, &res); err != nil {
		return AuthResult{}, err
	}
	if res.Token == "" {
		return AuthResult{}, errors.New("signup response missing token")
	}
	return res, nil
}

// ListUsers returns all non-admin accounts for the user management screen.
func (c *Client) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := c.do(http.MethodGet, "/user/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole assigns a new role to a user.
func (c *Client) UpdateUserRole(id string, role model.Role) (model.User, error) {
	body := struct {
		Role model.Role `json:"role"`
	}{role}

	var user model.User
	if err := c.do(http.MethodPut, "/users/"+id+"/role", body, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(id string) error {
	return c.do(http.MethodDelete, "/users/"+id, nil, nil)
}
