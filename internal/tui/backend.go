package tui

import (
	"time"

	"github.com/prana/studio/internal/api"
	"github.com/prana/studio/internal/model"
)

// Backend is the slice of the studio API the UI needs. *api.Client is the
// real implementation; tests substitute a fake to observe exactly which
// calls an interaction issues.
type Backend interface {
	ListSessions() ([]model.Session, error)
	ListUserBookings() ([]model.Booking, error)
	CreateBooking(sessionID string, bookingDate time.Time) (model.Booking, error)
	DeleteBooking(bookingID string) error

	CreateSession(in api.SessionInput) (model.Session, error)
	UpdateSession(id string, in api.SessionInput) (model.Session, error)
	DeleteSession(id string) error
	ListInstructors() ([]model.Instructor, error)

	Login(email, password string) (api.AuthResult, error)
	Signup(name, email, password string) (api.AuthResult, error)

	Profile() (model.User, error)

	ListUsers() ([]model.User, error)
	UpdateUserRole(id string, role model.Role) (model.User, error)
	DeleteUser(id string) error
}

var _ Backend = (*api.Client)(nil)
