package model

import "time"

// Booking links the current user to a session. The backend scopes the
// booking list to the authenticated user, so there is no user field here.
type Booking struct {
	ID          string    `json:"_id"`
	Session     Session   `json:"session"`
	BookingDate time.Time `json:"bookingDate"`
}

// Resolved reports whether the embedded session could be resolved by the
// backend. A booking whose session was deleted comes back without one and
// cannot be shown or cancelled through the UI.
func (b Booking) Resolved() bool {
	return b.Session.ID != ""
}

// BookingFor returns the booking referencing the given session id, if any.
func BookingFor(bookings []Booking, sessionID string) (Booking, bool) {
	for _, b := range bookings {
		if b.Session.ID == sessionID {
			return b, true
		}
	}
	return Booking{}, false
}
