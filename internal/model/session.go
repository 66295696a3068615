package model

import "time"

// Session represents a schedulable class on the studio calendar.
// DateTime is always stored in UTC by the backend.
type Session struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Instructor  Instructor `json:"instructor"`
	DateTime    time.Time  `json:"dateTime"`
}

// Instructor is the owning reference embedded in a session.
type Instructor struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}
