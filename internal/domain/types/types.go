// Package types contains read shapes returned to the rendering layer.
package types

import "github.com/okian/novhub/internal/domain/model"

// Dashboard is the signed-in user's view of their own records.
type Dashboard struct {
	User          model.User          `json:"user"`
	Applications  []model.Application `json:"applications"`
	Bookings      []model.Booking     `json:"bookings"`
	SandboxPoints int                 `json:"sandboxPoints"`
}

// Stats is a snapshot of the display counters.
type Stats struct {
	Students int `json:"students"`
	Startups int `json:"startups"`
	Mentors  int `json:"mentors"`
}

// ReviewResult reports the outcome of an admin decision. Changed is false
// when the application had already been reviewed and the call was a no-op.
type ReviewResult struct {
	Application model.Application `json:"application"`
	Changed     bool              `json:"changed"`
	Warning     string            `json:"warning,omitempty"`
}
