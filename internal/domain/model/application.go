// Package model contains the persisted entities and their status enumerations.
package model

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// Terminal reports whether no transition leaves s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Application is a submitted program application.
// ReviewedAt is set iff Status is not pending.
type Application struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Program    string            `json:"program"`
	Summary    string            `json:"summary"`
	ResumeName *string           `json:"resumeName"`
	Status     ApplicationStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	ReviewedAt *time.Time        `json:"reviewedAt,omitempty"`
}

// RecordID implements repository.Identifiable.
func (a Application) RecordID() string { return a.ID }

// ApplicationInput carries the applicant-supplied fields. It deliberately has
// no status: every new application starts pending.
type ApplicationInput struct {
	Name       string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Program    string `json:"program"`
	Summary    string `json:"summary"`
	ResumeName string `json:"resumeName"`
}

// Decision is an admin review action.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision accepts "approve" or "reject" (case-insensitive).
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionApprove, DecisionReject:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDecision, s)
	}
}

// Status returns the terminal status the decision leads to. A value that is
// not a parsed Decision leads nowhere and yields StatusPending.
func (d Decision) Status() ApplicationStatus {
	switch d {
	case DecisionApprove:
		return StatusApproved
	case DecisionReject:
		return StatusRejected
	default:
		return StatusPending
	}
}
