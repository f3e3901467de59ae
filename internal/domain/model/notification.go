package model

import "time"

// NotificationKind names what a notification is about.
type NotificationKind string

const (
	NotifyApplicationReceived NotificationKind = "application_received"
	NotifyApplicationReviewed NotificationKind = "application_reviewed"
	NotifyBookingReceived     NotificationKind = "booking_received"
	NotifyContactAcknowledged NotificationKind = "contact_acknowledged"
)

// Notification is an outbound message produced as a side effect of a
// successful operation. Delivery is best effort.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Recipient string           `json:"recipient"`
	Subject   string           `json:"subject"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"createdAt"`
}
