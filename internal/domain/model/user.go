package model

import (
	"strings"
	"time"
)

// User is the demo session identity. It is not a managed account.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserFromEmail derives the display name from the local part of email.
func UserFromEmail(email string) User {
	email = strings.TrimSpace(email)
	name, _, _ := strings.Cut(email, "@")
	return User{Email: email, Name: name}
}

// ContactMessage is a message left through the contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordID implements repository.Identifiable.
func (m ContactMessage) RecordID() string { return m.ID }
