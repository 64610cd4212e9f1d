package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is a visitor submission received through the contact form.
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	PhoneE164 string    `json:"phoneE164,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
