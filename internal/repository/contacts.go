package repository

import (
	"context"

	"github.com/matsyaark/api/internal/entity"
)

// ContactsRepository persists contact form submissions.
type ContactsRepository interface {
	// Create inserts a single record. A rejection by the storage schema is
	// reported as ValidationError.
	Create(ctx context.Context, msg *entity.ContactMessage) error
	// EnsureSchema creates the table or collection and its storage rules.
	EnsureSchema(ctx context.Context) error
}

// ValidationError indicates the storage layer rejected a record against its schema.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}
