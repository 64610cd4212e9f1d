package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matsyaark/api/internal/entity"
)

// SQLSTATE codes treated as schema rejections.
const (
	pgNotNullViolation = "23502"
	pgCheckViolation   = "23514"
)

// pgxPool is the subset of *pgxpool.Pool used by the repository.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const contactsSchema = `
CREATE TABLE IF NOT EXISTS contact_messages (
    id          UUID PRIMARY KEY,
    first_name  TEXT NOT NULL CONSTRAINT contact_messages_first_name_check CHECK (btrim(first_name) <> ''),
    last_name   TEXT NOT NULL DEFAULT '',
    email       TEXT NOT NULL CONSTRAINT contact_messages_email_check CHECK (email ~ '^[^@\s]+@[^@\s]+\.[^@\s]{2,}$' AND email = lower(email)),
    phone       TEXT NOT NULL DEFAULT '',
    phone_e164  TEXT NOT NULL DEFAULT '',
    message     TEXT NOT NULL CONSTRAINT contact_messages_message_check CHECK (btrim(message) <> ''),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS contact_messages_created_at_idx ON contact_messages (created_at DESC);
`

// PGXContactsRepository implements ContactsRepository on PostgreSQL.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository.
func NewPGXContactsRepository(pool *pgxpool.Pool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

// Create inserts a new contact_messages row.
func (r *PGXContactsRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	if msg == nil {
		return fmt.Errorf("contact message payload is nil")
	}

	_, err := r.pool.Exec(ctx, `
        INSERT INTO contact_messages (id, first_name, last_name, email, phone, phone_e164, message, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `, msg.ID, msg.FirstName, msg.LastName, msg.Email, msg.Phone, msg.PhoneE164, msg.Message, msg.CreatedAt, msg.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNullViolation) {
			return ValidationError{Message: pgValidationMessage(pgErr)}
		}
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

// EnsureSchema creates the contact_messages table and index if missing.
func (r *PGXContactsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, contactsSchema); err != nil {
		return fmt.Errorf("create contact_messages schema: %w", err)
	}
	return nil
}

func pgValidationMessage(pgErr *pgconn.PgError) string {
	switch pgErr.ConstraintName {
	case "contact_messages_first_name_check":
		return "contact message rejected: firstName is required"
	case "contact_messages_email_check":
		return "contact message rejected: email is not a valid address"
	case "contact_messages_message_check":
		return "contact message rejected: message is required"
	}
	if pgErr.ColumnName != "" {
		return "contact message rejected: " + pgErr.ColumnName + " is required"
	}
	return "contact message rejected by storage schema"
}

var _ ContactsRepository = (*PGXContactsRepository)(nil)
