package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsyaark/api/internal/dto"
	"github.com/matsyaark/api/internal/entity"
	"github.com/matsyaark/api/internal/repository"
)

type memoryContactsRepository struct {
	records []entity.ContactMessage
	err     error
}

func (m *memoryContactsRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *msg)
	return nil
}

func (m *memoryContactsRepository) EnsureSchema(ctx context.Context) error { return nil }

func validRequest() dto.ContactRequest {
	return dto.ContactRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "JANE@Example.com",
		Phone:     "+1 (555) 123-4567",
		Message:   "Hello",
	}
}

func TestContactService_Submit(t *testing.T) {
	repo := &memoryContactsRepository{}
	svc := NewContactService(repo, NewContactValidator("US"))
	fixed := time.Date(2025, 7, 23, 13, 44, 0, 0, time.FixedZone("IST", 19800))
	svc.now = func() time.Time { return fixed }

	msg, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, repo.records, 1)
	stored := repo.records[0]
	assert.Equal(t, msg.ID, stored.ID)
	assert.Equal(t, "jane@example.com", stored.Email)
	assert.Equal(t, "Jane", stored.FirstName)
	assert.Equal(t, "Doe", stored.LastName)
	assert.Equal(t, "Hello", stored.Message)
	assert.Equal(t, fixed.UTC(), stored.CreatedAt)
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
}

func TestContactService_SubmitIsNotIdempotent(t *testing.T) {
	repo := &memoryContactsRepository{}
	svc := NewContactService(repo, nil)

	first, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Len(t, repo.records, 2)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestContactService_SubmitInvalidDoesNotPersist(t *testing.T) {
	tests := map[string]func(*dto.ContactRequest){
		"missing first name": func(r *dto.ContactRequest) { r.FirstName = "" },
		"missing email":      func(r *dto.ContactRequest) { r.Email = "" },
		"missing message":    func(r *dto.ContactRequest) { r.Message = "" },
		"invalid email":      func(r *dto.ContactRequest) { r.Email = "not-an-email" },
		"invalid phone":      func(r *dto.ContactRequest) { r.Phone = "abc" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &memoryContactsRepository{}
			svc := NewContactService(repo, nil)
			req := validRequest()
			mutate(&req)

			_, err := svc.Submit(context.Background(), req)
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Empty(t, repo.records)
		})
	}
}

func TestContactService_SubmitStorageErrors(t *testing.T) {
	t.Run("storage validation", func(t *testing.T) {
		repo := &memoryContactsRepository{err: repository.ValidationError{Message: "rejected"}}
		_, err := NewContactService(repo, nil).Submit(context.Background(), validRequest())

		var verr repository.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "rejected", verr.Message)
	})

	t.Run("unexpected failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		repo := &memoryContactsRepository{err: boom}
		_, err := NewContactService(repo, nil).Submit(context.Background(), validRequest())

		require.ErrorIs(t, err, boom)
		var verrs ValidationErrors
		assert.False(t, errors.As(err, &verrs))
	})
}
