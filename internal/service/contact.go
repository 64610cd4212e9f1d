package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matsyaark/api/internal/dto"
	"github.com/matsyaark/api/internal/entity"
	"github.com/matsyaark/api/internal/repository"
)

// ContactService validates contact form submissions and stores them.
type ContactService struct {
	repo      repository.ContactsRepository
	validator *ContactValidator
	now       func() time.Time
}

// NewContactService creates a new instance of ContactService.
func NewContactService(repo repository.ContactsRepository, validator *ContactValidator) *ContactService {
	if validator == nil {
		validator = NewContactValidator("")
	}
	return &ContactService{repo: repo, validator: validator, now: time.Now}
}

// Submit validates the request and persists exactly one new record. It
// returns ValidationErrors without touching storage when the form is invalid.
func (s *ContactService) Submit(ctx context.Context, req dto.ContactRequest) (*entity.ContactMessage, error) {
	clean, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	msg := &entity.ContactMessage{
		ID:        uuid.New(),
		FirstName: clean.FirstName,
		LastName:  clean.LastName,
		Email:     clean.Email,
		Phone:     clean.Phone,
		PhoneE164: clean.PhoneE164,
		Message:   clean.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	return msg, nil
}
