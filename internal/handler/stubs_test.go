package handler

import (
	"context"
	"sync"

	"github.com/matsyaark/api/internal/dto"
	"github.com/matsyaark/api/internal/entity"
)

type stubContactsRepository struct {
	mu      sync.Mutex
	records []entity.ContactMessage
	err     error
}

func (s *stubContactsRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, *msg)
	return nil
}

func (s *stubContactsRepository) EnsureSchema(ctx context.Context) error { return nil }

func (s *stubContactsRepository) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type stubDescriber struct {
	result string
	err    error

	calls    int
	image    []byte
	mimeType string
	// onCall runs during the external call, while the upload is still spooled.
	onCall func()
}

func (s *stubDescriber) DescribeCoral(ctx context.Context, image []byte, mimeType string) (string, error) {
	s.calls++
	s.image = image
	s.mimeType = mimeType
	if s.onCall != nil {
		s.onCall()
	}
	if s.err != nil {
		return "", s.err
	}
	return s.result, nil
}

type stubDetectionSource struct {
	resp      dto.DetectionsResponse
	err       error
	requestID string
}

func (s *stubDetectionSource) LatestDetections(ctx context.Context, requestID string) (dto.DetectionsResponse, error) {
	s.requestID = requestID
	if s.err != nil {
		return dto.DetectionsResponse{}, s.err
	}
	return s.resp, nil
}
