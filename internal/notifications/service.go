package notifications

import (
	"context"
	"fmt"

	"realtor_portal_backend/internal/events"
	"realtor_portal_backend/platform/logger"
)

// Service provides the notification feed and subscribes to coverage events.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// NewService creates a notification service.
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListRecent returns the newest notifications.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Notification, error) {
	return s.repo.ListRecent(ctx, limit)
}

// Record stores a notification message.
func (s *Service) Record(ctx context.Context, message string) (Notification, error) {
	return s.repo.Record(ctx, message)
}

// Handle records feed entries for coverage transitions.
func (s *Service) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCoverageLost:
		msg := fmt.Sprintf("Lead %s has been updated to No-coverage because of no realtor in that area", e.LeadCode)
		_, err := s.repo.Record(ctx, msg)
		return err
	case events.LeadCoverageRestored:
		msg := fmt.Sprintf("%s covers this area and Lead %s is set to accepted", e.AgentCode, e.LeadCode)
		_, err := s.repo.Record(ctx, msg)
		return err
	default:
		return nil
	}
}
