package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"employee-service/internal/apperrors"
	"employee-service/internal/events"
	"employee-service/internal/models"
	"employee-service/internal/repository"
)

// SettingsService owns the process-wide settings, currently the performance lock
type SettingsService struct {
	repo      repository.SettingsRepository
	publisher events.Publisher
	logger    *logrus.Entry
}

func NewSettingsService(repo repository.SettingsRepository, publisher events.Publisher, logger *logrus.Logger) *SettingsService {
	return &SettingsService{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithField("component", "settings.service"),
	}
}

// IsPerformanceLocked reads the lock state from storage on every call
func (s *SettingsService) IsPerformanceLocked(ctx context.Context) (bool, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return false, err
	}
	return settings.PerformanceLocked, nil
}

// EnsurePerformanceUnlocked is the performance-lock gate. A locked flag yields
// a Locked error. A failed lookup is logged and the operation proceeds.
func (s *SettingsService) EnsurePerformanceUnlocked(ctx context.Context) error {
	locked, err := s.IsPerformanceLocked(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Performance lock lookup failed, allowing operation")
		return nil
	}
	if locked {
		return apperrors.ErrPerformanceLocked
	}
	return nil
}

func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperrors.FromStorage(err, "Settings")
	}
	return settings, nil
}

// SetPerformanceLock toggles the lock. Only global admins may change it.
func (s *SettingsService) SetPerformanceLock(ctx context.Context, identity *models.Identity, locked bool) (*models.Settings, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthenticated("Authentication required")
	}
	if !identity.IsGlobalAdmin() {
		return nil, apperrors.NewForbidden("Only a global admin can change the performance lock")
	}

	settings, err := s.repo.SetPerformanceLocked(ctx, locked, identity.ID)
	if err != nil {
		return nil, apperrors.FromStorage(err, "Settings")
	}

	s.logger.WithFields(logrus.Fields{
		"locked":  locked,
		"user_id": identity.ID,
	}).Info("Performance lock changed")

	event := events.NewEvent(events.PerformanceLockChanged, identity.ID, identity.Role.String())
	event.Data = map[string]interface{}{"locked": locked}
	s.publisher.Publish(ctx, event)

	return settings, nil
}
