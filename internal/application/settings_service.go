package application

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/warehouse-ops/dashboard-service/internal/domain"
	"github.com/warehouse-ops/dashboard-service/pkg/errors"
	"github.com/warehouse-ops/dashboard-service/pkg/logging"
)

// SettingsApplicationService handles system-wide settings: shift break
// windows and the user directory.
type SettingsApplicationService struct {
	breaks domain.BreakRepository
	users  domain.UserRepository
	logger *logging.Logger
}

// NewSettingsApplicationService creates a new SettingsApplicationService
func NewSettingsApplicationService(breaks domain.BreakRepository, users domain.UserRepository, logger *logging.Logger) *SettingsApplicationService {
	return &SettingsApplicationService{
		breaks: breaks,
		users:  users,
		logger: logger,
	}
}

// SaveBreak creates or updates a system-wide break window
func (s *SettingsApplicationService) SaveBreak(ctx context.Context, cmd SaveBreakCommand) (*SystemBreakDTO, error) {
	if cmd.End <= cmd.Start {
		return nil, errors.ErrValidation("break end must be after its start")
	}

	b := &domain.SystemBreak{Name: cmd.Name, Start: cmd.Start, End: cmd.End}
	if err := s.breaks.Save(ctx, b); err != nil {
		s.logger.WithError(err).Error("Failed to save break", "name", cmd.Name)
		return nil, fmt.Errorf("failed to save break: %w", err)
	}

	s.logger.Info("Saved break", "name", cmd.Name)
	return ToBreakDTO(b), nil
}

// ListBreaks retrieves all break windows
func (s *SettingsApplicationService) ListBreaks(ctx context.Context) ([]SystemBreakDTO, error) {
	breaks, err := s.breaks.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list breaks")
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	return ToBreakDTOs(breaks), nil
}

// DeleteBreak removes a break window by its hex ID
func (s *SettingsApplicationService) DeleteBreak(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return errors.ErrValidation("invalid break id")
	}

	if err := s.breaks.Delete(ctx, id); err != nil {
		s.logger.WithError(err).Error("Failed to delete break", "id", id)
		return fmt.Errorf("failed to delete break: %w", err)
	}

	s.logger.Info("Deleted break", "id", id)
	return nil
}

// ListUsers retrieves the user directory
func (s *SettingsApplicationService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ToUserDTOs(users), nil
}
