package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
	"github.com/bandhub/backstage/internal/repository"
)

type UserPatch struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Instrument  *string `json:"instrument"`
	Bio         *string `json:"bio"`
}

type UserService struct {
	repo   repository.UserRepository
	logger *slog.Logger
}

func NewUserService(repo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) GetByID(ctx context.Context, cognitoID string) (*model.User, error) {
	cognitoID = strings.TrimSpace(cognitoID)
	if cognitoID == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.repo.GetUserByID(ctx, cognitoID)
}

// UpdateProfile merges the patch into the stored profile. The repository
// recomputes profile_complete on the write.
func (s *UserService) UpdateProfile(ctx context.Context, cognitoID string, patch UserPatch) (*model.User, error) {
	user, err := s.GetByID(ctx, cognitoID)
	if err != nil {
		return nil, err
	}

	if patch.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
	}
	if patch.Instrument != nil {
		user.Instrument = strings.TrimSpace(*patch.Instrument)
	}
	if patch.Bio != nil {
		user.Bio = strings.TrimSpace(*patch.Bio)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		s.logger.Error("failed to update user profile",
			slog.String("user_id", cognitoID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user %s: %w", cognitoID, err)
	}

	s.logger.Info("user profile updated",
		slog.String("user_id", user.CognitoID),
		slog.Bool("profile_complete", user.ProfileComplete),
	)

	return user, nil
}
