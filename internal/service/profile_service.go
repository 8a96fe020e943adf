package service

import (
	"context"
	"fmt"
	"time"

	"quiz-arena/internal/config"
	"quiz-arena/internal/domain"
	"quiz-arena/internal/dto"
)

// ProfileService reads the signed-in user's profile.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
}

type profileServiceImpl struct {
	profiles      domain.ProfileRepository
	claimInterval time.Duration
	now           func() time.Time
}

func NewProfileService(profiles domain.ProfileRepository, cfg *config.Config) ProfileService {
	return &profileServiceImpl{
		profiles:      profiles,
		claimInterval: cfg.Tokens.DailyClaimInterval,
		now:           time.Now,
	}
}

func (s *profileServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	profile, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("profile %s not found", userID))
	}

	resp := &dto.ProfileResponse{
		ID:                profile.ID,
		Email:             profile.Email,
		Name:              profile.Name,
		ProfilePictureURL: profile.ProfilePictureURL,
		Tokens:            profile.Tokens,
		LastCoinClaim:     profile.LastCoinClaim,
		CanClaimDaily:     profile.CanClaim(s.now(), s.claimInterval),
	}
	if !resp.CanClaimDaily {
		next := profile.LastCoinClaim.Add(s.claimInterval)
		resp.NextClaimAt = &next
	}
	return resp, nil
}
