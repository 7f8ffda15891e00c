package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"marketplace/src/core/domain"
	"marketplace/src/core/ports"
)

// UserProfileService handles registration and profile edits.
type UserProfileService struct {
	repo      ports.UserProfileRepository
	publisher ports.EventPublisher
	log       *slog.Logger
}

func NewUserProfileService(repo ports.UserProfileRepository, publisher ports.EventPublisher, log *slog.Logger) *UserProfileService {
	return &UserProfileService{repo: repo, publisher: publisher, log: log}
}

type RegisterUserInput struct {
	ID          string
	FullName    string
	DisplayName string
}

// UserProfileView is the read model of a profile.
type UserProfileView struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	DisplayName string `json:"display_name"`
}

// Register creates a profile. An empty ID gets a generated one.
func (s *UserProfileService) Register(ctx context.Context, in RegisterUserInput) (*UserProfileView, error) {
	id := domain.NewUserID(uuid.New())
	if in.ID != "" {
		parsed, err := domain.ParseUserID(in.ID)
		if err != nil {
			return nil, err
		}
		id = parsed
	}
	fullName, err := domain.NewFullName(in.FullName)
	if err != nil {
		return nil, err
	}
	displayName, err := domain.NewDisplayName(in.DisplayName)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewConflictError("user " + id.String() + " already exists")
	}

	profile := &domain.UserProfile{}
	if err := profile.Register(id, fullName, displayName); err != nil {
		return nil, err
	}
	return s.commit(ctx, profile)
}

func (s *UserProfileService) UpdateFullName(ctx context.Context, rawID, fullName string) (*UserProfileView, error) {
	name, err := domain.NewFullName(fullName)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, rawID, func(p *domain.UserProfile) error {
		return p.UpdateFullName(name)
	})
}

func (s *UserProfileService) UpdateDisplayName(ctx context.Context, rawID, displayName string) (*UserProfileView, error) {
	name, err := domain.NewDisplayName(displayName)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, rawID, func(p *domain.UserProfile) error {
		return p.UpdateDisplayName(name)
	})
}

func (s *UserProfileService) Get(ctx context.Context, rawID string) (*UserProfileView, error) {
	id, err := domain.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return userProfileView(profile), nil
}

func (s *UserProfileService) update(ctx context.Context, rawID string, cmd func(*domain.UserProfile) error) (*UserProfileView, error) {
	id, err := domain.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := cmd(profile); err != nil {
		return nil, err
	}
	return s.commit(ctx, profile)
}

func (s *UserProfileService) commit(ctx context.Context, profile *domain.UserProfile) (*UserProfileView, error) {
	changes, err := s.repo.Save(ctx, profile)
	if err != nil {
		return nil, err
	}
	id, _ := profile.ID()
	if s.publisher != nil && len(changes) > 0 {
		events := make([]ports.Event, len(changes))
		for i, e := range changes {
			events[i] = e
		}
		if err := s.publisher.Publish(ctx, ports.Seal(id.String(), profile.Version(), events)...); err != nil {
			s.log.Error("publishing user profile events failed", "user_id", id.String(), "error", err)
		}
	}
	s.log.Info("user profile saved", "user_id", id.String(), "events", len(changes))
	return userProfileView(profile), nil
}

func userProfileView(p *domain.UserProfile) *UserProfileView {
	id, _ := p.ID()
	fullName, _ := p.FullName()
	displayName, _ := p.DisplayName()
	return &UserProfileView{
		ID:          id.String(),
		FullName:    fullName.Value(),
		DisplayName: displayName.Value(),
	}
}
