package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fundlift/fundlift-backend/pkg/db/models"
	pkgerrors "github.com/fundlift/fundlift-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the public slice of a user shown alongside campaigns and donations.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarID    string    `json:"avatar_id,omitempty"`
}

// Service resolves user identities for display and authorization checks.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	ProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	ProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Profile, error)
}

type service struct {
	repo Repository
}

// RegisterInput holds the data required to create a user record.
type RegisterInput struct {
	Email       string
	DisplayName string
	AvatarID    string
}

// NewService wires an identity service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("identity repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}

	user := &models.User{
		Email:       email,
		DisplayName: name,
		IsActive:    true,
	}
	if input.AvatarID != "" {
		avatar := input.AvatarID
		user.AvatarID = &avatar
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return user, nil
}

func (s *service) ProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	profile := toProfile(*user)
	return &profile, nil
}

func (s *service) ProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Profile, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load users")
	}
	profiles := make(map[uuid.UUID]Profile, len(users))
	for _, user := range users {
		profiles[user.ID] = toProfile(user)
	}
	return profiles, nil
}

func toProfile(user models.User) Profile {
	profile := Profile{ID: user.ID, DisplayName: user.DisplayName}
	if user.AvatarID != nil {
		profile.AvatarID = *user.AvatarID
	}
	return profile
}
