package users

import (
	"context"
	"errors"
	"strings"

	"coverletter-backend/internal/shared/auth"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// RecordLogin stores the identity carried by a freshly issued session.
func (s *Service) RecordLogin(ctx context.Context, id auth.Authenticated) error {
	if strings.TrimSpace(id.UserID) == "" {
		return errors.New("user id is required")
	}
	_, err := s.Repo.Upsert(ctx, User{
		ID:       id.UserID,
		Email:    strings.TrimSpace(id.Email),
		Name:     strings.TrimSpace(id.Name),
		Provider: id.Provider,
	})
	return err
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}
