package coverletters

import (
	"context"
	"fmt"
	"strings"
)

// Service contains business logic for saved cover letters.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create saves a letter for userID. Title, description and content are required.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (CoverLetter, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.Content) == "" {
		return CoverLetter{}, fmt.Errorf("%w: Missing required fields", ErrInvalidInput)
	}
	cl := CoverLetter{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
	}
	if in.ResumeText != "" {
		text := in.ResumeText
		cl.ResumeText = &text
	}
	return s.Repo.Create(ctx, cl)
}

// List returns one page of userID's letters, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) (Page, error) {
	items, total, err := s.Repo.List(ctx, userID, limit, offset)
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []CoverLetter{}
	}
	return Page{Data: items, Total: total}, nil
}

// Update applies patch to one of userID's letters.
func (s *Service) Update(ctx context.Context, userID, id string, patch Patch) (CoverLetter, error) {
	if strings.TrimSpace(id) == "" {
		return CoverLetter{}, fmt.Errorf("%w: Missing cover letter ID", ErrInvalidInput)
	}
	if patch.Empty() {
		return CoverLetter{}, fmt.Errorf("%w: No fields to update", ErrInvalidInput)
	}
	return s.Repo.Update(ctx, userID, id, patch)
}

// Delete removes one of userID's letters.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: Missing cover letter ID", ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, userID, id)
}
