package prompts

import (
	"context"
	"fmt"
	"strings"

	"coverletter-backend/internal/shared/auth"
)

// Service contains business logic for prompt templates.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateInput carries the fields of a new template.
type CreateInput struct {
	Name      string `json:"name"`
	Body      string `json:"prompt_text"`
	IsDefault bool   `json:"is_default"`
}

// List returns the templates visible to caller: their own plus global ones.
func (s *Service) List(ctx context.Context, caller auth.Caller) ([]Template, error) {
	items, err := s.Repo.ListVisible(ctx, auth.UserID(caller))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Template{}
	}
	return items, nil
}

// Get returns one template if it is global or owned by caller.
func (s *Service) Get(ctx context.Context, caller auth.Caller, id string) (Template, error) {
	if strings.TrimSpace(id) == "" {
		return Template{}, ErrInvalidInput
	}
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if !t.IsGlobal() && t.Owner() != auth.UserID(caller) {
		return Template{}, ErrNotFound
	}
	return t, nil
}

// GlobalDefault returns the single default of the global scope.
func (s *Service) GlobalDefault(ctx context.Context) (Template, error) {
	return (&Resolver{Repo: s.Repo}).globalDefault(ctx)
}

// Create stores a template owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Template, error) {
	if ownerID == "" {
		return Template{}, ErrForbidden
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Body) == "" {
		return Template{}, fmt.Errorf("%w: name and prompt text are required", ErrInvalidInput)
	}
	owner := ownerID
	return s.Repo.Create(ctx, Template{
		OwnerID:   &owner,
		Name:      strings.TrimSpace(in.Name),
		Body:      in.Body,
		IsDefault: in.IsDefault,
	})
}

// Update applies patch to a template owned by ownerID.
func (s *Service) Update(ctx context.Context, ownerID, id string, patch Patch) (Template, error) {
	if strings.TrimSpace(id) == "" {
		return Template{}, fmt.Errorf("%w: missing prompt id", ErrInvalidInput)
	}
	if patch.Empty() {
		return Template{}, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Template{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		patch.Name = &name
	}
	if patch.Body != nil && strings.TrimSpace(*patch.Body) == "" {
		return Template{}, fmt.Errorf("%w: prompt text cannot be empty", ErrInvalidInput)
	}
	return s.Repo.Update(ctx, ownerID, id, patch)
}

// Delete removes a template owned by ownerID.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: missing prompt id", ErrInvalidInput)
	}
	return s.Repo.Delete(ctx, ownerID, id)
}
