package prompts

import "context"

// Repo defines persistence operations for prompt templates.
//
// Create and Update keep the default flag unique per owner scope: when a
// template becomes the default, every other default in its scope is cleared
// in the same critical section.
type Repo interface {
	Create(ctx context.Context, t Template) (Template, error)
	Update(ctx context.Context, ownerID, id string, patch Patch) (Template, error)
	Delete(ctx context.Context, ownerID, id string) error
	GetByID(ctx context.Context, id string) (Template, error)
	// ListVisible returns the owner's templates plus global ones, newest first.
	// An empty ownerID lists global templates only.
	ListVisible(ctx context.Context, ownerID string) ([]Template, error)
	// ListDefaults returns the defaults of one scope; "" is the global scope.
	ListDefaults(ctx context.Context, ownerID string) ([]Template, error)
}

func scopeKey(ownerID string) string {
	if ownerID == "" {
		return "custom_prompts:global"
	}
	return "custom_prompts:user:" + ownerID
}
