package resumes

import "context"

// Repo defines persistence operations for résumés. Create and Update keep at
// most one default per user.
type Repo interface {
	Create(ctx context.Context, r Resume) (Resume, error)
	Update(ctx context.Context, userID, id string, patch Patch) (Resume, error)
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (Resume, error)
	// List orders the default first, then newest first.
	List(ctx context.Context, userID string, limit, offset int) ([]Resume, int, error)
	ListDefaults(ctx context.Context, userID string) ([]Resume, error)
}

func scopeKey(userID string) string {
	return "resumes:user:" + userID
}
