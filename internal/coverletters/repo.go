package coverletters

import "context"

// Repo defines persistence operations for cover letters.
type Repo interface {
	Create(ctx context.Context, cl CoverLetter) (CoverLetter, error)
	Update(ctx context.Context, userID, id string, patch Patch) (CoverLetter, error)
	Delete(ctx context.Context, userID, id string) error
	// List returns newest first along with the user's total count.
	List(ctx context.Context, userID string, limit, offset int) ([]CoverLetter, int, error)
}
