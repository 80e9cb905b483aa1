package prompts

import "time"

// Template is a named instruction body with {placeholder} tokens.
// A nil OwnerID marks the single global scope.
type Template struct {
	ID        string    `json:"id"`
	OwnerID   *string   `json:"user_id"`
	Name      string    `json:"name"`
	Body      string    `json:"prompt_text"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsGlobal reports whether the template belongs to the global scope.
func (t Template) IsGlobal() bool {
	return t.OwnerID == nil
}

// Owner returns the owner id, or "" for global templates.
func (t Template) Owner() string {
	if t.OwnerID == nil {
		return ""
	}
	return *t.OwnerID
}

// Patch holds the fields of a partial update. Nil fields are left unchanged.
type Patch struct {
	Name      *string `json:"name"`
	Body      *string `json:"prompt_text"`
	IsDefault *bool   `json:"is_default"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Body == nil && p.IsDefault == nil
}
