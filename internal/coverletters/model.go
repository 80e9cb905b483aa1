package coverletters

import "time"

// CoverLetter is a saved generated letter owned by one user.
type CoverLetter struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"template_name"`
	Description string    `json:"template_description"`
	Content     string    `json:"cover_letter_content"`
	ResumeText  *string   `json:"resume_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput carries the fields of a new letter.
type CreateInput struct {
	Title       string `json:"template_name"`
	Description string `json:"template_description"`
	Content     string `json:"cover_letter_content"`
	ResumeText  string `json:"resume_text"`
}

// Patch holds a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string `json:"template_name"`
	Description *string `json:"template_description"`
	Content     *string `json:"cover_letter_content"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Content == nil
}

// Page is one page of a user's letters.
type Page struct {
	Data  []CoverLetter `json:"data"`
	Total int           `json:"total"`
}
