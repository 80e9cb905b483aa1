package resumes

import "time"

// Resume is an uploaded résumé file and the text extracted from it.
type Resume struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	FileName         string    `json:"filename"`
	OriginalFileName string    `json:"original_filename"`
	SizeBytes        int64     `json:"file_size"`
	MimeType         string    `json:"file_type"`
	StorageKey       string    `json:"storage_path"`
	Text             string    `json:"resume_text"`
	IsDefault        bool      `json:"is_default"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Detail is a Resume plus a time-limited download link when the store can sign one.
type Detail struct {
	Resume
	DownloadURL *string `json:"download_url"`
}

// Parsed is the ephemeral result of anonymous parsing. Nothing is stored.
type Parsed struct {
	ID               string `json:"id"`
	FileName         string `json:"filename"`
	OriginalFileName string `json:"original_filename"`
	SizeBytes        int64  `json:"file_size"`
	MimeType         string `json:"file_type"`
	Text             string `json:"resume_text"`
	IsDefault        bool   `json:"is_default"`
}

// Patch holds the mutable fields of a résumé.
type Patch struct {
	IsDefault *bool   `json:"is_default"`
	Text      *string `json:"resume_text"`
}

func (p Patch) Empty() bool {
	return p.IsDefault == nil && p.Text == nil
}

// Page is one page of a user's résumés.
type Page struct {
	Data  []Resume `json:"data"`
	Count int      `json:"count"`
}

// UploadTicket lets a client upload straight to object storage.
type UploadTicket struct {
	StoragePath string    `json:"storage_path"`
	UploadURL   string    `json:"upload_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
