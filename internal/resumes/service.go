package resumes

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/shared/storage/object"
	"coverletter-backend/internal/shared/telemetry"
)

const (
	// MaxFileSize caps uploaded and inline résumé files.
	MaxFileSize = 10 << 20

	defaultSignedURLTTL = time.Hour
)

// Service contains business logic for résumés.
type Service struct {
	Store        object.ObjectStore
	Repo         Repo
	SignedURLTTL time.Duration
	Now          func() time.Time
}

func NewService(store object.ObjectStore, repo Repo, ttl time.Duration) *Service {
	return &Service{Store: store, Repo: repo, SignedURLTTL: ttl, Now: time.Now}
}

// FileInput describes a résumé file referenced by a JSON request.
type FileInput struct {
	FileName         string `json:"filename"`
	OriginalFileName string `json:"original_filename"`
	SizeBytes        int64  `json:"file_size"`
	MimeType         string `json:"file_type"`
	StoragePath      string `json:"storage_path"`
	IsDefault        bool   `json:"is_default"`
	// Content is the base64 file body for inline uploads.
	Content string `json:"content"`
}

func (in FileInput) originalName() string {
	if in.OriginalFileName != "" {
		return in.OriginalFileName
	}
	return in.FileName
}

// UploadFile stores the file, extracts its text and records it for userID.
func (s *Service) UploadFile(ctx context.Context, userID, fileName string, r io.Reader, isDefault bool) (Resume, error) {
	if userID == "" {
		return Resume{}, ErrForbidden
	}
	if strings.TrimSpace(fileName) == "" {
		return Resume{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	data, err := readLimited(r)
	if err != nil {
		return Resume{}, err
	}

	key, size, mimeType, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		return Resume{}, fmt.Errorf("save object: %w", err)
	}

	res, err := s.Repo.Create(ctx, Resume{
		UserID:           userID,
		FileName:         key[strings.LastIndex(key, "/")+1:],
		OriginalFileName: fileName,
		SizeBytes:        size,
		MimeType:         mimeType,
		StorageKey:       key,
		Text:             extract.TextOrEmpty(ctx, data, fileName, mimeType),
		IsDefault:        isDefault,
	})
	if err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			telemetry.Warn("resumes.cleanup_failed", map[string]any{"storage_path": key, "error": delErr})
		}
		return Resume{}, err
	}
	return res, nil
}

// UploadInline decodes a base64 body and stores it like UploadFile.
func (s *Service) UploadInline(ctx context.Context, userID string, in FileInput) (Resume, error) {
	data, err := decodeContent(in.Content)
	if err != nil {
		return Resume{}, err
	}
	return s.UploadFile(ctx, userID, in.originalName(), bytes.NewReader(data), in.IsDefault)
}

// RegisterStored records a file the client already uploaded through a signed URL.
func (s *Service) RegisterStored(ctx context.Context, userID string, in FileInput) (Resume, error) {
	if userID == "" {
		return Resume{}, ErrForbidden
	}
	if strings.TrimSpace(in.StoragePath) == "" || strings.TrimSpace(in.FileName) == "" {
		return Resume{}, fmt.Errorf("%w: filename and storage_path are required", ErrInvalidInput)
	}
	if !object.OwnedBy(in.StoragePath, userID) {
		return Resume{}, ErrForbidden
	}

	text := ""
	if data, err := s.readObject(ctx, in.StoragePath); err != nil {
		telemetry.Warn("resumes.download_failed", map[string]any{"storage_path": in.StoragePath, "error": err})
	} else {
		text = extract.TextOrEmpty(ctx, data, in.FileName, in.MimeType)
	}

	return s.Repo.Create(ctx, Resume{
		UserID:           userID,
		FileName:         in.FileName,
		OriginalFileName: in.originalName(),
		SizeBytes:        in.SizeBytes,
		MimeType:         in.MimeType,
		StorageKey:       in.StoragePath,
		Text:             text,
		IsDefault:        in.IsDefault,
	})
}

// ParseAnonymous extracts text from inline content without storing anything.
func (s *Service) ParseAnonymous(ctx context.Context, in FileInput) (Parsed, error) {
	if strings.TrimSpace(in.Content) == "" {
		return Parsed{}, fmt.Errorf("%w: File content is required for anonymous parsing", ErrInvalidInput)
	}
	data, err := decodeContent(in.Content)
	if err != nil {
		return Parsed{}, err
	}
	size := in.SizeBytes
	if size == 0 {
		size = int64(len(data))
	}
	return Parsed{
		ID:               "anonymous-" + uuid.NewString(),
		FileName:         in.FileName,
		OriginalFileName: in.originalName(),
		SizeBytes:        size,
		MimeType:         in.MimeType,
		Text:             extract.TextOrEmpty(ctx, data, in.FileName, in.MimeType),
	}, nil
}

// List returns one page of userID's résumés, default first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) (Page, error) {
	items, total, err := s.Repo.List(ctx, userID, limit, offset)
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []Resume{}
	}
	return Page{Data: items, Count: total}, nil
}

// Get returns a résumé with a signed download URL when the store supports signing.
func (s *Service) Get(ctx context.Context, userID, id string) (Detail, error) {
	res, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Detail{}, err
	}
	detail := Detail{Resume: res}

	signer, ok := s.Store.(object.Signer)
	if !ok {
		return detail, nil
	}
	url, err := signer.SignedGetURL(ctx, res.StorageKey, s.ttl())
	switch {
	case errors.Is(err, object.ErrSigningUnsupported):
		return detail, nil
	case err != nil:
		telemetry.Error("resumes.sign_failed", map[string]any{"resume_id": id, "error": err})
		return Detail{}, fmt.Errorf("%w: %v", ErrDownloadURL, err)
	}
	detail.DownloadURL = &url
	return detail, nil
}

// Update applies patch to one of userID's résumés.
func (s *Service) Update(ctx context.Context, userID, id string, patch Patch) (Resume, error) {
	if strings.TrimSpace(id) == "" {
		return Resume{}, fmt.Errorf("%w: Resume ID is required", ErrInvalidInput)
	}
	if patch.Empty() {
		return Resume{}, fmt.Errorf("%w: No update fields provided", ErrInvalidInput)
	}
	return s.Repo.Update(ctx, userID, id, patch)
}

// Delete removes the stored object, then the record. Object failures are
// logged and do not stop the record from being deleted.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: Resume ID is required", ErrInvalidInput)
	}
	res, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, res.StorageKey); err != nil {
		telemetry.Warn("resumes.object_delete_failed", map[string]any{
			"resume_id":    id,
			"storage_path": res.StorageKey,
			"error":        err,
		})
	}
	return s.Repo.Delete(ctx, userID, id)
}

// UploadURL issues a signed PUT URL under userID's namespace.
func (s *Service) UploadURL(ctx context.Context, userID, fileName string) (UploadTicket, error) {
	if strings.TrimSpace(fileName) == "" {
		return UploadTicket{}, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	signer, ok := s.Store.(object.Signer)
	if !ok {
		return UploadTicket{}, object.ErrSigningUnsupported
	}
	key, err := object.NewKey(userID, fileName)
	if err != nil {
		return UploadTicket{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	ttl := s.ttl()
	url, err := signer.SignedPutURL(ctx, key, ttl)
	if err != nil {
		return UploadTicket{}, err
	}
	return UploadTicket{StoragePath: key, UploadURL: url, ExpiresAt: s.now().Add(ttl).UTC()}, nil
}

func (s *Service) readObject(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return readLimited(rc)
}

func (s *Service) ttl() time.Duration {
	if s.SignedURLTTL > 0 {
		return s.SignedURLTTL
	}
	return defaultSignedURLTTL
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, MaxFileSize)
	}
	return data, nil
}

func decodeContent(content string) ([]byte, error) {
	if i := strings.Index(content, ";base64,"); i >= 0 {
		content = content[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return nil, fmt.Errorf("%w: content is not valid base64", ErrInvalidInput)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, MaxFileSize)
	}
	return data, nil
}
