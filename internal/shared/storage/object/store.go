package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"coverletter-backend/internal/shared/util"
)

// ErrSigningUnsupported is returned by stores that cannot hand out signed URLs.
var ErrSigningUnsupported = errors.New("signed urls not supported")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// Signer is implemented by stores that can issue time-limited URLs.
type Signer interface {
	SignedGetURL(ctx context.Context, storageKey string, ttl time.Duration) (string, error)
	SignedPutURL(ctx context.Context, storageKey string, ttl time.Duration) (string, error)
}

// NewKey builds a storage key under the user's hashed namespace.
func NewKey(userID, fileName string) (string, error) {
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.HashUserKey(userID), uuid.NewString()+"_"+sanitized), nil
}

// OwnedBy reports whether storageKey lives in userID's namespace.
func OwnedBy(storageKey, userID string) bool {
	dir := path.Dir(path.Clean(storageKey))
	return dir == util.HashUserKey(userID)
}

// Sniff reads the first bytes of r to detect its content type and returns a
// reader that still yields the full stream.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	mimeType := http.DetectContentType(head[:n])
	return mimeType, io.MultiReader(bytes.NewReader(head[:n]), r), nil
}
