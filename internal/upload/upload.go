package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// PublicPrefix is the path stored images are served under
const PublicPrefix = "uploads"

var (
	ErrTooLarge = errors.New("file is too large")
	ErrNotImage = errors.New("only image files are allowed")
)

// Store saves uploaded images to a local directory
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates dir if needed
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save stores an uploaded image as <prefix>_<uuid><ext> and returns its
// public path, e.g. uploads/product_0c4e....png. The type is sniffed from
// the content; the client supplied name and header are ignored.
func (s *Store) Save(fh *multipart.FileHeader, prefix string) (string, error) {
	if fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}

	name := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), mt.Extension())
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	// the header size is client supplied, so cap the copy as well
	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()
	if err == nil && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return PublicPrefix + "/" + name, nil
}

// Remove deletes a file previously returned by Save
func (s *Store) Remove(publicPath string) error {
	name := strings.TrimPrefix(publicPath, PublicPrefix+"/")
	if name == publicPath || name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("not an upload path: %q", publicPath)
	}
	return os.Remove(filepath.Join(s.dir, name))
}
