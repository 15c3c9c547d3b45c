// Package fs implements the storage.FileStore interface on the local
// file system. Each bucket is a sub-directory of the root directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/storage"
	"github.com/google/uuid"
)

// ImageExtensions lists the accepted extensions of uploaded images.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// ErrTooLarge is returned when an upload exceeds the maximum size.
var ErrTooLarge = errors.New("file is too large")

// Store keeps the files below Root and reports the uploaded images
// with paths below the PublicPrefix URL path.
type Store struct {
	Root         string
	PublicPrefix string // e.g., "/static/uploads"
	MaxSize      int64  // maximum upload size in bytes, zero means no limit
}

func New(root, publicPrefix string, maxSize int64) (*Store, error) {
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", root, err)
	}
	return &Store{
		Root:         abs,
		PublicPrefix: strings.TrimSuffix(publicPrefix, "/"),
		MaxSize:      maxSize,
	}, nil
}

func allowedImage(name string) (string, bool) {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range ImageExtensions {
		if e == ext {
			return ext, true
		}
	}
	return "", false
}

// SaveUpload stores r under a random name in bucket. Only the images
// of ImageExtensions are accepted.
func (s *Store) SaveUpload(
	ctx context.Context, bucket, origName string, r io.Reader,
) (string, error) {
	ext, ok := allowedImage(origName)
	if !ok {
		return "", storage.ErrUnsupportedType
	}
	name := uuid.NewString() + ext
	if s.MaxSize > 0 {
		r = io.LimitReader(r, s.MaxSize+1)
	}
	fp, err := s.create(bucket, name)
	if err != nil {
		return "", err
	}
	n, err := io.Copy(fp, r)
	if closeErr := fp.Close(); err == nil {
		err = closeErr
	}
	if err == nil && s.MaxSize > 0 && n > s.MaxSize {
		err = cerr.BadRequest(ErrTooLarge)
	}
	if err != nil {
		os.Remove(fp.Name())
		return "", fmt.Errorf("saving upload: %w", err)
	}
	return s.PublicPrefix + "/" + bucket + "/" + name, nil
}

// Save writes data as the name file of bucket and returns its file
// system path.
func (s *Store) Save(_ context.Context, bucket, name string, data []byte) (string, error) {
	fp, err := s.create(bucket, name)
	if err != nil {
		return "", err
	}
	_, err = fp.Write(data)
	if closeErr := fp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fp.Name())
		return "", fmt.Errorf("saving %q: %w", name, err)
	}
	return fp.Name(), nil
}

// Dir returns the directory of bucket.
func (s *Store) Dir(bucket string) string {
	return filepath.Join(s.Root, bucket)
}

func (s *Store) create(bucket, name string) (*os.File, error) {
	if !validName(bucket) || !validName(name) {
		return nil, fmt.Errorf("invalid file name: %q/%q", bucket, name)
	}
	dir := s.Dir(bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %q: %w", dir, err)
	}
	return os.OpenFile(
		filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644,
	)
}

func validName(s string) bool {
	return s != "" && s != "." && s != ".." &&
		!strings.ContainsAny(s, `/\`) && !strings.HasPrefix(s, ".")
}
