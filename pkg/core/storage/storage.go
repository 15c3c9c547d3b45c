// Package storage exports the file store interface which keeps the
// uploaded images and the generated reports.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUnsupportedType is returned for file names with an extension
// which is not accepted by the bucket.
var ErrUnsupportedType = errors.New("unsupported file type")

// Well-known bucket names.
const (
	BucketServices = "services"
	BucketParts    = "parts"
	BucketReports  = "reports"
)

// FileStore saves files within named buckets.
type FileStore interface {
	// SaveUpload stores an uploaded image under a generated unique
	// name which keeps the extension of the original file name and
	// returns its public path.
	SaveUpload(ctx context.Context, bucket, origName string, r io.Reader) (
		string, error,
	)

	// Save stores data under the exact name and returns its path.
	Save(ctx context.Context, bucket, name string, data []byte) (string, error)
}

// Upload is an uploaded file which is not stored yet.
type Upload struct {
	Name string // original file name
	Body io.Reader
}
