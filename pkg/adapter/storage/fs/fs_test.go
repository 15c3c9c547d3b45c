package fs_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futuremech/fmweb/pkg/adapter/storage/fs"
	"github.com/futuremech/fmweb/pkg/core/cerr"
	"github.com/futuremech/fmweb/pkg/core/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, maxSize int64) *fs.Store {
	s, err := fs.New(t.TempDir(), "/static/uploads/", maxSize)
	require.NoError(t, err)
	return s
}

func TestSaveUpload(t *testing.T) {
	s := newStore(t, 16)
	ctx := context.Background()

	p, err := s.SaveUpload(ctx, storage.BucketParts, "Brake Pad.JPG", strings.NewReader("img"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/static/uploads/parts/"), p)
	assert.True(t, strings.HasSuffix(p, ".jpg"), p)

	data, err := os.ReadFile(filepath.Join(s.Dir("parts"), filepath.Base(p)))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	p2, err := s.SaveUpload(ctx, storage.BucketParts, "Brake Pad.JPG", strings.NewReader("img"))
	require.NoError(t, err)
	assert.NotEqual(t, p, p2, "uploads must get unique names")
}

func TestSaveUploadRejects(t *testing.T) {
	s := newStore(t, 4)
	ctx := context.Background()

	_, err := s.SaveUpload(ctx, "services", "script.sh", strings.NewReader("x"))
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)

	_, err = s.SaveUpload(ctx, "services", "big.png", bytes.NewReader(make([]byte, 5)))
	assert.ErrorIs(t, err, fs.ErrTooLarge)
	assert.True(t, cerr.Is(err, 400))
	entries, err := os.ReadDir(s.Dir("services"))
	require.NoError(t, err)
	assert.Empty(t, entries, "oversized upload must be removed")

	_, err = s.SaveUpload(ctx, "../etc", "a.png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	s := newStore(t, 0)
	ctx := context.Background()
	p, err := s.Save(ctx, storage.BucketReports, "PDI_Report_1.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir("reports"), "PDI_Report_1.pdf"), p)

	_, err = s.Save(ctx, storage.BucketReports, "PDI_Report_1.pdf", []byte("%PDF"))
	assert.Error(t, err, "existing files must not be overwritten")
}
