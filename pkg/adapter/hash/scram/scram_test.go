package scram_test

import (
	"strings"
	"testing"

	"github.com/futuremech/fmweb/pkg/adapter/hash/scram"
	"github.com/futuremech/fmweb/pkg/core/passwd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	m, err := scram.SHA256().WithIters(4096)
	require.NoError(t, err)
	h, err := m.Hash("service123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "SCRAM-SHA-256$4096:"), h)

	assert.NoError(t, m.Compare(h, "service123"))
	assert.ErrorIs(t, m.Compare(h, "service124"), passwd.ErrMismatch)

	h2, err := m.Hash("service123")
	require.NoError(t, err)
	assert.NotEqual(t, h, h2, "salts must be random")

	assert.Error(t, scram.SHA1().Compare(h, "service123"))
	assert.Error(t, m.Compare("SCRAM-SHA-256$oops", "x"))
	_, err = m.Hash("")
	assert.Error(t, err)
	_, err = m.WithIters(100)
	assert.Error(t, err)
}
