package settings_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/futuremech/fmweb/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleDuration_String() {
	for _, d := range []time.Duration{
		168 * time.Hour, 90 * time.Minute, 5 * time.Second, 0,
	} {
		fmt.Println(settings.Duration(d))
	}
	// Output:
	// 168h
	// 1h30m
	// 5s
	// 0s
}

func TestDurationUnmarshalText(t *testing.T) {
	var d settings.Duration
	require.NoError(t, d.UnmarshalText([]byte("1h30m")))
	assert.Equal(t, 90*time.Minute, d.Std())

	assert.Error(t, d.UnmarshalText([]byte("soon")))
	assert.Equal(t, 90*time.Minute, d.Std(), "failed decoding keeps d")
}

func TestNil2Default(t *testing.T) {
	var n *int
	settings.Nil2Default(&n, 6)
	require.NotNil(t, n)
	assert.Equal(t, 6, *n)

	settings.Nil2Default(&n, 9)
	assert.Equal(t, 6, *n, "initialized pointers are kept")

	var b *bool
	settings.Nil2Zero(&b)
	require.NotNil(t, b)
	assert.False(t, *b)
}

func TestVerifyRange(t *testing.T) {
	v := settings.Ptr(20)
	err := settings.VerifyRange(&v, settings.Ptr(1), settings.Ptr(10))
	require.NotNil(t, err)
	assert.False(t, err.LessThanMin)
	assert.Equal(t, 20, *err.Value)
	assert.Equal(t, 10, *v, "clamped to max")

	v = settings.Ptr(0)
	err = settings.VerifyRange(&v, settings.Ptr(1), nil)
	require.NotNil(t, err)
	assert.True(t, err.LessThanMin)
	assert.Equal(t, 1, *v)

	var missing *int
	assert.Nil(t, settings.VerifyRange(&missing, settings.Ptr(1), settings.Ptr(10)))

	err = settings.VerifyRange(&v, settings.Ptr(5), settings.Ptr(1))
	require.NotNil(t, err)
	assert.True(t, err.InvalidRange)
}
