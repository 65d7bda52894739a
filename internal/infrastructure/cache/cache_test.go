package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "org:acme.com", `{"domain":"acme.com"}`, time.Minute))

	v, err := c.Get(ctx, "org:acme.com")
	require.NoError(t, err)
	assert.Equal(t, `{"domain":"acme.com"}`, v)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "org:acme.com")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_NoTTL(t *testing.T) {
	c := NewMemoryCache(time.Now)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
