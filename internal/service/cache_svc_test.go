package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheDisabledIsNoop(t *testing.T) {
	cache := NewCacheService("")

	assert.False(t, cache.Enabled())
	assert.Nil(t, cache.Client())

	data, err := cache.Get(context.Background(), "channel:UC1")
	require.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, cache.Set(context.Background(), "channel:UC1", "payload", time.Minute))
	assert.NoError(t, cache.Close())
}

func TestCacheInvalidURLDisables(t *testing.T) {
	cache := NewCacheService("not a url")
	assert.False(t, cache.Enabled())
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "channel:UC1", ChannelKey("UC1"))
	assert.Equal(t, "videos:UC1:viewCount:10", VideosKey("UC1", "viewCount", 10))
}
