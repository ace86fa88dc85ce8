package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHash(t *testing.T) {
	// xxhash64 of the empty input.
	assert.Equal(t, "ef46db3751d8e999", ContentHash(nil, 0))
	assert.Equal(t, "ef46db3751d8e999", ContentHash([]byte{}, 16))
	assert.Equal(t, "ef46db37", ContentHash(nil, 8))
	assert.Equal(t, "ef46db3751d8e999", ContentHash(nil, 64))

	assert.Equal(t, ContentHash([]byte("avif"), 16), ContentHash([]byte("avif"), 16))
	assert.NotEqual(t, ContentHash([]byte("avif"), 16), ContentHash([]byte("avis"), 16))
}
