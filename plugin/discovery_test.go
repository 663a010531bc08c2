package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverTransformerPrefixSingleCandidate(t *testing.T) {
	prefix, err := discoverTransformerPrefix([]string{"malloc", "logger_transform", "logger_schema"})
	require.NoError(t, err)
	assert.Equal(t, "logger", prefix)
}

func TestDiscoverTransformerPrefixZeroCandidates(t *testing.T) {
	_, err := discoverTransformerPrefix([]string{"malloc", "memset"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidate transformer")
}

func TestDiscoverTransformerPrefixMultipleCandidates(t *testing.T) {
	_, err := discoverTransformerPrefix([]string{"a_transform", "b_transform"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple candidate transformers")
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
}

func TestDiscoverTransformerPrefixIgnoresBareSuffix(t *testing.T) {
	// A function literally named "_transform" has an empty prefix and
	// cannot be a valid entrypoint name.
	_, err := discoverTransformerPrefix([]string{"_transform"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidate transformer")
}
