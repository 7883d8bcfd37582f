package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetEnvOrDefault tests environment lookup with fallback
func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "value")
	assert.Equal(t, "value", GetEnvOrDefault("TEST_ENV_KEY", "default"))
	assert.Equal(t, "default", GetEnvOrDefault("TEST_ENV_MISSING", "default"))
}

// TestParseInteger tests integer parsing with fallback
func TestParseInteger(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 42, ParseInteger("42", 0))
	assert.Equal(t, -1, ParseInteger("-1", 0))
	assert.Equal(t, 7, ParseInteger("", 7))
	assert.Equal(t, 7, ParseInteger("abc", 7))
}

// TestParseBoolean tests boolean parsing with fallback
func TestParseBoolean(t *testing.T) {
	t.Parallel()

	assert.True(t, ParseBoolean("true", false))
	assert.False(t, ParseBoolean("0", true))
	assert.True(t, ParseBoolean("", true))
	assert.True(t, ParseBoolean("maybe", true))
}

// TestSplitAndTrim tests separator splitting
func TestSplitAndTrim(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, SplitAndTrim("a, b ,c", ","))
	assert.Equal(t, []string{"only"}, SplitAndTrim("only", ","))
	assert.Empty(t, SplitAndTrim("", ","))
	assert.Equal(t, []string{"a"}, SplitAndTrim("a,,", ","))
}
