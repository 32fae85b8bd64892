package mirror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantKey(t *testing.T) {
	branch := int64(7)

	assert.Equal(t, "org-1-7", TenantKey("org-1", &branch))
	// A missing branch contributes 0 rather than an empty segment.
	assert.Equal(t, "org-1-0", TenantKey("org-1", nil))
}

func TestStatusError(t *testing.T) {
	t.Run("IsNotFound", func(t *testing.T) {
		assert.True(t, StatusError{Code: 404}.IsNotFound())
		assert.False(t, StatusError{Code: 500}.IsNotFound())
	})

	t.Run("IsMatchesByCode", func(t *testing.T) {
		err := StatusError{Code: 404, Body: "entry not found"}

		assert.True(t, errors.Is(err, StatusError{}))
		assert.True(t, errors.Is(err, StatusError{Code: 404}))
		assert.False(t, errors.Is(err, StatusError{Code: 500}))
	})

	t.Run("ErrorIncludesCodeAndBody", func(t *testing.T) {
		err := StatusError{Code: 500, Body: "boom"}
		assert.Contains(t, err.Error(), "500")
		assert.Contains(t, err.Error(), "boom")
	})
}
