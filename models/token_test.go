package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaims_Missing(t *testing.T) {
	c := &Claims{Claims: []string{"orders:read", "orders:write"}}

	assert.Empty(t, c.Missing([]string{"orders:read"}))
	assert.Empty(t, c.Missing(nil))
	assert.Equal(t, []string{"admin"}, c.Missing([]string{"orders:write", "admin"}))
}
