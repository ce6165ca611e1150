package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationParams(t *testing.T) {
	skip, limit, err := parsePaginationParams("", "")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(20), limit)

	skip, limit, err = parsePaginationParams("3", "10")
	assert.NoError(t, err)
	assert.Equal(t, int64(20), skip)
	assert.Equal(t, int64(10), limit)

	_, limit, err = parsePaginationParams("1", "5000")
	assert.NoError(t, err)
	assert.Equal(t, int64(maxPageSize), limit)

	for _, bad := range [][2]string{{"0", ""}, {"x", ""}, {"", "-1"}, {"", "ten"}} {
		_, _, err := parsePaginationParams(bad[0], bad[1])
		assert.ErrorIs(t, err, errInvalidPagination, bad)
	}
}
