package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog/internal/models"
)

func TestBuildListQueryDefaults(t *testing.T) {
	q := BuildListQuery(map[string]string{}, models.RoleAdmin)

	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Skip)
	assert.Equal(t, DefaultSort, q.SortBy)
	assert.False(t, q.SortDesc)
	assert.Equal(t, Filter{}, q.Filter)
}

func TestBuildListQuerySkipMath(t *testing.T) {
	q := BuildListQuery(map[string]string{"page": "3", "limit": "5"}, models.RoleAdmin)

	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 10, q.Skip)
}

func TestBuildListQueryIgnoresBadNumbers(t *testing.T) {
	q := BuildListQuery(map[string]string{
		"page":     "abc",
		"limit":    "-2",
		"minPrice": "cheap",
	}, models.RoleAdmin)

	assert.Equal(t, 0, q.Skip)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Nil(t, q.Filter.MinPrice)
}

func TestBuildListQuerySort(t *testing.T) {
	q := BuildListQuery(map[string]string{"sort": "price", "order": "desc"}, models.RoleAdmin)
	assert.Equal(t, "price", q.SortBy)
	assert.True(t, q.SortDesc)

	// Anything but "desc" sorts ascending; unknown fields fall back.
	q = BuildListQuery(map[string]string{"sort": "nonexistent; DROP TABLE", "order": "up"}, models.RoleAdmin)
	assert.Equal(t, DefaultSort, q.SortBy)
	assert.False(t, q.SortDesc)
}

func TestBuildListQueryFilters(t *testing.T) {
	q := BuildListQuery(map[string]string{
		"category": "peripherals",
		"type":     models.TypePrivate,
		"minPrice": "10.5",
		"maxPrice": "99.99",
		"search":   "keyboard",
	}, models.RoleAdmin)

	assert.Equal(t, "peripherals", q.Filter.Category)
	assert.Equal(t, models.TypePrivate, q.Filter.Type)
	if assert.NotNil(t, q.Filter.MinPrice) {
		assert.Equal(t, 10.5, *q.Filter.MinPrice)
	}
	if assert.NotNil(t, q.Filter.MaxPrice) {
		assert.Equal(t, 99.99, *q.Filter.MaxPrice)
	}
	assert.Equal(t, "keyboard", q.Filter.Search)
}

func TestBuildListQueryForcesPublicForUserRole(t *testing.T) {
	// The user role override replaces an explicit type filter, it does not
	// merge with it.
	q := BuildListQuery(map[string]string{"type": models.TypePrivate}, models.RoleUser)
	assert.Equal(t, models.TypePublic, q.Filter.Type)

	q = BuildListQuery(map[string]string{}, models.RoleUser)
	assert.Equal(t, models.TypePublic, q.Filter.Type)

	// Admins keep whatever they asked for.
	q = BuildListQuery(map[string]string{"type": models.TypePrivate}, models.RoleAdmin)
	assert.Equal(t, models.TypePrivate, q.Filter.Type)
}
