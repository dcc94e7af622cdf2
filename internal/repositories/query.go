package repositories

import (
	"strconv"

	"catalog/internal/models"
)

// Pagination and sort defaults for the list endpoint.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = "createdAt"
)

// sortableFields whitelists the sort parameter. Anything outside this set
// falls back to the default instead of reaching the store.
var sortableFields = map[string]bool{
	"sku":           true,
	"name":          true,
	"category":      true,
	"type":          true,
	"price":         true,
	"discountPrice": true,
	"quantity":      true,
	"createdAt":     true,
	"updatedAt":     true,
}

// BuildListQuery maps the raw query parameters of GET /api/products and the
// caller's resolved role to a ListQuery descriptor. Unparseable numeric
// parameters are ignored and defaults kept.
//
// When the role is "user" the type filter is forced to public. This is an
// override, not a default: an explicit type=private from a user-role caller
// is discarded.
func BuildListQuery(params map[string]string, role string) ListQuery {
	page := positiveIntOrDefault(params["page"], DefaultPage)
	limit := positiveIntOrDefault(params["limit"], DefaultLimit)

	sortBy := DefaultSort
	if sortableFields[params["sort"]] {
		sortBy = params["sort"]
	}

	f := Filter{
		Category: params["category"],
		Type:     params["type"],
		Search:   params["search"],
	}
	if v, err := strconv.ParseFloat(params["minPrice"], 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(params["maxPrice"], 64); err == nil {
		f.MaxPrice = &v
	}
	if role == models.RoleUser {
		f.Type = models.TypePublic
	}

	return ListQuery{
		Filter:   f,
		SortBy:   sortBy,
		SortDesc: params["order"] == "desc",
		Limit:    limit,
		Skip:     (page - 1) * limit,
	}
}

func positiveIntOrDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
