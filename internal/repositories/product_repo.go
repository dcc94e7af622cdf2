package repositories

import (
	"context"
	"errors"

	"catalog/internal/models"
)

// ErrNotFound is returned when an id does not resolve to a stored product.
var ErrNotFound = errors.New("product not found")

// Filter narrows a query to matching products. Zero values mean "no
// constraint"; MinPrice/MaxPrice are inclusive bounds and Search is a
// case-insensitive substring match against name or description.
type Filter struct {
	Category string
	Type     string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Quantity *int64
}

// ListQuery is the full descriptor for a list call: a filter plus sort and
// page window. Skip is precomputed as (page-1)*limit.
type ListQuery struct {
	Filter   Filter
	SortBy   string
	SortDesc bool
	Limit    int
	Skip     int
}

// GroupCount is one bucket of a group-count aggregate.
type GroupCount struct {
	Value string
	Count int64
}

// ProductRepository defines the data-access capabilities the service layer
// relies on. Beyond CRUD it exposes the aggregate operations used by the
// statistics endpoint; how the store executes them is its own business.
type ProductRepository interface {
	List(ctx context.Context, q ListQuery) ([]models.Product, error)
	Count(ctx context.Context, f Filter) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error

	// SumProduct sums fieldA*fieldB over matching rows, treating NULLs as 0.
	SumProduct(ctx context.Context, fieldA, fieldB string, f Filter) (float64, error)
	// Avg averages a field over matching rows; 0 when nothing matches.
	Avg(ctx context.Context, fieldName string, f Filter) (float64, error)
	// GroupCount counts matching rows per distinct value of a field.
	GroupCount(ctx context.Context, fieldName string, f Filter) ([]GroupCount, error)
}
