package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalog/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository
// used by unit tests. It mirrors the store's semantics for filtering,
// sorting, pagination and the aggregate operations.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

func matchesFilter(p models.Product, f Filter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if f.Quantity != nil && p.Quantity != *f.Quantity {
		return false
	}
	return true
}

func (r *MockProductRepository) matching(f Filter) []models.Product {
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matchesFilter(p, f) {
			matched = append(matched, p)
		}
	}
	return matched
}

// numberField extracts a numeric field by name; ok is false when the field
// is absent on this product (a nil discountPrice).
func numberField(p models.Product, fieldName string) (float64, bool) {
	switch fieldName {
	case "price":
		return p.Price, true
	case "quantity":
		return float64(p.Quantity), true
	case "discountPrice":
		if p.DiscountPrice == nil {
			return 0, false
		}
		return *p.DiscountPrice, true
	}
	return 0, false
}

func stringField(p models.Product, fieldName string) string {
	switch fieldName {
	case "sku":
		return p.SKU
	case "name":
		return p.Name
	case "category":
		return p.Category
	case "type":
		return p.Type
	}
	return ""
}

func less(a, b models.Product, fieldName string) bool {
	switch fieldName {
	case "price":
		return a.Price < b.Price
	case "discountPrice":
		av, _ := numberField(a, fieldName)
		bv, _ := numberField(b, fieldName)
		return av < bv
	case "quantity":
		return a.Quantity < b.Quantity
	case "createdAt":
		return a.CreatedAt.Before(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Before(b.UpdatedAt)
	default:
		return stringField(a, fieldName) < stringField(b, fieldName)
	}
}

// List returns one page of matching products.
func (r *MockProductRepository) List(_ context.Context, q ListQuery) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.matching(q.Filter)
	sort.SliceStable(matched, func(i, j int) bool {
		if q.SortDesc {
			return less(matched[j], matched[i], q.SortBy)
		}
		return less(matched[i], matched[j], q.SortBy)
	})

	if q.Skip >= len(matched) {
		return []models.Product{}, nil
	}
	matched = matched[q.Skip:]
	if q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count returns the number of matching products.
func (r *MockProductRepository) Count(_ context.Context, f Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.matching(f))), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

// Create adds a new product, generating an ID and timestamps like the store.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return ErrNotFound
	}
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// SumProduct sums fieldA*fieldB over matching products; products missing
// either field contribute nothing.
func (r *MockProductRepository) SumProduct(_ context.Context, fieldA, fieldB string, f Filter) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum float64
	for _, p := range r.matching(f) {
		a, okA := numberField(p, fieldA)
		b, okB := numberField(p, fieldB)
		if okA && okB {
			sum += a * b
		}
	}
	return sum, nil
}

// Avg averages a field over matching products; 0 when nothing matches.
func (r *MockProductRepository) Avg(_ context.Context, fieldName string, f Filter) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum float64
	var n int
	for _, p := range r.matching(f) {
		if v, ok := numberField(p, fieldName); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// GroupCount counts matching products per distinct field value, largest
// bucket first.
func (r *MockProductRepository) GroupCount(_ context.Context, fieldName string, f Filter) ([]GroupCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buckets := make(map[string]int64)
	for _, p := range r.matching(f) {
		buckets[stringField(p, fieldName)]++
	}

	groups := make([]GroupCount, 0, len(buckets))
	for value, count := range buckets {
		groups = append(groups, GroupCount{Value: value, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Value < groups[j].Value
	})
	return groups, nil
}
