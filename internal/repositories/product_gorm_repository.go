package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog/internal/models"
)

// GORMProductRepository is the GORM implementation of ProductRepository. It
// works against both the sqlite and postgres drivers.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// columns maps entity field names to their database columns. Aggregate and
// sort field names must pass through here before touching SQL.
var columns = map[string]string{
	"sku":           "sku",
	"name":          "name",
	"description":   "description",
	"category":      "category",
	"type":          "type",
	"price":         "price",
	"discountPrice": "discount_price",
	"quantity":      "quantity",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

func columnFor(fieldName string) (string, error) {
	col, ok := columns[fieldName]
	if !ok {
		return "", fmt.Errorf("unknown product field %q", fieldName)
	}
	return col, nil
}

// scope applies a Filter to a fresh product query.
func (r *GORMProductRepository) scope(ctx context.Context, f Filter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if f.Type != "" {
		db = db.Where("type = ?", f.Type)
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		// Parenthesized so the OR never widens the other filter conditions.
		db = db.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if f.Quantity != nil {
		db = db.Where("quantity = ?", *f.Quantity)
	}
	return db
}

// List retrieves one page of products matching the descriptor.
func (r *GORMProductRepository) List(ctx context.Context, q ListQuery) ([]models.Product, error) {
	col, err := columnFor(q.SortBy)
	if err != nil {
		return nil, err
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	var products []models.Product
	err = r.scope(ctx, q.Filter).
		Order(col + " " + direction).
		Limit(q.Limit).
		Offset(q.Skip).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Count returns the number of products matching the filter.
func (r *GORMProductRepository) Count(ctx context.Context, f Filter) (int64, error) {
	var total int64
	if err := r.scope(ctx, f).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product, generating an ID when none is set. A sku
// collision surfaces as the driver's unique-constraint error.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update persists all fields of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SumProduct sums fieldA*fieldB over matching rows. Rows where either field
// is NULL contribute nothing, and an empty match sums to 0.
func (r *GORMProductRepository) SumProduct(ctx context.Context, fieldA, fieldB string, f Filter) (float64, error) {
	colA, err := columnFor(fieldA)
	if err != nil {
		return 0, err
	}
	colB, err := columnFor(fieldB)
	if err != nil {
		return 0, err
	}

	var sum float64
	err = r.scope(ctx, f).
		Select(fmt.Sprintf("COALESCE(SUM(%s * %s), 0)", colA, colB)).
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum %s*%s: %w", fieldA, fieldB, err)
	}
	return sum, nil
}

// Avg averages a field over matching rows; an empty match averages to 0.
func (r *GORMProductRepository) Avg(ctx context.Context, fieldName string, f Filter) (float64, error) {
	col, err := columnFor(fieldName)
	if err != nil {
		return 0, err
	}

	var avg float64
	err = r.scope(ctx, f).
		Select(fmt.Sprintf("COALESCE(AVG(%s), 0)", col)).
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to average %s: %w", fieldName, err)
	}
	return avg, nil
}

// GroupCount counts matching rows per distinct value of a field, largest
// bucket first.
func (r *GORMProductRepository) GroupCount(ctx context.Context, fieldName string, f Filter) ([]GroupCount, error) {
	col, err := columnFor(fieldName)
	if err != nil {
		return nil, err
	}

	var groups []GroupCount
	err = r.scope(ctx, f).
		Select(fmt.Sprintf("%s AS value, COUNT(*) AS count", col)).
		Group(col).
		Order("count DESC, value ASC").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", fieldName, err)
	}
	return groups, nil
}
