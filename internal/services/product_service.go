package services

import (
	"context"
	"log"
	"math"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// Product lifecycle event actions published to the message queue.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher publishes product lifecycle events. The RabbitMQ client
// satisfies this; a nil publisher disables eventing.
type EventPublisher interface {
	PublishProductEvent(action string, product any) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// ProductList is the data payload of the list operation.
type ProductList struct {
	Products   []models.Product  `json:"products"`
	Pagination models.Pagination `json:"pagination"`
}

// CreateProduct stores a validated product and publishes a creation event.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, product)
	return product, nil
}

// ListProducts runs a list descriptor and shapes the page window around the
// results. totalPages is ceil(totalItems/limit); the has-next/has-previous
// flags are strict comparisons against it.
func (s *ProductService) ListProducts(ctx context.Context, q repositories.ListQuery) (*ProductList, error) {
	products, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	totalItems, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}

	page := q.Skip/q.Limit + 1
	totalPages := int(math.Ceil(float64(totalItems) / float64(q.Limit)))

	return &ProductList{
		Products: products,
		Pagination: models.Pagination{
			CurrentPage:     page,
			TotalPages:      totalPages,
			TotalItems:      totalItems,
			ItemsPerPage:    q.Limit,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}, nil
}

// GetProduct fetches a product by id, applying the visibility rule: a
// user-role caller asking for a private product gets ErrNotFound rather
// than a permission error, so private ids are indistinguishable from
// absent ones.
func (s *ProductService) GetProduct(ctx context.Context, id, role string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == models.RoleUser && product.Type == models.TypePrivate {
		return nil, repositories.ErrNotFound
	}
	return product, nil
}

// UpdateProduct applies a validated partial update to an existing product
// and publishes an update event. The sku field never appears in changes;
// it is immutable after creation.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, changes map[string]any) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v, ok := changes["name"].(string); ok {
		product.Name = v
	}
	if v, ok := changes["description"].(string); ok {
		product.Description = v
	}
	if v, ok := changes["category"].(string); ok {
		product.Category = v
	}
	if v, ok := changes["type"].(string); ok {
		product.Type = v
	}
	if v, ok := changes["price"].(float64); ok {
		product.Price = v
	}
	if v, ok := changes["discountPrice"].(float64); ok {
		product.DiscountPrice = &v
	}
	if v, ok := changes["quantity"].(int64); ok {
		product.Quantity = v
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductUpdated, product)
	return product, nil
}

// DeleteProduct removes a product by id, returning the deleted product and
// publishing a deletion event.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.publish(EventProductDeleted, product)
	return product, nil
}

// Statistics aggregates over the whole collection. Each aggregate is an
// independent read-only call; every value defaults to zero (or an empty
// slice) when the collection is empty.
func (s *ProductService) Statistics(ctx context.Context) (*models.ProductStatistics, error) {
	all := repositories.Filter{}

	totalProducts, err := s.repo.Count(ctx, all)
	if err != nil {
		return nil, err
	}
	inventoryValue, err := s.repo.SumProduct(ctx, "price", "quantity", all)
	if err != nil {
		return nil, err
	}
	discountedValue, err := s.repo.SumProduct(ctx, "discountPrice", "quantity", all)
	if err != nil {
		return nil, err
	}
	averagePrice, err := s.repo.Avg(ctx, "price", all)
	if err != nil {
		return nil, err
	}

	zero := int64(0)
	outOfStock, err := s.repo.Count(ctx, repositories.Filter{Quantity: &zero})
	if err != nil {
		return nil, err
	}

	byCategory, err := s.repo.GroupCount(ctx, "category", all)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.GroupCount(ctx, "type", all)
	if err != nil {
		return nil, err
	}

	stats := &models.ProductStatistics{
		TotalProducts:        totalProducts,
		TotalInventoryValue:  inventoryValue,
		TotalDiscountedValue: discountedValue,
		AveragePrice:         averagePrice,
		OutOfStockProducts:   outOfStock,
		ProductsByCategory:   make([]models.CategoryCount, 0, len(byCategory)),
		ProductsByType:       make([]models.TypeCount, 0, len(byType)),
	}
	for _, g := range byCategory {
		stats.ProductsByCategory = append(stats.ProductsByCategory, models.CategoryCount{Category: g.Value, Count: g.Count})
	}
	for _, g := range byType {
		stats.ProductsByType = append(stats.ProductsByType, models.TypeCount{Type: g.Value, Count: g.Count})
	}
	return stats, nil
}

// publish sends a lifecycle event when a publisher is configured. Event
// delivery is best effort; a failed publish never fails the request that
// triggered it.
func (s *ProductService) publish(action string, product *models.Product) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductEvent(action, product); err != nil {
		log.Printf("Failed to publish %s event for product %s: %v", action, product.ID, err)
	}
}
