package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
)

// recordingPublisher captures events instead of talking to a broker.
type recordingPublisher struct {
	actions []string
}

func (p *recordingPublisher) PublishProductEvent(action string, _ any) error {
	p.actions = append(p.actions, action)
	return nil
}

func newService() (*services.ProductService, *repositories.MockProductRepository, *recordingPublisher) {
	repo := repositories.NewMockProductRepository()
	events := &recordingPublisher{}
	return services.NewProductService(repo, events), repo, events
}

func product(sku, typ string, price float64, quantity int64) *models.Product {
	return &models.Product{
		SKU:      sku,
		Name:     "Product " + sku,
		Category: "general",
		Type:     typ,
		Price:    price,
		Quantity: quantity,
	}
}

func TestCreateProductAssignsIDAndPublishes(t *testing.T) {
	svc, _, events := newService()

	created, err := svc.CreateProduct(context.Background(), product("SKU-1", models.TypePublic, 10, 5))
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{services.EventProductCreated}, events.actions)
}

func TestGetProductVisibility(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, product("SKU-PRIV", models.TypePrivate, 10, 5))
	assert.NoError(t, err)

	// Admins see private products.
	got, err := svc.GetProduct(ctx, created.ID, models.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// A user asking for a private product gets the same error as for an
	// absent one, so existence does not leak.
	_, err = svc.GetProduct(ctx, created.ID, models.RoleUser)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = svc.GetProduct(ctx, "no-such-id", models.RoleAdmin)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUpdateProductAppliesPartialChanges(t *testing.T) {
	svc, _, events := newService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, product("SKU-UPD", models.TypePublic, 10, 5))
	assert.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, created.ID, map[string]any{
		"price":         20.0,
		"discountPrice": 15.0,
	})
	assert.NoError(t, err)
	assert.Equal(t, "SKU-UPD", updated.SKU)
	assert.Equal(t, "Product SKU-UPD", updated.Name, "untouched fields keep their values")
	assert.Equal(t, 20.0, updated.Price)
	if assert.NotNil(t, updated.DiscountPrice) {
		assert.Equal(t, 15.0, *updated.DiscountPrice)
	}
	assert.Equal(t, []string{services.EventProductCreated, services.EventProductUpdated}, events.actions)

	_, err = svc.UpdateProduct(ctx, "no-such-id", map[string]any{"price": 1.0})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeleteProductEchoesAndPublishes(t *testing.T) {
	svc, _, events := newService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, product("SKU-DEL", models.TypePublic, 10, 5))
	assert.NoError(t, err)

	deleted, err := svc.DeleteProduct(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, []string{services.EventProductCreated, services.EventProductDeleted}, events.actions)

	_, err = svc.GetProduct(ctx, created.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = svc.DeleteProduct(ctx, created.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestListProductsPagination(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.CreateProduct(ctx, product(fmt.Sprintf("SKU-%02d", i), models.TypePublic, 10, 5))
		assert.NoError(t, err)
	}

	list, err := svc.ListProducts(ctx, repositories.ListQuery{
		SortBy: "sku",
		Limit:  5,
		Skip:   5, // page 2
	})
	assert.NoError(t, err)
	assert.Len(t, list.Products, 5)
	assert.Equal(t, models.Pagination{
		CurrentPage:     2,
		TotalPages:      3,
		TotalItems:      12,
		ItemsPerPage:    5,
		HasNextPage:     true,
		HasPreviousPage: true,
	}, list.Pagination)
}

func TestListProductsEmptyPage(t *testing.T) {
	svc, _, _ := newService()

	list, err := svc.ListProducts(context.Background(), repositories.ListQuery{
		SortBy: "createdAt",
		Limit:  10,
		Skip:   0,
	})
	assert.NoError(t, err)
	assert.NotNil(t, list.Products)
	assert.Len(t, list.Products, 0)
	assert.Equal(t, 0, list.Pagination.TotalPages)
	assert.False(t, list.Pagination.HasNextPage)
	assert.False(t, list.Pagination.HasPreviousPage)
}

func TestStatisticsEmptyCollection(t *testing.T) {
	svc, _, _ := newService()

	stats, err := svc.Statistics(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, &models.ProductStatistics{
		ProductsByCategory: []models.CategoryCount{},
		ProductsByType:     []models.TypeCount{},
	}, stats)
}

func TestStatisticsAggregates(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	discount := 8.0
	products := []*models.Product{
		{SKU: "A-1", Name: "A one", Category: "audio", Type: models.TypePublic, Price: 10, DiscountPrice: &discount, Quantity: 2},
		{SKU: "A-2", Name: "A two", Category: "audio", Type: models.TypePrivate, Price: 20, Quantity: 1},
		{SKU: "V-1", Name: "V one", Category: "video", Type: models.TypePublic, Price: 30, Quantity: 0},
	}
	for _, p := range products {
		assert.NoError(t, repo.Create(ctx, p))
	}

	stats, err := svc.Statistics(ctx)
	assert.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, 40.0, stats.TotalInventoryValue)  // 10*2 + 20*1 + 30*0
	assert.Equal(t, 16.0, stats.TotalDiscountedValue) // only A-1 has a discount
	assert.Equal(t, 20.0, stats.AveragePrice)
	assert.Equal(t, int64(1), stats.OutOfStockProducts)
	assert.Equal(t, []models.CategoryCount{
		{Category: "audio", Count: 2},
		{Category: "video", Count: 1},
	}, stats.ProductsByCategory)
	assert.Equal(t, []models.TypeCount{
		{Type: models.TypePublic, Count: 2},
		{Type: models.TypePrivate, Count: 1},
	}, stats.ProductsByType)
}
