package models

import "time"

// Product visibility types. Products typed "private" are hidden from the
// "user" role everywhere.
const (
	TypePublic  = "public"
	TypePrivate = "private"
)

// Roles accepted in the X-User-Role header.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Product represents a catalog entry. SKU is unique and immutable after
// creation; DiscountPrice is a pointer so an absent discount is
// distinguishable from a zero one.
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SKU           string    `json:"sku" gorm:"uniqueIndex;size:50;not null"`
	Name          string    `json:"name" gorm:"size:200;not null"`
	Description   string    `json:"description,omitempty" gorm:"size:1000"`
	Category      string    `json:"category" gorm:"size:100;not null;index"`
	Type          string    `json:"type" gorm:"size:10;not null;default:public;index"`
	Price         float64   `json:"price" gorm:"not null"`
	DiscountPrice *float64  `json:"discountPrice,omitempty"`
	Quantity      int64     `json:"quantity" gorm:"not null"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// ProductStatistics is the payload of GET /api/products/stats. Every
// aggregate defaults to zero (or an empty slice) on an empty collection.
type ProductStatistics struct {
	TotalProducts        int64           `json:"totalProducts"`
	TotalInventoryValue  float64         `json:"totalInventoryValue"`
	TotalDiscountedValue float64         `json:"totalDiscountedValue"`
	AveragePrice         float64         `json:"averagePrice"`
	OutOfStockProducts   int64           `json:"outOfStockProducts"`
	ProductsByCategory   []CategoryCount `json:"productsByCategory"`
	ProductsByType       []TypeCount     `json:"productsByType"`
}

// CategoryCount is one row of the per-category group count.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// TypeCount is one row of the per-type group count.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// Pagination describes the page window returned by the list operation.
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}
