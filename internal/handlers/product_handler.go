package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/internal/validation"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service         *services.ProductService
	createValidator *validation.Validator
	updateValidator *validation.Validator
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:         service,
		createValidator: validation.NewProductValidator(),
		updateValidator: validation.NewUpdateProductValidator(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. The
// /stats route must come before /:id so it is not captured as an id.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Post("/", middleware.AdminOnly(), h.HandleCreateProduct)
	products.Get("/", middleware.AdminOrUser(), h.HandleGetProducts)
	products.Get("/stats", middleware.AdminOnly(), h.HandleProductStatistics)
	products.Get("/:id", middleware.AdminOrUser(), h.HandleGetProductByID)
	products.Put("/:id", middleware.AdminOnly(), h.HandleUpdateProduct)
	products.Delete("/:id", middleware.AdminOnly(), h.HandleDeleteProduct)
}

// parseBody decodes the request body into a raw payload map so validation
// can see missing keys and mistyped values before anything is bound to the
// entity.
func parseBody(c *fiber.Ctx) (map[string]any, []validation.FieldError) {
	if len(c.Body()) == 0 {
		return map[string]any{}, nil
	}
	var payload map[string]any
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return nil, []validation.FieldError{{Field: "body", Message: "Invalid JSON payload"}}
	}
	return payload, nil
}

// HandleCreateProduct creates a new product from a validated payload.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	payload, errs := parseBody(c)
	if errs == nil {
		errs = h.createValidator.Validate(payload)
	}
	if len(errs) > 0 {
		return respondValidationError(c, errs)
	}

	product, err := h.service.CreateProduct(c.Context(), validation.NormalizedProduct(payload))
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return respondServerError(c, err)
	}
	return respondSuccess(c, fiber.StatusCreated, "Product created successfully", fiber.Map{"product": product})
}

// HandleGetProducts lists products with pagination, sorting, filtering and
// search. The query descriptor is built from the raw query parameters plus
// the resolved role, so user-role callers only ever see public products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	q := repositories.BuildListQuery(c.Queries(), middleware.RoleFromContext(c))

	list, err := h.service.ListProducts(c.Context(), q)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return respondServerError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Products retrieved successfully", list)
}

// HandleGetProductByID retrieves a single product, subject to the
// visibility rule.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")

	product, err := h.service.GetProduct(c.Context(), id, middleware.RoleFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondNotFound(c, id)
		}
		log.Printf("Error getting product %s: %v", id, err)
		return respondServerError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Product retrieved successfully", fiber.Map{"product": product})
}

// HandleUpdateProduct applies a validated partial update. A supplied sku is
// validated but never applied.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	payload, errs := parseBody(c)
	if errs == nil {
		errs = h.updateValidator.Validate(payload)
	}
	if len(errs) > 0 {
		return respondValidationError(c, errs)
	}

	product, err := h.service.UpdateProduct(c.Context(), id, validation.NormalizedChanges(payload))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondNotFound(c, id)
		}
		log.Printf("Error updating product %s: %v", id, err)
		return respondServerError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Product updated successfully", fiber.Map{"product": product})
}

// HandleDeleteProduct deletes a product and echoes the removed entity.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	product, err := h.service.DeleteProduct(c.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondNotFound(c, id)
		}
		log.Printf("Error deleting product %s: %v", id, err)
		return respondServerError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "Product deleted successfully", fiber.Map{"product": product})
}

// HandleProductStatistics aggregates catalog-wide statistics.
func (h *ProductHandler) HandleProductStatistics(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.Context())
	if err != nil {
		log.Printf("Error computing product statistics: %v", err)
		return respondServerError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, "statistics retrieved successfully", stats)
}
