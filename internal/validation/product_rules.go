package validation

import (
	"regexp"
	"strings"

	"catalog/internal/models"
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func matchesSKUPattern(value any, _ map[string]any) bool {
	s, ok := value.(string)
	return !ok || skuPattern.MatchString(s)
}

func skuRules() []rule {
	return []rule{
		{isString, "SKU must be a string"},
		{matchesSKUPattern, "SKU must contain only alphanumeric characters, dashes, or underscores"},
		{minLen(3), "SKU must be at least 3 characters long"},
		{maxLen(50), "SKU must be at most 50 characters long"},
	}
}

func nameRules() []rule {
	return []rule{
		{isString, "Name must be a string"},
		{minLen(3), "Name must be at least 3 characters long"},
		{maxLen(200), "Name must be at most 200 characters long"},
	}
}

func descriptionRules() []rule {
	return []rule{
		{isString, "Description must be a string"},
		{maxLen(1000), "Description must be at most 1000 characters long"},
	}
}

func categoryRules() []rule {
	return []rule{
		{isString, "Category must be a string"},
		{minLen(2), "Category must be at least 2 characters long"},
		{maxLen(100), "Category must be at most 100 characters long"},
	}
}

func typeRules() []rule {
	return []rule{
		{isString, `Type must be either "public" or "private"`},
		{oneOf(models.TypePublic, models.TypePrivate), `Type must be either "public" or "private"`},
	}
}

func priceRules() []rule {
	return []rule{
		{isNumber, "Price must be a number"},
		{positive, "Price must be a positive number"},
		{atMostTwoDecimals, "Price must have at most 2 decimal places"},
	}
}

func discountPriceRules() []rule {
	return []rule{
		{isNumber, "Discount price must be a number"},
		{nonNegative, "Discount price must be a positive number"},
		{atMostTwoDecimals, "Discount price must have at most 2 decimal places"},
		{lessThanField("price"), "Discount price must be less than the original price"},
	}
}

func quantityRules() []rule {
	return []rule{
		{isNumber, "Quantity must be a number"},
		{integral, "Quantity must be an integer"},
		{nonNegative, "Quantity must be greater than or equal to 0"},
	}
}

// NewProductValidator builds the create-time validator: everything except
// description, discountPrice, and type is required.
func NewProductValidator() *Validator {
	return &Validator{fields: []field{
		{name: "sku", required: true, requiredMessage: "SKU is required", rules: skuRules()},
		{name: "name", required: true, requiredMessage: "Name is required", trim: true, rules: nameRules()},
		{name: "description", rules: descriptionRules()},
		{name: "category", required: true, requiredMessage: "Category is required", rules: categoryRules()},
		{name: "type", rules: typeRules()},
		{name: "price", required: true, requiredMessage: "Price is required", rules: priceRules()},
		{name: "discountPrice", rules: discountPriceRules()},
		{name: "quantity", required: true, requiredMessage: "Quantity is required", rules: quantityRules()},
	}}
}

// NewUpdateProductValidator builds the update-time validator: the same rules
// with every field optional. The discountPrice < price comparison still runs
// when both fields are supplied together.
func NewUpdateProductValidator() *Validator {
	return &Validator{fields: []field{
		{name: "sku", rules: skuRules()},
		{name: "name", trim: true, rules: nameRules()},
		{name: "description", rules: descriptionRules()},
		{name: "category", rules: categoryRules()},
		{name: "type", rules: typeRules()},
		{name: "price", rules: priceRules()},
		{name: "discountPrice", rules: discountPriceRules()},
		{name: "quantity", rules: quantityRules()},
	}}
}

// NormalizedProduct maps a payload that passed NewProductValidator to a
// Product: name and category are trimmed and type defaults to public.
func NormalizedProduct(payload map[string]any) *models.Product {
	p := &models.Product{
		SKU:      payload["sku"].(string),
		Name:     strings.TrimSpace(payload["name"].(string)),
		Category: strings.TrimSpace(payload["category"].(string)),
		Type:     models.TypePublic,
		Price:    payload["price"].(float64),
		Quantity: int64(payload["quantity"].(float64)),
	}
	if d, ok := payload["description"].(string); ok {
		p.Description = d
	}
	if t, ok := payload["type"].(string); ok && t != "" {
		p.Type = t
	}
	if d, ok := payload["discountPrice"].(float64); ok {
		p.DiscountPrice = &d
	}
	return p
}

// NormalizedChanges maps a payload that passed NewUpdateProductValidator to
// the set of fields to modify. The sku key is dropped: SKU is immutable after
// creation and a supplied value is ignored, not an error.
func NormalizedChanges(payload map[string]any) map[string]any {
	changes := make(map[string]any, len(payload))
	if v, ok := payload["name"].(string); ok {
		changes["name"] = strings.TrimSpace(v)
	}
	if v, ok := payload["description"].(string); ok {
		changes["description"] = v
	}
	if v, ok := payload["category"].(string); ok {
		changes["category"] = strings.TrimSpace(v)
	}
	if v, ok := payload["type"].(string); ok && v != "" {
		changes["type"] = v
	}
	if v, ok := payload["price"].(float64); ok {
		changes["price"] = v
	}
	if v, ok := payload["discountPrice"].(float64); ok {
		changes["discountPrice"] = v
	}
	if v, ok := payload["quantity"].(float64); ok {
		changes["quantity"] = int64(v)
	}
	return changes
}
