package shopify

import (
	"fmt"
	"strconv"

	"merchpilot/internal/models"
)

type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// TransformProduct converts a Shopify product to our canonical format
func (t *Transformer) TransformProduct(shopID string, shopifyProduct *Product) (*models.Product, error) {
	// Get the primary variant (first variant or the one with position 1)
	var primaryVariant *Variant
	for i := range shopifyProduct.Variants {
		if shopifyProduct.Variants[i].Position == 1 {
			primaryVariant = &shopifyProduct.Variants[i]
			break
		}
	}
	if primaryVariant == nil && len(shopifyProduct.Variants) > 0 {
		primaryVariant = &shopifyProduct.Variants[0]
	}

	if primaryVariant == nil {
		return nil, fmt.Errorf("no variants found for product %d", shopifyProduct.ID)
	}

	// Parse price
	price, err := strconv.ParseFloat(primaryVariant.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price format: %w", err)
	}

	// Inventory is tracked across all variants
	inventory := 0
	for _, variant := range shopifyProduct.Variants {
		if variant.InventoryQuantity > 0 {
			inventory += variant.InventoryQuantity
		}
	}

	product := &models.Product{
		ShopID:       shopID,
		ExternalID:   fmt.Sprintf("shopify_%d", shopifyProduct.ID),
		Title:        shopifyProduct.Title,
		Price:        price,
		InventoryQty: inventory,
		Status:       shopifyProduct.Status,
	}

	if shopifyProduct.BodyHTML != "" {
		description := shopifyProduct.BodyHTML
		product.Description = &description
	}
	if shopifyProduct.Vendor != "" {
		vendor := shopifyProduct.Vendor
		product.Vendor = &vendor
	}
	if product.Status == "" {
		product.Status = "active"
	}

	return product, nil
}
