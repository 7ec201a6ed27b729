package store

import (
	"context"
	"testing"

	"merchpilot/internal/models"
)

func seedProduct(t *testing.T, store *ProductStore, shopID, externalID string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		ShopID:       shopID,
		ExternalID:   externalID,
		Title:        "Ceramic Mug",
		Price:        price,
		Currency:     "USD",
		InventoryQty: 12,
		Status:       "active",
	}
	if err := store.Upsert(context.Background(), product); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	return product
}

func TestProductStore_UpsertKeepsIdentity(t *testing.T) {
	db := testDB(t)
	store := NewProductStore(db)
	ctx := context.Background()

	first := seedProduct(t, store, "shop-1", "shopify_42", 19.99)

	resync := &models.Product{
		ShopID:       "shop-1",
		ExternalID:   "shopify_42",
		Title:        "Ceramic Mug v2",
		Price:        24.99,
		Currency:     "USD",
		InventoryQty: 8,
		Status:       "active",
	}
	if err := store.Upsert(ctx, resync); err != nil {
		t.Fatalf("Upsert() resync error = %v", err)
	}
	if resync.ID != first.ID {
		t.Errorf("resync created a new row, ids %s vs %s", first.ID, resync.ID)
	}

	got, err := store.GetByID(ctx, "shop-1", first.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Ceramic Mug v2" || got.Price != 24.99 {
		t.Errorf("resync did not overwrite: %s at %v", got.Title, got.Price)
	}

	products, err := store.ListByShop(ctx, "shop-1")
	if err != nil {
		t.Fatalf("ListByShop() error = %v", err)
	}
	if len(products) != 1 {
		t.Errorf("ListByShop() returned %d products, want 1", len(products))
	}
}

func TestProductStore_UpdatePrice(t *testing.T) {
	db := testDB(t)
	store := NewProductStore(db)
	ctx := context.Background()

	product := seedProduct(t, store, "shop-1", "shopify_42", 100.00)

	if err := store.UpdatePrice(ctx, "shop-1", product.ID, 108.00); err != nil {
		t.Fatalf("UpdatePrice() error = %v", err)
	}

	got, err := store.GetByID(ctx, "shop-1", product.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Price != 108.00 {
		t.Errorf("price = %v, want 108.00", got.Price)
	}
}

func TestProductStore_DeleteByExternalID(t *testing.T) {
	db := testDB(t)
	store := NewProductStore(db)
	ctx := context.Background()

	seedProduct(t, store, "shop-1", "shopify_42", 19.99)
	keep := seedProduct(t, store, "shop-1", "shopify_43", 29.99)

	if err := store.DeleteByExternalID(ctx, "shop-1", "shopify_42"); err != nil {
		t.Fatalf("DeleteByExternalID() error = %v", err)
	}

	products, err := store.ListByShop(ctx, "shop-1")
	if err != nil {
		t.Fatalf("ListByShop() error = %v", err)
	}
	if len(products) != 1 || products[0].ID != keep.ID {
		t.Errorf("delete left %d products, want only %s", len(products), keep.ID)
	}
}

func TestSnapshotStore_GetMissingIsNil(t *testing.T) {
	db := testDB(t)
	store := NewSnapshotStore(db)

	snapshot, err := store.Get(context.Background(), "shop-1", "prod-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if snapshot != nil {
		t.Errorf("Get() = %+v, want nil for a product without a snapshot", snapshot)
	}
}

func TestSnapshotStore_Upsert(t *testing.T) {
	db := testDB(t)
	store := NewSnapshotStore(db)
	ctx := context.Background()

	first := &models.PerformanceSnapshot{
		ShopID:         "shop-1",
		ProductID:      "prod-1",
		ConversionRate: 0.05,
		ProfitMargin:   0.20,
	}
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	second := &models.PerformanceSnapshot{
		ShopID:         "shop-1",
		ProductID:      "prod-1",
		ConversionRate: 0.10,
		ProfitMargin:   0.30,
	}
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert() refresh error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("refresh created a new row, ids %s vs %s", first.ID, second.ID)
	}

	got, err := store.Get(ctx, "shop-1", "prod-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ConversionRate != 0.10 {
		t.Errorf("conversion rate = %v, want the refreshed 0.10", got.ConversionRate)
	}
}
