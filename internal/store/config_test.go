package store

import (
	"context"
	"testing"

	"merchpilot/internal/models"
)

func TestConfigStore_GetDefaultsWhenMissing(t *testing.T) {
	db := testDB(t)
	store := NewConfigStore(db)

	cfg, err := store.Get(context.Background(), "shop-without-config")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cfg.Mode != models.ModeManual {
		t.Errorf("default mode = %s, want manual", cfg.Mode)
	}
	if cfg.RiskLevel != models.RiskNormal {
		t.Errorf("default risk = %s, want normal", cfg.RiskLevel)
	}
}

func TestConfigStore_SetCreatesThenUpdates(t *testing.T) {
	db := testDB(t)
	store := NewConfigStore(db)
	ctx := context.Background()

	created, err := store.Set(ctx, "shop-1", models.ModeAssist, models.RiskSafe)
	if err != nil {
		t.Fatalf("Set() create error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("Set() did not assign an id on create")
	}

	updated, err := store.Set(ctx, "shop-1", models.ModeFull, models.RiskAggressive)
	if err != nil {
		t.Fatalf("Set() update error = %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("Set() created a second row, ids %s vs %s", created.ID, updated.ID)
	}

	got, err := store.Get(ctx, "shop-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Mode != models.ModeFull || got.RiskLevel != models.RiskAggressive {
		t.Errorf("Get() = %s/%s, want full/aggressive", got.Mode, got.RiskLevel)
	}

	var count int64
	db.Model(&models.ShopConfig{}).Where("shop_id = ?", "shop-1").Count(&count)
	if count != 1 {
		t.Errorf("shop has %d config rows, want 1", count)
	}
}
