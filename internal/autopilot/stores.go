package autopilot

import (
	"context"

	"merchpilot/internal/models"
)

// The engine reads and writes through these narrow collaborator contracts.
// The gorm-backed implementations live in internal/store; tests substitute
// in-memory fakes.

type CatalogStore interface {
	ListByShop(ctx context.Context, shopID string) ([]models.Product, error)
	UpdatePrice(ctx context.Context, shopID, productID string, price float64) error
}

type PerformanceStore interface {
	// Get returns nil (no error) when the product has no snapshot.
	Get(ctx context.Context, shopID, productID string) (*models.PerformanceSnapshot, error)
}

type EventStore interface {
	// Active returns nil when no seasonal event is active.
	Active(ctx context.Context) (*models.SeasonalEvent, error)
}

type ConfigStore interface {
	Get(ctx context.Context, shopID string) (*models.ShopConfig, error)
}

type FeedbackStore interface {
	ListFor(ctx context.Context, shopID, productID string, kind models.ActionKind) ([]models.AIFeedback, error)
}

type ActionStore interface {
	Append(ctx context.Context, action *models.AIAction) error
}

type RunStore interface {
	Create(ctx context.Context, run *models.AutopilotRun) error
}

// PriceUpdater pushes an approved price to the remote commerce platform.
// The engine treats the call as opaque: it either succeeded or it did not.
type PriceUpdater interface {
	UpdatePrice(ctx context.Context, shopID, externalID string, price float64) error
}
