package shopify

import (
	"context"
	"fmt"
	"strings"

	"merchpilot/internal/logger"
	"merchpilot/internal/models"
)

// CredentialSource resolves the API credentials for one shop. The shops
// table is the source of truth; no credential ever lives in process-wide
// state, so concurrent shops cannot clobber each other.
type CredentialSource interface {
	Resolve(ctx context.Context, shopID string) (domain, accessToken string, err error)
}

type shopGetter interface {
	GetByID(ctx context.Context, shopID string) (*models.Shop, error)
}

// StoreCredentials reads credentials from the shop store.
type StoreCredentials struct {
	shops shopGetter
}

func NewStoreCredentials(shops shopGetter) *StoreCredentials {
	return &StoreCredentials{shops: shops}
}

func (c *StoreCredentials) Resolve(ctx context.Context, shopID string) (string, string, error) {
	shop, err := c.shops.GetByID(ctx, shopID)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve shop %s: %w", shopID, err)
	}
	if shop.AccessToken == "" {
		return "", "", fmt.Errorf("shop %s has no access token", shopID)
	}
	return shop.Domain, shop.AccessToken, nil
}

// PriceService applies autopilot price decisions to the remote platform.
// It satisfies the engine's PriceUpdater contract.
type PriceService struct {
	creds  CredentialSource
	logger *logger.Logger
}

func NewPriceService(creds CredentialSource, logger *logger.Logger) *PriceService {
	return &PriceService{creds: creds, logger: logger}
}

// UpdatePrice resolves the shop's credentials and pushes the new price to
// every variant of the product. externalID is the catalog's shopify_<id>
// identifier.
func (s *PriceService) UpdatePrice(ctx context.Context, shopID, externalID string, price float64) error {
	domain, token, err := s.creds.Resolve(ctx, shopID)
	if err != nil {
		return err
	}

	productID := strings.TrimPrefix(externalID, "shopify_")
	client := NewClient(domain, token, s.logger)
	return client.UpdateProductPrice(ctx, productID, price)
}
