package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"merchpilot/internal/config"
	"merchpilot/internal/logger"
	"merchpilot/internal/models"
	"merchpilot/internal/services/shopify"
	"merchpilot/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ShopifyHandler struct {
	shops        *store.ShopStore
	products     *store.ProductStore
	logger       *logger.Logger
	config       *config.Config
	oauthService *shopify.OAuthService
}

func NewShopifyHandler(shops *store.ShopStore, products *store.ProductStore, logger *logger.Logger, config *config.Config) *ShopifyHandler {
	return &ShopifyHandler{
		shops:        shops,
		products:     products,
		logger:       logger,
		config:       config,
		oauthService: shopify.NewOAuthService(config, logger),
	}
}

// Install initiates the Shopify OAuth flow
func (h *ShopifyHandler) Install(c *gin.Context) {
	var request struct {
		ShopDomain  string `json:"shop_domain" binding:"required"`
		RedirectURI string `json:"redirect_uri" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	authURL, state, err := h.oauthService.GenerateAuthURL(request.ShopDomain, request.RedirectURI)
	if err != nil {
		h.logger.Error("Failed to generate auth URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authorization URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auth_url": authURL,
		"state":    state,
		"message":  "Redirect user to the auth_url to complete OAuth flow",
	})
}

// Callback handles the OAuth callback
func (h *ShopifyHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	shop := c.Query("shop")

	if code == "" || state == "" || shop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	if !shopify.VerifyCallbackHMAC(c.Request.URL.Query(), h.config.ShopifyClientSecret) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hmac"})
		return
	}

	tokenResp, err := h.oauthService.ExchangeCodeForToken(shop, code)
	if err != nil {
		h.logger.Error("Failed to exchange code for token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	client := shopify.NewClient(shop, tokenResp.AccessToken, h.logger)
	shopInfo, err := client.GetShopInfo(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get shop info: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get shop information"})
		return
	}

	record := &models.Shop{
		Domain:      shop,
		Name:        shopInfo.Name,
		Currency:    shopInfo.Currency,
		AccessToken: tokenResp.AccessToken,
		Scope:       tokenResp.Scope,
		Status:      models.ShopStatusActive,
	}
	if shopInfo.Email != "" {
		email := shopInfo.Email
		record.Email = &email
	}

	if err := h.shops.Upsert(c.Request.Context(), record); err != nil {
		h.logger.Error("Failed to save shop: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save shop"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Shopify store connected successfully",
		"shop_id":   record.ID,
		"shop_name": shopInfo.Name,
	})
}

// SyncProducts syncs products from Shopify into the catalog
func (h *ShopifyHandler) SyncProducts(c *gin.Context) {
	shopID := c.Param("id")
	ctx := c.Request.Context()

	shop, err := h.shops.GetByID(ctx, shopID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shop"})
		return
	}

	client := shopify.NewClient(shop.Domain, shop.AccessToken, h.logger)
	transformer := shopify.NewTransformer()

	var syncedCount int
	pageInfo := ""
	limit := 50

	for {
		productsResp, err := client.GetProducts(ctx, limit, pageInfo)
		if err != nil {
			h.logger.Error("Failed to fetch products: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products from Shopify"})
			return
		}

		for _, shopifyProduct := range productsResp.Products {
			product, err := transformer.TransformProduct(shop.ID, &shopifyProduct)
			if err != nil {
				h.logger.Error("Failed to transform product %d: %v", shopifyProduct.ID, err)
				continue
			}

			if err := h.products.Upsert(ctx, product); err != nil {
				h.logger.Error("Failed to save product %s: %v", product.ExternalID, err)
				continue
			}

			syncedCount++
		}

		if productsResp.Link == nil {
			break
		}
		pageInfo = *productsResp.Link
	}

	if err := h.shops.TouchSync(ctx, shop.ID); err != nil {
		h.logger.Error("Failed to update shop sync time: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Products synced successfully",
		"synced_count": syncedCount,
	})
}

// Webhook handles Shopify product webhooks
func (h *ShopifyHandler) Webhook(c *gin.Context) {
	topic := c.GetHeader("X-Shopify-Topic")
	shopDomain := c.GetHeader("X-Shopify-Shop-Domain")
	signature := c.GetHeader("X-Shopify-Hmac-Sha256")

	if topic == "" || shopDomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required headers"})
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	if !shopify.VerifyWebhookHMAC(payload, signature, h.config.ShopifyWebhookSecret) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
		return
	}

	shop, err := h.shops.GetByDomain(c.Request.Context(), shopDomain)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve shop"})
		return
	}
	if shop == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown shop domain"})
		return
	}

	switch topic {
	case "products/create", "products/update":
		err = h.handleProductWebhook(c, shop, payload)
	case "products/delete":
		err = h.handleProductDeleteWebhook(c, shop, payload)
	default:
		h.logger.Debug("Unhandled webhook topic: %s", topic)
		c.JSON(http.StatusOK, gin.H{"message": "Webhook received but not processed"})
		return
	}

	if err != nil {
		h.logger.Error("Failed to process webhook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed successfully"})
}

func (h *ShopifyHandler) handleProductWebhook(c *gin.Context, shop *models.Shop, payload []byte) error {
	var webhookProduct shopify.WebhookPayload
	if err := json.Unmarshal(payload, &webhookProduct); err != nil {
		return fmt.Errorf("failed to unmarshal webhook payload: %w", err)
	}

	product := &shopify.Product{
		ID:          webhookProduct.ID,
		Title:       webhookProduct.Title,
		BodyHTML:    webhookProduct.BodyHTML,
		Vendor:      webhookProduct.Vendor,
		ProductType: webhookProduct.ProductType,
		Handle:      webhookProduct.Handle,
		Status:      webhookProduct.Status,
		Tags:        webhookProduct.Tags,
		Variants:    webhookProduct.Variants,
		CreatedAt:   webhookProduct.CreatedAt,
		UpdatedAt:   webhookProduct.UpdatedAt,
		PublishedAt: webhookProduct.PublishedAt,
	}

	transformer := shopify.NewTransformer()
	canonical, err := transformer.TransformProduct(shop.ID, product)
	if err != nil {
		return fmt.Errorf("failed to transform product: %w", err)
	}

	return h.products.Upsert(c.Request.Context(), canonical)
}

func (h *ShopifyHandler) handleProductDeleteWebhook(c *gin.Context, shop *models.Shop, payload []byte) error {
	var webhookProduct shopify.WebhookPayload
	if err := json.Unmarshal(payload, &webhookProduct); err != nil {
		return fmt.Errorf("failed to unmarshal webhook payload: %w", err)
	}

	externalID := fmt.Sprintf("shopify_%d", webhookProduct.ID)
	return h.products.DeleteByExternalID(c.Request.Context(), shop.ID, externalID)
}
