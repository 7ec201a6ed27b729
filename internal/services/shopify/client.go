package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"merchpilot/internal/logger"
)

const apiVersion = "2023-10"

type Client struct {
	shopDomain  string
	accessToken string
	httpClient  *http.Client
	logger      *logger.Logger
}

func NewClient(shopDomain, accessToken string, logger *logger.Logger) *Client {
	return &Client{
		shopDomain:  cleanDomain(shopDomain),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func cleanDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, ".myshopify.com")
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/%s", c.shopDomain, apiVersion, path)
}

// GetProducts fetches a page of products from Shopify
func (c *Client) GetProducts(ctx context.Context, limit int, pageInfo string) (*ProductsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("products.json"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Set("limit", fmt.Sprintf("%d", limit))
	if pageInfo != "" {
		q.Set("page_info", pageInfo)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var productsResp ProductsResponse
	if err := json.NewDecoder(resp.Body).Decode(&productsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if link := resp.Header.Get("Link"); link != "" {
		if next := parseNextPageInfo(link); next != "" {
			productsResp.Link = &next
		}
	}

	return &productsResp, nil
}

// GetProduct fetches a single product by ID
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(fmt.Sprintf("products/%s.json", productID)), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var productResp struct {
		Product Product `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&productResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &productResp.Product, nil
}

// UpdateVariantPrice pushes a new price to one variant
func (c *Client) UpdateVariantPrice(ctx context.Context, variantID int64, price float64) error {
	payload := struct {
		Variant struct {
			ID    int64  `json:"id"`
			Price string `json:"price"`
		} `json:"variant"`
	}{}
	payload.Variant.ID = variantID
	payload.Variant.Price = fmt.Sprintf("%.2f", price)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal variant: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url(fmt.Sprintf("variants/%d.json", variantID)), bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	return nil
}

// UpdateProductPrice pushes a new price to every variant of a product
func (c *Client) UpdateProductPrice(ctx context.Context, productID string, price float64) error {
	product, err := c.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to fetch product %s: %w", productID, err)
	}
	if len(product.Variants) == 0 {
		return fmt.Errorf("product %s has no variants", productID)
	}

	for _, variant := range product.Variants {
		if err := c.UpdateVariantPrice(ctx, variant.ID, price); err != nil {
			return fmt.Errorf("failed to update variant %d: %w", variant.ID, err)
		}
	}

	return nil
}

// GetShopInfo fetches shop information
func (c *Client) GetShopInfo(ctx context.Context) (*Shop, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("shop.json"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var shopResp struct {
		Shop Shop `json:"shop"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&shopResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &shopResp.Shop, nil
}

// parseNextPageInfo pulls the page_info cursor out of a Link header like
// <https://x.myshopify.com/...&page_info=abc>; rel="next"
func parseNextPageInfo(link string) string {
	for _, part := range strings.Split(link, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "page_info=")
		if start == -1 {
			return ""
		}
		cursor := part[start+len("page_info="):]
		if end := strings.IndexAny(cursor, ">&"); end != -1 {
			cursor = cursor[:end]
		}
		return cursor
	}
	return ""
}
