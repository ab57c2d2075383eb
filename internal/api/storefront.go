package api

import (
	"context"
	"fmt"
	"net/http"
)

// StorePreviewProduct is the trimmed product shape shown on store cards.
type StorePreviewProduct struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	HeroImage string `json:"hero_image"`
}

// Store is a merchant storefront as browsed by consumers.
type Store struct {
	ID              int64                 `json:"id"`
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	AvatarURL       string                `json:"avatar_url"`
	ProductCount    int                   `json:"product_count"`
	PreviewProducts []StorePreviewProduct `json:"preview_products"`
}

// StorefrontProduct is the consumer-facing product shape.
type StorefrontProduct struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Inventory   int    `json:"inventory"`
	HeroImage   string `json:"hero_image"`
	Tags        string `json:"tags"`
	Store       *Store `json:"store"`
	Category    string `json:"category"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// StorefrontCategory is the consumer-facing category shape.
type StorefrontCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) Stores(ctx context.Context, params map[string]string) ([]Store, error) {
	var stores []Store
	if err := c.execute(ctx, http.MethodGet, "storefront/stores/", nil, &stores, withQuery(params)); err != nil {
		return nil, err
	}
	return stores, nil
}

func (c *Client) StoreDetail(ctx context.Context, id int64) (*Store, error) {
	var store Store
	if err := c.execute(ctx, http.MethodGet, fmt.Sprintf("storefront/stores/%d/", id), nil, &store); err != nil {
		return nil, err
	}
	return &store, nil
}

func (c *Client) StoreProducts(ctx context.Context, id int64, params map[string]string) ([]StorefrontProduct, error) {
	var products []StorefrontProduct
	if err := c.execute(ctx, http.MethodGet, fmt.Sprintf("storefront/stores/%d/products/", id), nil, &products, withQuery(params)); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) StorefrontCategories(ctx context.Context, params map[string]string) ([]StorefrontCategory, error) {
	var categories []StorefrontCategory
	if err := c.execute(ctx, http.MethodGet, "storefront/categories/", nil, &categories, withQuery(params)); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) StorefrontProducts(ctx context.Context, params map[string]string) ([]StorefrontProduct, error) {
	var products []StorefrontProduct
	if err := c.execute(ctx, http.MethodGet, "storefront/products/", nil, &products, withQuery(params)); err != nil {
		return nil, err
	}
	return products, nil
}
