package api

import (
	"context"
	"fmt"
	"net/http"
)

// Category is a product category managed by admins and merchants.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	CreatedBy   string `json:"created_by"`
}

// Product is a merchant-side catalog entry. Decimal money fields arrive as
// strings on the wire.
type Product struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Price              string    `json:"price"`
	Inventory          int       `json:"inventory"`
	AllowCustomization bool      `json:"allow_customization"`
	IsActive           bool      `json:"is_active"`
	HeroImage          string    `json:"hero_image"`
	Tags               string    `json:"tags"`
	Category           *Category `json:"category"`
	Merchant           string    `json:"merchant"`
	LastSyncedAt       *string   `json:"last_synced_at"`
	CreatedAt          string    `json:"created_at"`
	UpdatedAt          string    `json:"updated_at"`
}

// ProductInput is the write shape for creating or updating a product.
type ProductInput struct {
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	Price              string `json:"price"`
	Inventory          int    `json:"inventory"`
	AllowCustomization bool   `json:"allow_customization"`
	IsActive           bool   `json:"is_active"`
	HeroImage          string `json:"hero_image,omitempty"`
	Tags               string `json:"tags,omitempty"`
	CategoryID         int64  `json:"category_id"`
}

// InventoryLog records one stock adjustment.
type InventoryLog struct {
	ID        int64  `json:"id"`
	Product   string `json:"product"`
	Change    int    `json:"change"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

// InventoryAdjustment applies a stock delta to a product.
type InventoryAdjustment struct {
	ProductID int64  `json:"product_id"`
	Change    int    `json:"change"`
	Note      string `json:"note,omitempty"`
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.execute(ctx, http.MethodGet, "catalog/categories/", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, input Category) (*Category, error) {
	var created Category
	if err := c.execute(ctx, http.MethodPost, "catalog/categories/", input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Products(ctx context.Context, params map[string]string) ([]Product, error) {
	var products []Product
	if err := c.execute(ctx, http.MethodGet, "catalog/products/", nil, &products, withQuery(params)); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	var created Product
	if err := c.execute(ctx, http.MethodPost, "catalog/products/", input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*Product, error) {
	var updated Product
	if err := c.execute(ctx, http.MethodPut, fmt.Sprintf("catalog/products/%d/", id), input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) InventoryLogs(ctx context.Context) ([]InventoryLog, error) {
	var logs []InventoryLog
	if err := c.execute(ctx, http.MethodGet, "catalog/inventory/", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) AdjustInventory(ctx context.Context, adj InventoryAdjustment) (*InventoryLog, error) {
	var log InventoryLog
	if err := c.execute(ctx, http.MethodPost, "catalog/inventory/", adj, &log); err != nil {
		return nil, err
	}
	return &log, nil
}
