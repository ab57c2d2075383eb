package api

import (
	"context"
	"fmt"
	"net/http"
)

// OrderItem is one line of an order.
type OrderItem struct {
	ID            int64  `json:"id"`
	Product       string `json:"product"`
	ProductID     int64  `json:"product_id"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	CustomDetails string `json:"custom_details"`
}

// Order is a placed order as seen by consumers and merchants.
type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     string      `json:"order_number"`
	Consumer        string      `json:"consumer"`
	Merchant        string      `json:"merchant"`
	Status          string      `json:"status"`
	Subtotal        string      `json:"subtotal"`
	TotalAmount     string      `json:"total_amount"`
	Note            string      `json:"note"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	RefundStatus    string      `json:"refund_status"`
	Items           []OrderItem `json:"items"`
	CreatedAt       string      `json:"created_at"`
	UpdatedAt       string      `json:"updated_at"`
}

// CreateOrderItem is the write shape of one order line.
type CreateOrderItem struct {
	ProductID     int64  `json:"product_id"`
	Quantity      int    `json:"quantity"`
	CustomDetails string `json:"custom_details,omitempty"`
}

// CreateOrderRequest places a new order. At least one item is required.
type CreateOrderRequest struct {
	Items           []CreateOrderItem `json:"items"`
	Note            string            `json:"note,omitempty"`
	ShippingAddress string            `json:"shipping_address,omitempty"`
	PaymentMethod   string            `json:"payment_method,omitempty"`
}

// UpdateOrderStatusRequest moves an order to a new status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (c *Client) Orders(ctx context.Context, params map[string]string) ([]Order, error) {
	var orders []Order
	if err := c.execute(ctx, http.MethodGet, "commerce/orders/", nil, &orders, withQuery(params)); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.execute(ctx, http.MethodPost, "commerce/orders/", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, req UpdateOrderStatusRequest) (*Order, error) {
	var order Order
	if err := c.execute(ctx, http.MethodPost, fmt.Sprintf("commerce/orders/%d/update_status/", id), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
