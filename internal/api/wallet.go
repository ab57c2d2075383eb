package api

import (
	"context"
	"net/http"
)

// WalletOverview is the body of GET wallet/.
type WalletOverview struct {
	Balance      string `json:"balance"`
	Tier         string `json:"tier"`
	PendingSpend string `json:"pending_spend"`
}

// WalletConfig is the platform-wide wallet policy, admin managed.
type WalletConfig struct {
	LowTierLimit           string `json:"low_tier_limit"`
	HighTierRequiresReview bool   `json:"high_tier_requires_review"`
	EnableTiers            bool   `json:"enable_tiers"`
}

// PayRequest pays for an existing order, or for ad-hoc items when no
// order id is given.
type PayRequest struct {
	Amount          string           `json:"amount"`
	OrderID         int64            `json:"order_id,omitempty"`
	Items           []map[string]any `json:"items,omitempty"`
	ShippingAddress string           `json:"shipping_address,omitempty"`
	Note            string           `json:"note,omitempty"`
}

// RefundRequest asks for a refund on a paid order.
type RefundRequest struct {
	OrderID int64  `json:"order_id"`
	Amount  string `json:"amount,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// RechargeRequest tops up the wallet.
type RechargeRequest struct {
	Amount string `json:"amount"`
}

// Voucher is a redeemable wallet credit code.
type Voucher struct {
	Code       string  `json:"code"`
	Amount     string  `json:"amount"`
	IsRedeemed bool    `json:"is_redeemed"`
	RedeemedAt *string `json:"redeemed_at"`
	CreatedAt  string  `json:"created_at"`
	CreatedBy  string  `json:"created_by"`
	RedeemedBy *string `json:"redeemed_by"`
}

// GenerateVouchersRequest mints up to 50 vouchers of the same amount.
type GenerateVouchersRequest struct {
	Amount string `json:"amount"`
	Count  int    `json:"count"`
}

// RedeemVoucherRequest redeems one voucher code into the wallet.
type RedeemVoucherRequest struct {
	Code string `json:"code"`
}

func (c *Client) WalletOverview(ctx context.Context) (*WalletOverview, error) {
	var overview WalletOverview
	if err := c.execute(ctx, http.MethodGet, "wallet/", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *Client) WalletPay(ctx context.Context, req PayRequest) (*WalletOverview, error) {
	var overview WalletOverview
	if err := c.execute(ctx, http.MethodPost, "wallet/pay/", req, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *Client) WalletRefund(ctx context.Context, req RefundRequest) (*WalletOverview, error) {
	var overview WalletOverview
	if err := c.execute(ctx, http.MethodPost, "wallet/refund/", req, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *Client) WalletRecharge(ctx context.Context, req RechargeRequest) (*WalletOverview, error) {
	var overview WalletOverview
	if err := c.execute(ctx, http.MethodPost, "wallet/recharge/", req, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *Client) WalletConfig(ctx context.Context) (*WalletConfig, error) {
	var cfg WalletConfig
	if err := c.execute(ctx, http.MethodGet, "wallet/config/", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Client) UpdateWalletConfig(ctx context.Context, cfg WalletConfig) (*WalletConfig, error) {
	var updated WalletConfig
	if err := c.execute(ctx, http.MethodPut, "wallet/config/", cfg, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) GenerateVouchers(ctx context.Context, req GenerateVouchersRequest) ([]Voucher, error) {
	var vouchers []Voucher
	if err := c.execute(ctx, http.MethodPost, "wallet/vouchers/generate/", req, &vouchers); err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (c *Client) RedeemVoucher(ctx context.Context, req RedeemVoucherRequest) (*WalletOverview, error) {
	var overview WalletOverview
	if err := c.execute(ctx, http.MethodPost, "wallet/vouchers/redeem/", req, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

func (c *Client) Vouchers(ctx context.Context) ([]Voucher, error) {
	var vouchers []Voucher
	if err := c.execute(ctx, http.MethodGet, "wallet/vouchers/", nil, &vouchers); err != nil {
		return nil, err
	}
	return vouchers, nil
}
