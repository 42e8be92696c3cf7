package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type InventoryItemRequest struct {
	Name     string          `json:"name"      validate:"required,max=200"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"      validate:"required,max=20"`
	MinStock decimal.Decimal `json:"min_stock" validate:"min=0"`
}

// InventoryOperationRequest is a ledger operation. Quantity must be strictly
// positive; the sign of the stored delta comes from OperationType.
type InventoryOperationRequest struct {
	ItemID        uint            `json:"itemId"        validate:"required"`
	OperationType string          `json:"operationType" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InventoryItemResponse struct {
	ID               uint            `json:"id"`
	Name             string          `json:"name"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	MinStock         decimal.Decimal `json:"min_stock"`
	LastDeliveryDate *string         `json:"last_delivery_date"`
	IsOrdered        bool            `json:"is_ordered"`
	LowStock         bool            `json:"low_stock"`
}

type StockHistoryResponse struct {
	ID             uint            `json:"id"`
	ItemID         uint            `json:"item_id"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	OperationType  string          `json:"operation_type"`
	UserID         *uint           `json:"user_id"`
	Username       *string         `json:"username"`
	CreatedAt      string          `json:"created_at"`
}
