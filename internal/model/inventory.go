package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger operation tags written to stock_history.operation_type.
const (
	OpDelivery   = "delivery"
	OpWithdrawal = "withdrawal"
)

// OrderStatusTag is the synthetic history tag written when the ordered flag flips.
func OrderStatusTag(ordered bool) string {
	return fmt.Sprintf("status_changed_to_%t", ordered)
}

// InventoryItem is a stocked material. Quantity may go negative: withdrawals
// are not floor-checked.
type InventoryItem struct {
	ID               uint            `gorm:"primaryKey"`
	Name             string          `gorm:"uniqueIndex;not null"`
	Quantity         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Unit             string          `gorm:"not null;default:'szt.'"`
	MinStock         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	LastDeliveryDate *time.Time
	IsOrdered        bool `gorm:"not null;default:false"`
}

// LowStock reports whether the item is at or below its minimum threshold.
func (i InventoryItem) LowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinStock)
}

// StockHistory is an append-only ledger row. Delta is signed: positive for
// deliveries, negative for withdrawals and zero for order-flag changes.
type StockHistory struct {
	ID            uint            `gorm:"primaryKey"`
	ItemID        uint            `gorm:"not null;index"`
	Delta         decimal.Decimal `gorm:"column:quantity_change;type:numeric(12,2);not null"`
	OperationType string          `gorm:"not null"`
	UserID        *uint
	CreatedAt     time.Time

	User *User `gorm:"foreignKey:UserID"`
}

// TableName overrides GORM's default pluralization (stock_histories → stock_history).
func (StockHistory) TableName() string { return "stock_history" }
