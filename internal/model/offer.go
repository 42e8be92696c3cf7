package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultVATRate is applied when an offer is created without an explicit rate.
var DefaultVATRate = decimal.NewFromInt(23)

var hundred = decimal.NewFromInt(100)

// Offer is a price quotation. Totals are derived from Items and never stored.
type Offer struct {
	ID          uint            `gorm:"primaryKey"`
	OfferNumber string          `gorm:"uniqueIndex;not null"`
	ClientID    *uint           `gorm:"index"`
	IssueDate   time.Time       `gorm:"type:date;not null"`
	VATRate     decimal.Decimal `gorm:"column:vat_rate;type:numeric(5,2);not null;default:23"`
	Notes       *string
	CreatedAt   time.Time

	Client *Client     `gorm:"foreignKey:ClientID"`
	Items  []OfferItem `gorm:"foreignKey:OfferID"`
}

// OfferItem is one line of an offer; Position keeps the submitted order.
type OfferItem struct {
	ID       uint            `gorm:"primaryKey"`
	OfferID  uint            `gorm:"not null;index"`
	Position int             `gorm:"not null"`
	Name     string          `gorm:"not null"`
	Quantity decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Unit     string          `gorm:"not null"`
	NetPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// NetValue is quantity × net unit price.
func (i OfferItem) NetValue() decimal.Decimal { return i.Quantity.Mul(i.NetPrice) }

// Net sums the net value of every line.
func (o Offer) Net() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.NetValue())
	}
	return sum
}

// VAT is net·rate/100.
func (o Offer) VAT() decimal.Decimal { return o.Net().Mul(o.VATRate).Div(hundred) }

// Gross is net + VAT.
func (o Offer) Gross() decimal.Decimal { return o.Net().Add(o.VAT()) }
