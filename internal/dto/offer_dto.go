package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OfferItemRequest struct {
	Name     string          `json:"name"     validate:"required,max=300"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit     string          `json:"unit"     validate:"required,max=20"`
	NetPrice decimal.Decimal `json:"netPrice" validate:"min=0"`
}

// OfferRequest is used for both create and update. On update the offer
// number is kept and the item list is replaced.
type OfferRequest struct {
	ClientID  *uint              `json:"clientId"`
	IssueDate string             `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	VATRate   *decimal.Decimal   `json:"vatRate"`
	Notes     *string            `json:"notes"`
	Items     []OfferItemRequest `json:"items"     validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OfferItemResponse struct {
	Position   int             `json:"position"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	NetPrice   decimal.Decimal `json:"netPrice"`
	NetValue   decimal.Decimal `json:"netValue"`
	GrossValue decimal.Decimal `json:"grossValue"`
}

type OfferTotals struct {
	Net   decimal.Decimal `json:"net"`
	VAT   decimal.Decimal `json:"vat"`
	Gross decimal.Decimal `json:"gross"`
}

type OfferClient struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phone_number"`
	Address     *string `json:"address"`
	Email       *string `json:"email"`
}

type OfferResponse struct {
	ID          uint                `json:"id"`
	OfferNumber string              `json:"offerNumber"`
	ClientID    *uint               `json:"clientId"`
	Client      *OfferClient        `json:"client"`
	IssueDate   string              `json:"issueDate"`
	VATRate     decimal.Decimal     `json:"vatRate"`
	Notes       *string             `json:"notes"`
	CreatedAt   string              `json:"createdAt"`
	Items       []OfferItemResponse `json:"items,omitempty"`
	Totals      OfferTotals         `json:"totals"`
}
