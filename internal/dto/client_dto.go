package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ClientRequest struct {
	Name        string  `json:"name"         validate:"omitempty,max=200"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=30"`
	Address     *string `json:"address"      validate:"omitempty,max=300"`
	Notes       *string `json:"notes"`
	Email       *string `json:"email"        validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClientResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phone_number"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
	Email       *string `json:"email"`
	CreatedAt   string  `json:"created_at"`
}

// ClientDetailResponse adds the client's job history to the record.
type ClientDetailResponse struct {
	ClientResponse
	Jobs []JobSummary `json:"jobs"`
}
