package dto

import (
	"encoding/json"

	"github.com/pweat/rejestr-prac/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateJobRequest carries the details payload raw; its shape depends on JobType
// and is decoded by the job service.
type CreateJobRequest struct {
	ClientID uint            `json:"clientId" validate:"required"`
	JobType  string          `json:"jobType"  validate:"required"`
	JobDate  string          `json:"jobDate"  validate:"required,datetime=2006-01-02"`
	Details  json.RawMessage `json:"details"  validate:"required"`
}

// UpdateJobRequest has no job type: the stored type is kept.
type UpdateJobRequest struct {
	ClientID uint            `json:"clientId" validate:"required"`
	JobDate  string          `json:"jobDate"  validate:"required,datetime=2006-01-02"`
	Details  json.RawMessage `json:"details"  validate:"required"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type JobFilter struct {
	ListQuery
	JobType  string `form:"jobType"`
	ClientID uint   `form:"clientId"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type JobSummary struct {
	ID          uint   `json:"id"`
	ClientID    uint   `json:"clientId"`
	ClientName  string `json:"clientName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	JobType     string `json:"jobType"`
	JobDate     string `json:"jobDate"`
	CreatedAt   string `json:"createdAt"`
}

type JobResponse struct {
	JobSummary
	Details model.JobDetails `json:"details"`
}
