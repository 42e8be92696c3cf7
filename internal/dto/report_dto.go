package dto

import "github.com/shopspring/decimal"

type MonthlyReportRow struct {
	Month         int             `json:"month"`
	Revenue       decimal.Decimal `json:"revenue"`
	Costs         decimal.Decimal `json:"costs"`
	Profit        decimal.Decimal `json:"profit"`
	MetersDrilled float64         `json:"metersDrilled"`
	JobCount      int64           `json:"jobCount"`
}

// MonthlyReportResponse always carries twelve months, empty ones zeroed.
type MonthlyReportResponse struct {
	Year   int                `json:"year"`
	Months []MonthlyReportRow `json:"months"`
	Totals MonthlyReportRow   `json:"totals"`
}

type ServiceReminderResponse struct {
	JobID                 uint    `json:"jobId"`
	ClientID              uint    `json:"clientId"`
	ClientName            string  `json:"clientName"`
	PhoneNumber           string  `json:"phoneNumber"`
	Address               *string `json:"address"`
	StationModel          *string `json:"stationModel"`
	InstalledOn           string  `json:"installedOn"`
	LastServiceOn         *string `json:"lastServiceOn"`
	ServiceIntervalMonths int     `json:"serviceIntervalMonths"`
	DueDate               string  `json:"dueDate"`
	Overdue               bool    `json:"overdue"`
}

type DashboardResponse struct {
	Clients         int64 `json:"clients"`
	JobsThisMonth   int64 `json:"jobsThisMonth"`
	OffersThisMonth int64 `json:"offersThisMonth"`
	LowStockItems   int64 `json:"lowStockItems"`
}
