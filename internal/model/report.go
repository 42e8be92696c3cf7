package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySummary is one row of the yearly report. Not a table.
type MonthlySummary struct {
	Month         int
	Revenue       decimal.Decimal
	Costs         decimal.Decimal
	MetersDrilled float64
	JobCount      int64
}

// Profit is revenue minus costs.
func (m MonthlySummary) Profit() decimal.Decimal { return m.Revenue.Sub(m.Costs) }

// ServiceReminder is a treatment station due for its periodic service.
type ServiceReminder struct {
	JobID                 uint
	ClientID              uint
	ClientName            string
	PhoneNumber           string
	Address               *string
	StationModel          *string
	InstalledOn           time.Time
	LastServiceOn         *time.Time
	ServiceIntervalMonths int
	DueDate               time.Time
}
