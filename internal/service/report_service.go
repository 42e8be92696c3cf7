package service

import (
	"context"
	"time"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/infra"
	"github.com/pweat/rejestr-prac/internal/model"
	"github.com/pweat/rejestr-prac/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService serves read-only aggregates over jobs, offers and stock.
type ReportService interface {
	Monthly(ctx context.Context, year int) (*dto.MonthlyReportResponse, error)
	MonthlyXLSX(ctx context.Context, year int) ([]byte, error)
	ServiceReminders(ctx context.Context, days int) ([]dto.ServiceReminderResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type reportService struct {
	repo      repository.ReportRepository
	clients   repository.ClientRepository
	offers    repository.OfferRepository
	inventory repository.InventoryRepository
	now       func() time.Time
}

func NewReportService(
	repo repository.ReportRepository,
	clients repository.ClientRepository,
	offers repository.OfferRepository,
	inventory repository.InventoryRepository,
) ReportService {
	return &reportService{repo: repo, clients: clients, offers: offers, inventory: inventory, now: time.Now}
}

func (s *reportService) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *reportService) Monthly(ctx context.Context, year int) (*dto.MonthlyReportResponse, error) {
	if year < 1900 || year > 9999 {
		return nil, validationf("year must be a four-digit year.")
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err := s.repo.MonthlySummary(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}
	return buildMonthlyReport(year, rows), nil
}

// buildMonthlyReport spreads the aggregate rows over all twelve months and sums them.
func buildMonthlyReport(year int, rows []model.MonthlySummary) *dto.MonthlyReportResponse {
	resp := &dto.MonthlyReportResponse{Year: year, Months: make([]dto.MonthlyReportRow, 12)}
	for m := range resp.Months {
		resp.Months[m] = dto.MonthlyReportRow{Month: m + 1, Revenue: decimal.Zero, Costs: decimal.Zero, Profit: decimal.Zero}
	}
	totals := model.MonthlySummary{Revenue: decimal.Zero, Costs: decimal.Zero}
	for _, r := range rows {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		resp.Months[r.Month-1] = monthlyRow(r)
		totals.Revenue = totals.Revenue.Add(r.Revenue)
		totals.Costs = totals.Costs.Add(r.Costs)
		totals.MetersDrilled += r.MetersDrilled
		totals.JobCount += r.JobCount
	}
	resp.Totals = monthlyRow(totals)
	return resp
}

func monthlyRow(r model.MonthlySummary) dto.MonthlyReportRow {
	return dto.MonthlyReportRow{
		Month:         r.Month,
		Revenue:       r.Revenue.Round(2),
		Costs:         r.Costs.Round(2),
		Profit:        r.Profit().Round(2),
		MetersDrilled: r.MetersDrilled,
		JobCount:      r.JobCount,
	}
}

func (s *reportService) MonthlyXLSX(ctx context.Context, year int) ([]byte, error) {
	report, err := s.Monthly(ctx, year)
	if err != nil {
		return nil, err
	}
	return infra.MonthlyReportXLSX(report)
}

// ServiceReminders lists treatment stations whose next service falls within
// the coming days, overdue ones included.
func (s *reportService) ServiceReminders(ctx context.Context, days int) ([]dto.ServiceReminderResponse, error) {
	if days < 0 || days > 3650 {
		return nil, validationf("days must be between 0 and 3650.")
	}
	today := s.today()
	rows, err := s.repo.ServiceReminders(ctx, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ServiceReminderResponse, len(rows))
	for i, r := range rows {
		resp[i] = dto.ServiceReminderResponse{
			JobID:                 r.JobID,
			ClientID:              r.ClientID,
			ClientName:            r.ClientName,
			PhoneNumber:           r.PhoneNumber,
			Address:               r.Address,
			StationModel:          r.StationModel,
			InstalledOn:           r.InstalledOn.Format(dateLayout),
			ServiceIntervalMonths: r.ServiceIntervalMonths,
			DueDate:               r.DueDate.Format(dateLayout),
			Overdue:               r.DueDate.Before(today),
		}
		if r.LastServiceOn != nil {
			d := r.LastServiceOn.Format(dateLayout)
			resp[i].LastServiceOn = &d
		}
	}
	return resp, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	from, to := monthBounds(s.today())
	var (
		resp dto.DashboardResponse
		err  error
	)
	if resp.Clients, err = s.clients.Count(ctx); err != nil {
		return nil, err
	}
	if resp.JobsThisMonth, err = s.repo.CountJobsBetween(ctx, from, to); err != nil {
		return nil, err
	}
	if resp.OffersThisMonth, err = s.offers.CountIssuedBetween(ctx, from, to); err != nil {
		return nil, err
	}
	if resp.LowStockItems, err = s.inventory.CountLowStock(ctx); err != nil {
		return nil, err
	}
	return &resp, nil
}
