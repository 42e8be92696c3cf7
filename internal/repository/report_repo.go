package repository

import (
	"context"
	"time"

	"github.com/pweat/rejestr-prac/internal/model"

	"gorm.io/gorm"
)

// ReportRepository runs read-only aggregate queries across the job tables.
type ReportRepository interface {
	MonthlySummary(ctx context.Context, from, to time.Time) ([]model.MonthlySummary, error)
	ServiceReminders(ctx context.Context, dueBy time.Time) ([]model.ServiceReminder, error)
	CountJobsBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

// Revenue of a drilling job is meters × price per meter; every other type
// stores revenue directly. Warranty services hold zeros already.
const monthlySummarySQL = `
SELECT EXTRACT(MONTH FROM j.job_date)::int AS month,
       COUNT(*) AS job_count,
       COALESCE(SUM(CASE j.job_type
           WHEN 'well_drilling'     THEN COALESCE(w.ilosc_metrow, 0)::numeric * w.cena_za_metr
           WHEN 'connection'        THEN c.revenue
           WHEN 'treatment_station' THEN t.revenue
           WHEN 'service'           THEN s.revenue
       END), 0) AS revenue,
       COALESCE(SUM(CASE j.job_type
           WHEN 'well_drilling'     THEN w.labor_cost + w.casing_cost + w.other_costs
           WHEN 'connection'        THEN c.equipment_cost + c.labor_cost + c.materials_cost + c.other_costs
           WHEN 'treatment_station' THEN t.equipment_cost + t.labor_cost + t.other_costs
           WHEN 'service'           THEN s.labor_cost
       END), 0) AS costs,
       COALESCE(SUM(w.ilosc_metrow), 0)::float8 AS meters_drilled
FROM jobs j
LEFT JOIN well_drilling_details w     ON j.job_type = 'well_drilling'     AND w.id = j.details_id
LEFT JOIN connection_details c        ON j.job_type = 'connection'        AND c.id = j.details_id
LEFT JOIN treatment_station_details t ON j.job_type = 'treatment_station' AND t.id = j.details_id
LEFT JOIN service_details s           ON j.job_type = 'service'           AND s.id = j.details_id
WHERE j.job_date >= ? AND j.job_date < ?
GROUP BY 1
ORDER BY 1`

func (r *reportRepo) MonthlySummary(ctx context.Context, from, to time.Time) ([]model.MonthlySummary, error) {
	var rows []model.MonthlySummary
	err := r.db.WithContext(ctx).Raw(monthlySummarySQL, from, to).Scan(&rows).Error
	return rows, err
}

// The next service is due one interval after the later of the installation
// and the client's most recent service call.
const serviceRemindersSQL = `
WITH last_service AS (
    SELECT client_id, MAX(job_date) AS last_service_on
    FROM jobs
    WHERE job_type = 'service'
    GROUP BY client_id
), stations AS (
    SELECT j.id AS job_id, j.client_id, cl.name AS client_name, cl.phone_number, cl.address,
           t.station_model, j.job_date AS installed_on, ls.last_service_on,
           t.service_interval_months,
           (GREATEST(j.job_date, COALESCE(ls.last_service_on, j.job_date))
               + make_interval(months => t.service_interval_months))::date AS due_date
    FROM jobs j
    JOIN treatment_station_details t ON t.id = j.details_id
    JOIN clients cl ON cl.id = j.client_id
    LEFT JOIN last_service ls ON ls.client_id = j.client_id
    WHERE j.job_type = 'treatment_station'
)
SELECT * FROM stations
WHERE due_date <= ?
ORDER BY due_date ASC, job_id ASC`

func (r *reportRepo) ServiceReminders(ctx context.Context, dueBy time.Time) ([]model.ServiceReminder, error) {
	var rows []model.ServiceReminder
	err := r.db.WithContext(ctx).Raw(serviceRemindersSQL, dueBy).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) CountJobsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("job_date >= ? AND job_date < ?", from, to).
		Count(&n).Error
	return n, err
}
