package infra

import (
	"bytes"
	"testing"

	"github.com/pweat/rejestr-prac/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMonthlyReportXLSX(t *testing.T) {
	report := &dto.MonthlyReportResponse{Year: 2024, Months: make([]dto.MonthlyReportRow, 12)}
	for i := range report.Months {
		report.Months[i] = dto.MonthlyReportRow{Month: i + 1}
	}
	report.Months[4] = dto.MonthlyReportRow{
		Month: 5, JobCount: 2, MetersDrilled: 40,
		Revenue: decimal.NewFromInt(4000), Costs: decimal.NewFromInt(1500), Profit: decimal.NewFromInt(2500),
	}
	report.Totals = report.Months[4]

	out, err := MonthlyReportXLSX(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(reportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Miesiąc", header)

	may, err := f.GetCellValue(reportSheet, "A6")
	require.NoError(t, err)
	assert.Equal(t, "Maj", may)

	jobs, err := f.GetCellValue(reportSheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "2", jobs)

	total, err := f.GetCellValue(reportSheet, "A14")
	require.NoError(t, err)
	assert.Equal(t, "Razem 2024", total)
}
