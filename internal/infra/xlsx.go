package infra

import (
	"bytes"
	"fmt"

	"github.com/pweat/rejestr-prac/internal/dto"

	"github.com/xuri/excelize/v2"
)

const reportSheet = "Raport"

var monthNames = [...]string{
	"Styczeń", "Luty", "Marzec", "Kwiecień", "Maj", "Czerwiec",
	"Lipiec", "Sierpień", "Wrzesień", "Październik", "Listopad", "Grudzień",
}

// MonthlyReportXLSX writes the yearly report as a single-sheet workbook:
// one row per month followed by a bold totals row.
func MonthlyReportXLSX(report *dto.MonthlyReportResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}

	headers := []interface{}{"Miesiąc", "Liczba prac", "Metry", "Przychód", "Koszty", "Zysk"}
	if err := f.SetSheetRow(reportSheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, m := range report.Months {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(reportSheet, cell, &[]interface{}{
			monthNames[m.Month-1], m.JobCount, m.MetersDrilled,
			m.Revenue.InexactFloat64(), m.Costs.InexactFloat64(), m.Profit.InexactFloat64(),
		}); err != nil {
			return nil, err
		}
	}

	totalRow := len(report.Months) + 2
	t := report.Totals
	if err := f.SetSheetRow(reportSheet, fmt.Sprintf("A%d", totalRow), &[]interface{}{
		fmt.Sprintf("Razem %d", report.Year), t.JobCount, t.MetersDrilled,
		t.Revenue.InexactFloat64(), t.Costs.InexactFloat64(), t.Profit.InexactFloat64(),
	}); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(reportSheet, "A1", "F1", bold); err != nil {
		return nil, err
	}
	last := fmt.Sprintf("F%d", totalRow)
	if err := f.SetCellStyle(reportSheet, fmt.Sprintf("A%d", totalRow), last, bold); err != nil {
		return nil, err
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(reportSheet, "D2", fmt.Sprintf("F%d", totalRow-1), money); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(reportSheet, "A", "A", 16); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(reportSheet, "B", "F", 14); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: write report: %w", err)
	}
	return buf.Bytes(), nil
}
