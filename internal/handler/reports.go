package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pweat/rejestr-prac/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Monthly(c *gin.Context) {
	year, ok := queryInt(c, "year", time.Now().Year())
	if !ok {
		return
	}
	resp, err := h.svc.Monthly(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) MonthlyExport(c *gin.Context) {
	year, ok := queryInt(c, "year", time.Now().Year())
	if !ok {
		return
	}
	content, err := h.svc.MonthlyXLSX(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="raport-%d.xlsx"`, year))
	c.Data(http.StatusOK, xlsxContentType, content)
}

func (h *ReportsHandler) ServiceReminders(c *gin.Context) {
	days, ok := queryInt(c, "days", 30)
	if !ok {
		return
	}
	resp, err := h.svc.ServiceReminders(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
