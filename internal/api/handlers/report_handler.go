package handlers

import (
	"net/http"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetDailySales returns per-day totals for ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *ReportHandler) GetDailySales(c *gin.Context) {
	from, err := domain.ParseDate(c.Query("from"))
	if err != nil {
		badRequest(c, "invalid from date", err)
		return
	}
	to, err := domain.ParseDate(c.Query("to"))
	if err != nil {
		badRequest(c, "invalid to date", err)
		return
	}

	totals, err := h.service.DailySales(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "failed to fetch sales report")
		return
	}

	c.JSON(http.StatusOK, gin.H{"from": domain.DateKey(from), "to": domain.DateKey(to), "days": totals})
}
