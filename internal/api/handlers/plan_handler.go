package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/service"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	service *service.PlannerService
}

func NewPlanHandler(service *service.PlannerService) *PlanHandler {
	return &PlanHandler{service: service}
}

type itemsRequest struct {
	Items []domain.AggregatedItem `json:"items"`
}

type bufferRequest struct {
	Items      []domain.AggregatedItem `json:"items"`
	ItemID     string                  `json:"item_id" binding:"required"`
	Buffer     *int                    `json:"buffer" binding:"required"`
	TargetDate string                  `json:"target_date" binding:"required"`
}

type targetDateRequest struct {
	Items      []domain.AggregatedItem `json:"items"`
	TargetDate string                  `json:"target_date" binding:"required"`
}

type orderQuantityRequest struct {
	Items    []domain.AggregatedItem `json:"items"`
	ItemID   string                  `json:"item_id" binding:"required"`
	Quantity *int                    `json:"quantity" binding:"required"`
}

// GetPlan builds a fresh plan. Query: supplier_id, delivery_date (required), target_date, days.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	delivery, err := domain.ParseDate(c.Query("delivery_date"))
	if err != nil {
		badRequest(c, "invalid delivery_date", err)
		return
	}

	var target time.Time
	if raw := strings.TrimSpace(c.Query("target_date")); raw != "" {
		if target, err = domain.ParseDate(raw); err != nil {
			badRequest(c, "invalid target_date", err)
			return
		}
	}

	days := 0
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		if days, err = strconv.Atoi(raw); err != nil || days < 0 {
			badRequest(c, "days must be a non-negative integer", nil)
			return
		}
	}

	plan, err := h.service.BuildPlan(c.Request.Context(), service.PlanRequest{
		SupplierID:   strings.TrimSpace(c.Query("supplier_id")),
		DeliveryDate: delivery,
		TargetDate:   target,
		Days:         days,
	})
	if err != nil {
		respondError(c, err, "failed to build plan")
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) UpdateBuffer(c *gin.Context) {
	var req bufferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	target, err := domain.ParseDate(req.TargetDate)
	if err != nil {
		badRequest(c, "invalid target_date", err)
		return
	}

	result, err := h.service.ApplyBuffer(req.Items, req.ItemID, *req.Buffer, target)
	if err != nil {
		respondError(c, err, "failed to apply buffer")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlanHandler) UpdateTargetDate(c *gin.Context) {
	var req targetDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	target, err := domain.ParseDate(req.TargetDate)
	if err != nil {
		badRequest(c, "invalid target_date", err)
		return
	}

	c.JSON(http.StatusOK, h.service.ApplyTargetDate(req.Items, target))
}

func (h *PlanHandler) ApplySuggested(c *gin.Context) {
	var req itemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	c.JSON(http.StatusOK, h.service.ApplyAllSuggested(req.Items))
}

func (h *PlanHandler) SetOrderQuantity(c *gin.Context) {
	var req orderQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	result, err := h.service.SetOrderQuantity(req.Items, req.ItemID, *req.Quantity)
	if err != nil {
		respondError(c, err, "failed to set order quantity")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlanHandler) SaveBuffers(c *gin.Context) {
	var req itemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	if err := h.service.SaveBuffers(c.Request.Context(), req.Items); err != nil {
		respondError(c, err, "failed to save buffers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": len(req.Items)})
}
