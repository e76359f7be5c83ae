package handlers

import (
	"net/http"

	"github.com/andresuchdata/retail-backoffice/internal/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *service.OrderService
}

func NewOrderHandler(service *service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Submit(c *gin.Context) {
	var req service.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "failed to submit purchase order")
		return
	}

	c.JSON(http.StatusCreated, result)
}
