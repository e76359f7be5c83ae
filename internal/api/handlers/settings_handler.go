package handlers

import (
	"net/http"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
	"github.com/andresuchdata/retail-backoffice/internal/service"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	service *service.SettingsService
}

func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.service.ListSuppliers(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err, "failed to fetch suppliers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *SettingsHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.service.GetSupplier(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to fetch supplier")
		return
	}

	c.JSON(http.StatusOK, supplier)
}

func (h *SettingsHandler) UpdateSupplier(c *gin.Context) {
	var body domain.Supplier
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	supplier, err := h.service.UpdateSupplier(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, err, "failed to update supplier")
		return
	}

	c.JSON(http.StatusOK, supplier)
}

func (h *SettingsHandler) ListNotificationGroups(c *gin.Context) {
	groups, err := h.service.ListNotificationGroups(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch notification groups")
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *SettingsHandler) SaveNotificationGroup(c *gin.Context) {
	var body domain.NotificationGroup
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	group, err := h.service.SaveNotificationGroup(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, err, "failed to save notification group")
		return
	}

	c.JSON(http.StatusOK, group)
}

func (h *SettingsHandler) DeleteNotificationGroup(c *gin.Context) {
	if err := h.service.DeleteNotificationGroup(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "failed to delete notification group")
		return
	}

	c.Status(http.StatusNoContent)
}
