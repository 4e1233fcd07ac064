package handler

import (
	"net/http"

	"github.com/djjoel12/talksellr/internal/middleware"
	"github.com/djjoel12/talksellr/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /vendor/audit-logs（自分の操作履歴）
type VendorAuditHandler struct {
	uc *usecase.VendorAuditUsecase
}

func NewVendorAuditHandler(uc *usecase.VendorAuditUsecase) *VendorAuditHandler {
	return &VendorAuditHandler{uc: uc}
}

func (h *VendorAuditHandler) RegisterRoutes(e *echo.Echo) {
	vendor := e.Group("/vendor/audit-logs")
	vendor.Use(middleware.RequireLogin())
	vendor.Use(middleware.VendorRoleGuard())

	vendor.GET("", h.list)
}

func (h *VendorAuditHandler) list(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, limit, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListMine(c.Request().Context(), actorID, usecase.VendorAuditListInput{
		Page:         page,
		Limit:        limit,
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   c.QueryParam("resource_id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
