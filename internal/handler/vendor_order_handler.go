package handler

import (
	"net/http"

	"github.com/djjoel12/talksellr/internal/middleware"
	"github.com/djjoel12/talksellr/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /vendor/orders（自分の商品を含む注文）
type VendorOrderHandler struct {
	uc *usecase.VendorOrderUsecase
}

func NewVendorOrderHandler(uc *usecase.VendorOrderUsecase) *VendorOrderHandler {
	return &VendorOrderHandler{uc: uc}
}

func (h *VendorOrderHandler) RegisterRoutes(e *echo.Echo) {
	vendor := e.Group("/vendor/orders")
	vendor.Use(middleware.RequireLogin())
	vendor.Use(middleware.VendorRoleGuard())

	vendor.GET("", h.list)
	vendor.PATCH("/:id/status", h.updateStatus)
}

func (h *VendorOrderHandler) list(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, limit, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), sellerID, usecase.VendorOrderListInput{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VendorOrderHandler) updateStatus(c echo.Context) error {
	var req usecase.UpdateOrderStatusInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	o, err := h.uc.UpdateStatus(c.Request().Context(), sellerID, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}
