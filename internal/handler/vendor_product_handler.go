package handler

import (
	"net/http"

	"github.com/djjoel12/talksellr/internal/middleware"
	"github.com/djjoel12/talksellr/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /vendor/products（自分の商品の管理）
type VendorProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewVendorProductHandler(uc *usecase.ProductUsecase) *VendorProductHandler {
	return &VendorProductHandler{uc: uc}
}

func (h *VendorProductHandler) RegisterRoutes(e *echo.Echo) {
	vendor := e.Group("/vendor/products")

	vendor.Use(middleware.RequireLogin())
	vendor.Use(middleware.VendorRoleGuard())

	vendor.GET("", h.listMine)
	vendor.POST("", h.createProduct)
	vendor.PUT("/:id", h.updateProduct)
	vendor.DELETE("/:id", h.deleteProduct)
}

func (h *VendorProductHandler) listMine(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, limit, err := parsePage(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListMyProducts(c.Request().Context(), sellerID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *VendorProductHandler) createProduct(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.CreateProduct(c.Request().Context(), sellerID, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *VendorProductHandler) updateProduct(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	p, err := h.uc.UpdateProduct(c.Request().Context(), sellerID, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *VendorProductHandler) deleteProduct(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), sellerID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
