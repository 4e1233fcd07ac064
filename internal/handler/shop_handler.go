package handler

import (
	"net/http"

	"github.com/djjoel12/talksellr/internal/middleware"
	"github.com/djjoel12/talksellr/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /shops/:slug（公開）と /vendor/shop（販売者）
type ShopHandler struct {
	uc *usecase.ShopUsecase
}

// DI
func NewShopHandler(uc *usecase.ShopUsecase) *ShopHandler {
	return &ShopHandler{uc: uc}
}

func (h *ShopHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/shops/:slug", h.page)

	vendor := e.Group("/vendor/shop")
	vendor.Use(middleware.RequireLogin())
	vendor.Use(middleware.VendorRoleGuard())

	vendor.GET("", h.getMine)
	vendor.POST("", h.create)
	vendor.PUT("", h.update)
}

func (h *ShopHandler) page(c echo.Context) error {
	out, err := h.uc.GetShopPage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ShopHandler) getMine(c echo.Context) error {
	ownerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	s, err := h.uc.GetMyShop(c.Request().Context(), ownerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ShopHandler) create(c echo.Context) error {
	var req usecase.ShopInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ownerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	s, err := h.uc.CreateShop(c.Request().Context(), ownerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *ShopHandler) update(c echo.Context) error {
	var req usecase.ShopInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ownerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	s, err := h.uc.UpdateMyShop(c.Request().Context(), ownerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
