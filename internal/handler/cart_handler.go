package handler

import (
	"net/http"

	"github.com/djjoel12/talksellr/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP。ログイン不要（セッションのカート）
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// /cart, /cart/lines, /cart/lines/:productId を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")

	g.GET("", h.getCart)
	g.POST("/lines", h.addLine)
	g.DELETE("/lines/:productId", h.deleteLine)
}

func (h *CartHandler) getCart(c echo.Context) error {
	scope, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addLine(c echo.Context) error {
	var req usecase.AddCartInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	scope, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	out, err := h.uc.AddToCart(c.Request().Context(), scope, req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteLine(c echo.Context) error {
	scope, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	out, err := h.uc.RemoveFromCart(c.Request().Context(), scope, c.Param("productId"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
