package handler

import (
	"net/http"

	"github.com/djjoel12/talksellr/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/checkout", h.create)
}

func (h *CheckoutHandler) create(c echo.Context) error {
	var req usecase.PlaceOrderInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	scope, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）
	req.IdempotencyKey = c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.uc.PlaceOrder(c.Request().Context(), scope, req)
	if err != nil {
		return writeError(c, err)
	}

	if out.Replayed {
		return c.JSON(http.StatusOK, out)
	}
	return c.JSON(http.StatusCreated, out)
}
