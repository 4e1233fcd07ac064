package server

import (
	"github.com/djjoel12/talksellr/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	Shop          *handler.ShopHandler
	VendorProduct *handler.VendorProductHandler
	Cart          *handler.CartHandler
	Checkout      *handler.CheckoutHandler
	VendorOrder   *handler.VendorOrderHandler
	VendorAudit   *handler.VendorAuditHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers) {
	h.Health.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Shop.RegisterRoutes(e)
	h.VendorProduct.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Checkout.RegisterRoutes(e)
	h.VendorOrder.RegisterRoutes(e)
	h.VendorAudit.RegisterRoutes(e)
}
