package controllers

import (
	"net/http"

	"github.com/sohan0019/PlantNet/middleware"
	"github.com/sohan0019/PlantNet/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderController serves order history endpoints. Orders are only ever
// created by settlement, never through these routes.
type OrderController struct {
	Orders repository.OrderRepository
	Logger *zap.Logger
}

// GetMyOrders returns the authenticated customer's orders.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	email := middleware.GetEmail(c)
	orders, err := oc.Orders.FindByCustomerEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, oc.Logger, http.StatusInternalServerError, "failed to fetch orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetManageOrders returns orders for the authenticated seller's plants.
func (oc *OrderController) GetManageOrders(c *gin.Context) {
	email := middleware.GetEmail(c)
	orders, err := oc.Orders.FindBySellerEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, oc.Logger, http.StatusInternalServerError, "failed to fetch orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
