package routes

import (
	"github.com/sohan0019/PlantNet/controllers"
	"github.com/sohan0019/PlantNet/middleware"
	"github.com/sohan0019/PlantNet/models"

	"github.com/gin-gonic/gin"
)

// Controllers bundles the handler sets registered on the router.
type Controllers struct {
	Plants   *controllers.PlantController
	Orders   *controllers.OrderController
	Checkout *controllers.CheckoutController
	Users    *controllers.UserController
	Roles    middleware.RoleLookup
}

// Register wires every route. The webhook endpoint stays outside auth;
// it is authenticated by its provider signature instead.
func Register(r *gin.Engine, c Controllers, jwtSecret []byte) {
	auth := middleware.AuthMiddleware(jwtSecret)
	sellerOnly := middleware.RequireRole(c.Roles, models.RoleSeller)
	adminOnly := middleware.RequireRole(c.Roles, models.RoleAdmin)

	r.GET("/plants", c.Plants.GetPlants)
	r.GET("/plants/:id", c.Plants.GetPlantByID)
	r.POST("/plants", auth, sellerOnly, c.Plants.CreatePlant)
	r.GET("/my-inventory", auth, sellerOnly, c.Plants.GetMyInventory)

	r.GET("/orders", auth, c.Orders.GetMyOrders)
	r.GET("/manage-orders", auth, sellerOnly, c.Orders.GetManageOrders)

	r.POST("/create-checkout-session", auth, c.Checkout.CreateCheckoutSession)
	r.POST("/payment-success", auth, c.Checkout.PaymentSuccess)
	r.POST("/stripe/webhook", c.Checkout.StripeWebhook)

	r.POST("/user", c.Users.UpsertUser)
	r.GET("/user/role", auth, c.Users.GetUserRole)
	r.POST("/become-seller", auth, c.Users.BecomeSeller)
	r.GET("/seller-requests", auth, adminOnly, c.Users.GetSellerRequests)
	r.GET("/users", auth, adminOnly, c.Users.GetUsers)
	r.PATCH("/update-role", auth, adminOnly, c.Users.UpdateRole)
}
