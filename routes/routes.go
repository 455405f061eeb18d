package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tharunramasamy/quickpickapp/controllers"
	"github.com/tharunramasamy/quickpickapp/middleware"
	"github.com/tharunramasamy/quickpickapp/models"
	"github.com/tharunramasamy/quickpickapp/services"
)

// SetupRoutes wires every endpoint onto the router. Auth endpoints are
// rate limited per IP; everything under the authenticated group requires
// a valid bearer token, with role checks per route.
func SetupRoutes(
	router *gin.Engine,
	tokens *services.TokenService,
	auth *controllers.AuthController,
	products *controllers.ProductController,
	orders *controllers.OrderController,
	realtime *controllers.RealtimeController,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	authLimit := middleware.RateLimitMiddleware(rate.Limit(5), 10)
	router.POST("/signup", authLimit, auth.Signup)
	router.POST("/login", authLimit, auth.Login)

	router.GET("/products", products.List)

	authenticated := router.Group("/")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		authenticated.POST("/orders", middleware.RequireRole(models.RoleCustomer), orders.Create)
		authenticated.GET("/orders", orders.List)
		authenticated.GET("/orders/:id/status", orders.Status)

		authenticated.PUT("/orders/:id/pick", middleware.RequireRole(models.RoleInventoryStaff), orders.Pick)
		authenticated.POST("/orders/:id/assign", middleware.RequireRole(models.RoleInventoryStaff), orders.Assign)

		authenticated.PUT("/orders/:id/out",
			middleware.RequireRole(models.RoleDeliveryPartner, models.RoleInventoryStaff), orders.Out)
		authenticated.PUT("/orders/:id/deliver",
			middleware.RequireRole(models.RoleDeliveryPartner, models.RoleInventoryStaff), orders.Deliver)

		authenticated.PUT("/partners/status", middleware.RequireRole(models.RoleDeliveryPartner), orders.PartnerStatus)

		authenticated.GET("/realtime/negotiate", realtime.Negotiate)
	}
}
