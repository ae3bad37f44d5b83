package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hostybee/affiliate_backend/controllers"
	"github.com/hostybee/affiliate_backend/websocket"
)

// RegisterPublicRoutes sets up authentication and the unauthenticated
// customer-facing surface: checkout, domains, the package catalog, blog
// and the contact form.
func RegisterPublicRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	authController := controllers.NewAuthController(db)
	commissionController := controllers.NewCommissionController(db, hub)
	domainController := controllers.NewDomainController(db, hub)
	packageController := controllers.NewPackageController(db)
	contentController := controllers.NewContentController(db)

	// Authentication
	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)

	// Checkout
	e.POST("/api/purchase/order", commissionController.CreatePayPalOrder)
	e.POST("/api/purchase/capture", commissionController.CapturePayPalOrder)

	// Domains
	e.GET("/api/domains/availability", domainController.CheckDomainAvailability)
	e.POST("/api/domains/register", domainController.RegisterDomain)

	// Catalog and content
	e.GET("/api/packages", packageController.ListActivePackages)
	e.GET("/api/blog", contentController.ListBlogPosts)
	e.GET("/api/blog/:slug", contentController.GetBlogPost)
	e.POST("/api/messages", contentController.SubmitMessage)
}
