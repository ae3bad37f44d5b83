package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hostybee/affiliate_backend/controllers"
	"github.com/hostybee/affiliate_backend/middleware"
	"github.com/hostybee/affiliate_backend/websocket"
)

// RegisterAdminRoutes sets up the admin panel API.
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	affiliateController := controllers.NewAffiliateController(db)
	payoutController := controllers.NewPayoutController(db, hub)
	batchController := controllers.NewPayoutBatchController(db)
	referralController := controllers.NewReferralController(db)
	packageController := controllers.NewPackageController(db)
	domainController := controllers.NewDomainController(db, hub)
	contentController := controllers.NewContentController(db)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireAdmin())

	// Affiliate management
	admin.GET("/affiliates", affiliateController.ListAffiliates)
	admin.PUT("/affiliates/:id/status", affiliateController.SetAffiliateStatus)
	admin.PUT("/affiliates/:id/package-cap", packageController.SetAffiliatePackageCap)

	// Referral ledger
	admin.GET("/referrals", referralController.ListReferrals)
	admin.PUT("/referrals/:id/status", referralController.UpdateReferralStatus)

	// Payouts
	admin.GET("/payouts/pending", payoutController.GetPendingPayouts)
	admin.PUT("/payouts/:id", payoutController.ProcessPayoutRequest)
	admin.POST("/payouts/run-daily", batchController.ProcessDailyPayouts)

	// Catalog
	admin.POST("/packages", packageController.CreatePackage)
	admin.PUT("/packages/:id", packageController.UpdatePackage)
	admin.DELETE("/packages/:id", packageController.DeletePackage)

	// Domains, leads, inbox, blog
	admin.GET("/domains", domainController.ListDomains)
	admin.GET("/leads", contentController.ListLeads)
	admin.GET("/messages", contentController.ListMessages)
	admin.PUT("/messages/:id/read", contentController.MarkMessageRead)
	admin.GET("/blog", contentController.ListBlogPosts)
	admin.POST("/blog", contentController.CreateBlogPost)
	admin.PUT("/blog/:id", contentController.UpdateBlogPost)
	admin.DELETE("/blog/:id", contentController.DeleteBlogPost)
}
