package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hostybee/affiliate_backend/controllers"
	"github.com/hostybee/affiliate_backend/middleware"
	"github.com/hostybee/affiliate_backend/models"
	"github.com/hostybee/affiliate_backend/websocket"
)

// RegisterAffiliateRoutes sets up the authenticated affiliate surface.
func RegisterAffiliateRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	affiliateController := controllers.NewAffiliateController(db)
	payoutController := controllers.NewPayoutController(db, hub)
	referralController := controllers.NewReferralController(db)
	commissionController := controllers.NewCommissionController(db, hub)
	domainController := controllers.NewDomainController(db, hub)
	contentController := controllers.NewContentController(db)

	affiliate := e.Group("/api/affiliate")
	affiliate.Use(middleware.JWTMiddleware())
	affiliate.Use(middleware.RequireRole(models.RoleAffiliate))

	affiliate.GET("/profile", affiliateController.GetProfile)
	affiliate.PUT("/profile", affiliateController.UpdateProfile)
	affiliate.GET("/dashboard", affiliateController.GetDashboard)
	affiliate.GET("/qrcode", affiliateController.GetReferralQRCode)
	affiliate.GET("/referrals", referralController.ListReferrals)
	affiliate.GET("/domains", domainController.ListDomains)
	affiliate.GET("/leads", contentController.ListLeads)
	affiliate.POST("/payouts", payoutController.RequestPayout)
	affiliate.GET("/payouts", payoutController.GetPayoutHistory)

	// Test purchases are open to admins as well; the handler checks
	// ownership itself.
	testPurchase := e.Group("/api/purchase")
	testPurchase.Use(middleware.JWTMiddleware())
	testPurchase.POST("/test", commissionController.TestPurchase)

	// Live notifications
	ws := e.Group("/api/ws")
	ws.Use(middleware.JWTMiddleware())
	ws.GET("", func(c echo.Context) error {
		claims := middleware.GetUserFromToken(c)
		if claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
		}
		return websocket.HandleWebSocket(c, hub, userID)
	})
}
