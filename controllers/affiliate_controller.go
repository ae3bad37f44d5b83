package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hostybee/affiliate_backend/config"
	"github.com/hostybee/affiliate_backend/middleware"
	"github.com/hostybee/affiliate_backend/models"
	"github.com/hostybee/affiliate_backend/repositories"
	"github.com/hostybee/affiliate_backend/utils"
)

// AffiliateController serves the affiliate-facing profile and dashboard
// plus the admin-side account management.
type AffiliateController struct {
	db   *mongo.Client
	repo *repositories.AffiliateRepository
}

func NewAffiliateController(db *mongo.Client) *AffiliateController {
	return &AffiliateController{
		db:   db,
		repo: repositories.NewAffiliateRepository(db),
	}
}

// getAffiliateClaims returns the token claims when the caller is an
// affiliate, nil for admins and unauthenticated requests. Handlers use
// it to scope reads to the caller's own records.
func getAffiliateClaims(c echo.Context) *middleware.JwtCustomClaims {
	claims := middleware.GetUserFromToken(c)
	if claims == nil || claims.Role != models.RoleAffiliate {
		return nil
	}
	return claims
}

// getAdminClaims returns the token claims when the caller is an admin,
// nil otherwise.
func getAdminClaims(c echo.Context) *middleware.JwtCustomClaims {
	claims := middleware.GetUserFromToken(c)
	if claims == nil || claims.Role != models.RoleAdmin {
		return nil
	}
	return claims
}

// GetProfile returns the caller's affiliate record.
func (ac *AffiliateController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	affiliate, errResp := ac.callerAffiliate(ctx, c)
	if affiliate == nil {
		return errResp
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    affiliate,
	})
}

// UpdateProfile lets an affiliate change their name and PayPal email.
func (ac *AffiliateController) UpdateProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	affiliate, errResp := ac.callerAffiliate(ctx, c)
	if affiliate == nil {
		return errResp
	}

	var req struct {
		FullName    string `json:"fullName,omitempty"`
		PayPalEmail string `json:"paypalEmail,omitempty" validate:"omitempty,email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.FullName != "" {
		update["fullName"] = req.FullName
	}
	if req.PayPalEmail != "" {
		update["paypalEmail"] = req.PayPalEmail
	}

	_, err := config.GetCollection(ac.db, "affiliates").UpdateOne(ctx,
		bson.M{"_id": affiliate.ID}, bson.M{"$set": update})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated successfully",
	})
}

// GetDashboard returns the affiliate's earnings summary and recent
// referral activity.
func (ac *AffiliateController) GetDashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	affiliate, errResp := ac.callerAffiliate(ctx, c)
	if affiliate == nil {
		return errResp
	}

	referralsColl := config.GetCollection(ac.db, "referrals")

	totalReferrals, err := referralsColl.CountDocuments(ctx, bson.M{"affiliateId": affiliate.ID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count referrals",
		})
	}
	approvedReferrals, err := referralsColl.CountDocuments(ctx, bson.M{
		"affiliateId": affiliate.ID,
		"status":      models.ReferralStatusApproved,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count referrals",
		})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(10)
	cursor, err := referralsColl.Find(ctx, bson.M{"affiliateId": affiliate.ID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve referrals",
		})
	}
	defer cursor.Close(ctx)

	var recentReferrals []models.Referral
	if err := cursor.All(ctx, &recentReferrals); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode referrals",
		})
	}

	remaining := utils.ApprovedReferralThreshold - approvedReferrals
	if remaining < 0 {
		remaining = 0
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard retrieved successfully",
		Data: map[string]interface{}{
			"pendingBalance":      affiliate.PendingBalance,
			"totalEarnings":       affiliate.TotalEarnings,
			"totalReferrals":      totalReferrals,
			"approvedReferrals":   approvedReferrals,
			"referralsToUnlock":   remaining,
			"dailyPayoutActive":   affiliate.DailyPayoutActive,
			"tier":                affiliate.Tier,
			"referralCode":        affiliate.ReferralCode,
			"referralLink":        utils.ReferralLink(affiliate.ReferralCode),
			"recentReferrals":     recentReferrals,
			"dailyPayoutEstimate": utils.DailyPayoutAmount(affiliate.TotalEarnings),
		},
	})
}

// GetReferralQRCode returns a QR code image for the affiliate's signup
// link as a data URI.
func (ac *AffiliateController) GetReferralQRCode(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	affiliate, errResp := ac.callerAffiliate(ctx, c)
	if affiliate == nil {
		return errResp
	}

	qrCode, err := utils.GenerateReferralQRCode(affiliate.ReferralCode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate QR code",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "QR code generated successfully",
		Data: map[string]string{
			"referralCode": affiliate.ReferralCode,
			"referralLink": utils.ReferralLink(affiliate.ReferralCode),
			"qrCode":       qrCode,
		},
	})
}

// ListAffiliates returns all affiliates for the admin panel, optionally
// filtered by status.
func (ac *AffiliateController) ListAffiliates(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection(ac.db, "affiliates").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve affiliates",
		})
	}
	defer cursor.Close(ctx)

	var affiliates []models.Affiliate
	if err := cursor.All(ctx, &affiliates); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode affiliates",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Affiliates retrieved successfully",
		Data:    affiliates,
	})
}

// SetAffiliateStatus moves an affiliate between pending, approved,
// active and suspended. Admin only.
func (ac *AffiliateController) SetAffiliateStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	affiliateID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid affiliate ID format",
		})
	}

	var req struct {
		Status string `json:"status"`
		Tier   string `json:"tier,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	switch req.Status {
	case models.AffiliateStatusPending, models.AffiliateStatusApproved,
		models.AffiliateStatusActive, models.AffiliateStatusSuspended:
	default:
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown affiliate status",
		})
	}

	update := bson.M{"status": req.Status, "updatedAt": time.Now()}
	if req.Tier != "" {
		switch req.Tier {
		case models.TierBronze, models.TierSilver, models.TierGold, models.TierPlatinum:
			update["tier"] = req.Tier
		default:
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown affiliate tier",
			})
		}
	}

	res, err := config.GetCollection(ac.db, "affiliates").UpdateOne(ctx,
		bson.M{"_id": affiliateID}, bson.M{"$set": update})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update affiliate",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Affiliate not found",
		})
	}

	if affiliate, err := ac.repo.FindByID(ctx, affiliateID); err == nil {
		subject := fmt.Sprintf("Account Status Update: %s", req.Status)
		body := fmt.Sprintf("Dear %s,\n\nYour affiliate account status is now: %s.",
			affiliate.FullName, req.Status)
		if err := utils.SendNotificationEmail(affiliate.UserEmail, subject, body); err != nil {
			log.Printf("Failed to send status notification: %v", err)
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Affiliate updated successfully",
	})
}

// callerAffiliate loads the affiliate record for the authenticated
// caller, writing the error response itself when that fails.
func (ac *AffiliateController) callerAffiliate(ctx context.Context, c echo.Context) (*models.Affiliate, error) {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return nil, c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	affiliateID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	affiliate, err := ac.repo.FindByID(ctx, affiliateID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Affiliate not found",
			})
		}
		return nil, c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	return affiliate, nil
}
