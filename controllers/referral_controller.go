package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hostybee/affiliate_backend/config"
	"github.com/hostybee/affiliate_backend/models"
	"github.com/hostybee/affiliate_backend/repositories"
	"github.com/hostybee/affiliate_backend/utils"
)

// ReferralController exposes the referral ledger and the admin status
// transitions on it.
type ReferralController struct {
	db   *mongo.Client
	repo *repositories.AffiliateRepository
}

func NewReferralController(db *mongo.Client) *ReferralController {
	return &ReferralController{
		db:   db,
		repo: repositories.NewAffiliateRepository(db),
	}
}

// ListReferrals returns ledger entries, newest first. Admins see all;
// affiliates see only sales attributed to their code.
func (rc *ReferralController) ListReferrals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if claims := getAffiliateClaims(c); claims != nil {
		affiliateID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID",
			})
		}
		filter["affiliateId"] = affiliateID
	}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200)
	cursor, err := config.GetCollection(rc.db, "referrals").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve referrals",
		})
	}
	defer cursor.Close(ctx)

	var referrals []models.Referral
	if err := cursor.All(ctx, &referrals); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode referrals",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referrals retrieved successfully",
		Data:    referrals,
	})
}

// UpdateReferralStatus moves a referral through its lifecycle. Approving
// the third referral of an affiliate unlocks their daily payouts. Admin
// only.
func (rc *ReferralController) UpdateReferralStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	referralID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid referral ID format",
		})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	referralsColl := config.GetCollection(rc.db, "referrals")

	var referral models.Referral
	err = referralsColl.FindOne(ctx, bson.M{"_id": referralID}).Decode(&referral)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Referral not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find referral",
		})
	}

	if !models.CanTransitionReferral(referral.Status, req.Status) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Cannot move referral from %s to %s", referral.Status, req.Status),
		})
	}

	res, err := referralsColl.UpdateOne(ctx,
		bson.M{"_id": referralID, "status": referral.Status},
		bson.M{"$set": bson.M{"status": req.Status}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update referral",
		})
	}
	if res.ModifiedCount == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Referral was already updated",
		})
	}

	if req.Status == models.ReferralStatusApproved && !referral.AffiliateID.IsZero() {
		if err := rc.refreshAffiliateProgress(ctx, referral.AffiliateID); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Referral approved but affiliate update failed",
				Data:    err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral updated successfully",
	})
}

// refreshAffiliateProgress recounts approved referrals after an approval
// and activates daily payouts once the threshold is reached.
func (rc *ReferralController) refreshAffiliateProgress(ctx context.Context, affiliateID primitive.ObjectID) error {
	approved, err := config.GetCollection(rc.db, "referrals").CountDocuments(ctx, bson.M{
		"affiliateId": affiliateID,
		"status":      models.ReferralStatusApproved,
	})
	if err != nil {
		return fmt.Errorf("failed to count approved referrals: %w", err)
	}

	activate := utils.ShouldActivateDailyPayout(approved, false)
	return rc.repo.SetTotalReferrals(ctx, affiliateID, int(approved), activate)
}
