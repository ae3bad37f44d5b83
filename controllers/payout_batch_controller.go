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

	"github.com/hostybee/affiliate_backend/config"
	"github.com/hostybee/affiliate_backend/models"
	"github.com/hostybee/affiliate_backend/repositories"
	"github.com/hostybee/affiliate_backend/utils"
)

// PayoutBatchController runs the daily payout sweep that converts
// accrued commission into withdrawable balance, one installment per
// eligible affiliate per day.
type PayoutBatchController struct {
	db   *mongo.Client
	repo *repositories.AffiliateRepository
}

func NewPayoutBatchController(db *mongo.Client) *PayoutBatchController {
	return &PayoutBatchController{
		db:   db,
		repo: repositories.NewAffiliateRepository(db),
	}
}

// BatchRunResult summarizes one daily sweep.
type BatchRunResult struct {
	RunDate   string  `json:"runDate"`
	Processed int     `json:"processed"`
	Skipped   int     `json:"skipped"`
	Failed    int     `json:"failed"`
	TotalPaid float64 `json:"totalPaid"`
}

// ProcessDailyPayouts triggers the daily sweep manually. The scheduler
// calls RunDailyPayouts directly; this endpoint exists so an admin can
// re-run a day that was missed.
func (bc *PayoutBatchController) ProcessDailyPayouts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := bc.RunDailyPayouts(ctx)
	if err != nil {
		if err == ErrBatchAlreadyRan {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Daily payout batch already ran today",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Daily payout batch failed",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Daily payout batch completed",
		Data:    result,
	})
}

// ErrBatchAlreadyRan is returned when today's sweep was already taken by
// another instance.
var ErrBatchAlreadyRan = fmt.Errorf("daily payout batch already ran")

// RunDailyPayouts executes one sweep. A Redis lock keyed by run date
// keeps concurrent instances from racing; the unique index on
// {affiliateId, runDate} makes the per-affiliate write idempotent even
// if the lock is unavailable.
func (bc *PayoutBatchController) RunDailyPayouts(ctx context.Context) (*BatchRunResult, error) {
	runDate := time.Now().UTC().Format("2006-01-02")

	if redisClient := config.GetRedisClient(); redisClient != nil {
		lockKey := "payouts:run:" + runDate
		acquired, err := redisClient.SetNX(ctx, lockKey, "1", 24*time.Hour).Result()
		if err != nil {
			log.Printf("Payout run lock unavailable, relying on runDate index: %v", err)
		} else if !acquired {
			return nil, ErrBatchAlreadyRan
		}
	}

	affiliates, err := bc.repo.FindDailyPayoutEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible affiliates: %w", err)
	}

	result := &BatchRunResult{RunDate: runDate}
	payoutsColl := config.GetCollection(bc.db, "payouts")

	for _, affiliate := range affiliates {
		total, err := bc.accruedCommission(ctx, affiliate.ID)
		if err != nil {
			log.Printf("Skipping affiliate %s in daily payout run: %v", affiliate.ID.Hex(), err)
			result.Failed++
			continue
		}

		amount := utils.DailyPayoutAmount(total)
		if amount <= 0 {
			result.Skipped++
			continue
		}

		payout := models.Payout{
			ID:          primitive.NewObjectID(),
			AffiliateID: affiliate.ID,
			PayPalEmail: affiliate.PayPalEmail,
			Amount:      amount,
			Status:      models.PayoutStatusPending,
			RunDate:     runDate,
			Note:        "Daily payout installment",
			CreatedAt:   time.Now(),
		}

		if _, err := payoutsColl.InsertOne(ctx, payout); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Already credited for this run date
				result.Skipped++
				continue
			}
			log.Printf("Failed to record daily payout for affiliate %s: %v", affiliate.ID.Hex(), err)
			result.Failed++
			continue
		}

		if err := bc.repo.CreditPendingBalance(ctx, affiliate.ID, amount); err != nil {
			log.Printf("Failed to credit daily payout for affiliate %s: %v", affiliate.ID.Hex(), err)
			result.Failed++
			continue
		}

		result.Processed++
		result.TotalPaid = utils.RoundCents(result.TotalPaid + amount)
	}

	log.Printf("Daily payout run %s: %d processed, %d skipped, %d failed, $%.2f paid",
		runDate, result.Processed, result.Skipped, result.Failed, result.TotalPaid)
	return result, nil
}

// approvedRecurringFilter selects the referrals that accrue in the
// daily sweep. Keyed by affiliateId like the threshold counters, so a
// house-credited referral the admin later approves accrues the same as
// one credited to the affiliate directly.
func approvedRecurringFilter(affiliateID primitive.ObjectID) bson.M {
	return bson.M{
		"affiliateId": affiliateID,
		"status":      models.ReferralStatusApproved,
		"isRecurring": true,
	}
}

// accruedCommission sums the approved recurring commission attributed
// to an affiliate. The daily installment is derived from this monthly
// total.
func (bc *PayoutBatchController) accruedCommission(ctx context.Context, affiliateID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: approvedRecurringFilter(affiliateID)}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$commissionAmount"},
		}}},
	}

	cursor, err := config.GetCollection(bc.db, "referrals").Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("commission aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode commission total: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// StartPayoutScheduler runs the daily sweep once a day in the
// background until the context is cancelled.
func (bc *PayoutBatchController) StartPayoutScheduler(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if _, err := bc.RunDailyPayouts(runCtx); err != nil && err != ErrBatchAlreadyRan {
				log.Printf("Scheduled daily payout run failed: %v", err)
			}
			cancel()
		}
	}
}
