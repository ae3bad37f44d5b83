package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/hostybee/affiliate_backend/config"
	"github.com/hostybee/affiliate_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInsufficientBalance is returned when a conditional debit finds less
// balance than requested at write time.
var ErrInsufficientBalance = errors.New("insufficient balance")

type AffiliateRepository struct {
	collection *mongo.Collection
}

func NewAffiliateRepository(db *mongo.Client) *AffiliateRepository {
	return &AffiliateRepository{
		collection: config.GetCollection(db, "affiliates"),
	}
}

// FindByReferralCode resolves an affiliate by exact referral code match.
func (r *AffiliateRepository) FindByReferralCode(ctx context.Context, code string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.collection.FindOne(ctx, bson.M{"referralCode": code}).Decode(&affiliate)
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

// FindByID looks up an affiliate by its document id.
func (r *AffiliateRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&affiliate)
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

// FindByEmail looks up an affiliate by login email.
func (r *AffiliateRepository) FindByEmail(ctx context.Context, email string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.collection.FindOne(ctx, bson.M{"userEmail": email}).Decode(&affiliate)
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

// CreditBalance atomically adds a commission to the affiliate's
// withdrawable balance and cumulative earnings.
func (r *AffiliateRepository) CreditBalance(ctx context.Context, id primitive.ObjectID, amount float64) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{
			"pendingBalance": amount,
			"totalEarnings":  amount,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	return err
}

// CreditPendingBalance atomically adds to the withdrawable balance only,
// without touching cumulative earnings (batch sweep path).
func (r *AffiliateRepository) CreditPendingBalance(ctx context.Context, id primitive.ObjectID, amount float64) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"pendingBalance": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	return err
}

// DebitBalance conditionally subtracts a withdrawal from the affiliate's
// balance in a single server-side update. The filter guards against the
// read-then-write overdraft race: two concurrent debits cannot both pass
// once the balance is exhausted. Returns ErrInsufficientBalance when the
// balance no longer covers the amount.
func (r *AffiliateRepository) DebitBalance(ctx context.Context, id primitive.ObjectID, amount float64) error {
	res := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "pendingBalance": bson.M{"$gte": amount}},
		bson.M{
			"$inc": bson.M{"pendingBalance": -amount},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrInsufficientBalance
		}
		return err
	}
	return nil
}

// SetTotalReferrals persists the recomputed lifetime referral count and,
// when the count has reached the daily-payout threshold, activates
// recurring daily payouts.
func (r *AffiliateRepository) SetTotalReferrals(ctx context.Context, id primitive.ObjectID, total int, activateDailyPayout bool) error {
	set := bson.M{
		"totalReferrals": total,
		"updatedAt":      time.Now(),
	}
	if activateDailyPayout {
		set["dailyPayoutActive"] = true
		set["status"] = models.AffiliateStatusActive
	}
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// FindDailyPayoutEligible returns all affiliates eligible for the daily
// payout sweep.
func (r *AffiliateRepository) FindDailyPayoutEligible(ctx context.Context) ([]models.Affiliate, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"dailyPayoutActive": true,
		"status":            models.AffiliateStatusActive,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var affiliates []models.Affiliate
	if err := cursor.All(ctx, &affiliates); err != nil {
		return nil, err
	}
	return affiliates, nil
}
