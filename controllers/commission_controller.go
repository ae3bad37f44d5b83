package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hostybee/affiliate_backend/config"
	"github.com/hostybee/affiliate_backend/middleware"
	"github.com/hostybee/affiliate_backend/models"
	"github.com/hostybee/affiliate_backend/repositories"
	"github.com/hostybee/affiliate_backend/services"
	"github.com/hostybee/affiliate_backend/utils"
	"github.com/hostybee/affiliate_backend/websocket"
)

// CommissionController owns the purchase flows that feed the referral
// ledger: PayPal checkout and the non-production test purchase.
type CommissionController struct {
	db     *mongo.Client
	repo   *repositories.AffiliateRepository
	paypal *services.PayPalService
	hub    *websocket.Hub
}

func NewCommissionController(db *mongo.Client, hub *websocket.Hub) *CommissionController {
	return &CommissionController{
		db:     db,
		repo:   repositories.NewAffiliateRepository(db),
		paypal: services.NewPayPalService(),
		hub:    hub,
	}
}

// saleEvent carries everything attributeSale needs to record one
// completed purchase.
type saleEvent struct {
	Affiliate     *models.Affiliate // nil when no referral code matched
	Channel       utils.SaleChannel
	PackageID     primitive.ObjectID
	PackageName   string
	SaleAmount    float64
	IsRecurring   bool
	BillingCycle  string
	CustomerEmail string
	CustomerName  string
	Source        string
}

// attributeSale records the referral ledger entry for a completed sale
// and applies the affiliate-side mutations. The recipient decision is
// the cumulative rule: an affiliate with fewer than three approved
// referrals feeds the house; from the third approved referral on, sales
// are credited to the affiliate directly.
func attributeSale(ctx context.Context, db *mongo.Client, repo *repositories.AffiliateRepository, hub *websocket.Hub, event saleEvent) (*models.Referral, error) {
	referralsColl := config.GetCollection(db, "referrals")

	tier := models.TierBronze
	recipient := models.HouseRecipient()
	status := models.ReferralStatusPending

	if event.Affiliate != nil {
		tier = event.Affiliate.Tier

		approvedCount, err := referralsColl.CountDocuments(ctx, bson.M{
			"affiliateId": event.Affiliate.ID,
			"status":      models.ReferralStatusApproved,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to count approved referrals: %w", err)
		}
		recipient, status = utils.ResolveRecipient(event.Affiliate.ID, approvedCount)
	}

	commission := utils.ComputeCommission(event.SaleAmount, event.Channel, tier)

	referral := models.Referral{
		ID:               primitive.NewObjectID(),
		PayoutRecipient:  recipient.WireID(),
		CustomerEmail:    event.CustomerEmail,
		CustomerName:     event.CustomerName,
		PackageID:        event.PackageID,
		PackageName:      event.PackageName,
		SaleAmount:       event.SaleAmount,
		CommissionAmount: commission,
		Status:           status,
		IsRecurring:      event.IsRecurring,
		BillingCycle:     event.BillingCycle,
		ReferralSource:   event.Source,
		CreatedAt:        time.Now(),
	}
	if event.Affiliate != nil {
		referral.AffiliateID = event.Affiliate.ID
	}

	if _, err := referralsColl.InsertOne(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to record referral: %w", err)
	}

	if event.Affiliate != nil {
		if recipient.House {
			// House-credited sale: refresh the lifetime referral count
			// and unlock daily payouts at the threshold.
			total, err := referralsColl.CountDocuments(ctx, bson.M{"affiliateId": event.Affiliate.ID})
			if err != nil {
				return nil, fmt.Errorf("failed to count referrals: %w", err)
			}
			activate := utils.ShouldActivateDailyPayout(total, event.Affiliate.DailyPayoutActive)
			if err := repo.SetTotalReferrals(ctx, event.Affiliate.ID, int(total), activate); err != nil {
				return nil, fmt.Errorf("failed to update affiliate counts: %w", err)
			}
		} else if event.Channel == utils.ChannelDomain {
			// Domain commissions post to the withdrawable balance
			// immediately; the other channels accrue through the daily
			// sweep.
			if err := repo.CreditBalance(ctx, event.Affiliate.ID, commission); err != nil {
				return nil, fmt.Errorf("failed to credit affiliate balance: %w", err)
			}
		}

		// A resolved referral code always produces a lead, even when the
		// house took the sale.
		lead := models.Lead{
			ID:            primitive.NewObjectID(),
			AffiliateID:   event.Affiliate.ID,
			CustomerEmail: event.CustomerEmail,
			CustomerName:  event.CustomerName,
			Source:        event.Source,
			CreatedAt:     time.Now(),
		}
		if _, err := config.GetCollection(db, "leads").InsertOne(ctx, lead); err != nil {
			log.Printf("Failed to record lead for affiliate %s: %v", event.Affiliate.ID.Hex(), err)
		}

		if hub != nil && !recipient.House {
			// Best effort; the affiliate may simply not be connected
			_ = hub.SendToUser(event.Affiliate.ID, websocket.Notification{
				Type:    websocket.NotificationTypeReferralCredited,
				Message: fmt.Sprintf("You earned a $%.2f commission on %s", commission, event.PackageName),
				Data:    referral,
			})
		}
	}

	return &referral, nil
}

// CreatePayPalOrder starts a checkout for a hosting package and returns
// the buyer approval URL.
func (cc *CommissionController) CreatePayPalOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	pkg, err := cc.findPackage(ctx, req.PackageID)
	if err != nil {
		return packageLookupError(c, err)
	}

	siteURL := os.Getenv("SITE_URL")
	returnURL := siteURL + "/checkout/success"
	cancelURL := siteURL + "/checkout/cancel"

	orderID, approveURL, err := cc.paypal.CreateOrder(pkg.Price, "USD", pkg.Name, returnURL, cancelURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create payment order",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Order created successfully",
		Data: map[string]interface{}{
			"orderId":    orderID,
			"approveUrl": approveURL,
		},
	})
}

// CapturePayPalOrder captures an approved order and, on a COMPLETED
// capture, records the attributed referral. No referral is written when
// the capture fails, so the ledger never holds an uncaptured sale.
func (cc *CommissionController) CapturePayPalOrder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var req models.CaptureOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	pkg, err := cc.findPackage(ctx, req.PackageID)
	if err != nil {
		return packageLookupError(c, err)
	}

	captureStatus, err := cc.paypal.CaptureOrder(req.OrderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Payment capture failed",
			Data:    err.Error(),
		})
	}
	if captureStatus != services.CaptureCompleted {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Payment was not completed",
			Data:    map[string]string{"captureStatus": captureStatus},
		})
	}

	affiliate := cc.resolveAffiliate(ctx, req.ReferralCode)

	billingCycle := ""
	if pkg.RecurringCommission {
		billingCycle = "monthly"
	}

	referral, err := attributeSale(ctx, cc.db, cc.repo, cc.hub, saleEvent{
		Affiliate:     affiliate,
		Channel:       utils.ChannelPayPal,
		PackageID:     pkg.ID,
		PackageName:   pkg.Name,
		SaleAmount:    pkg.Price,
		IsRecurring:   pkg.RecurringCommission,
		BillingCycle:  billingCycle,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Source:        "paypal",
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record sale",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment captured and sale recorded",
		Data:    referral,
	})
}

// TestPurchase fabricates a referral for a synthetic customer without a
// payment call so an affiliate can verify their funnel. Disabled in
// production.
func (cc *CommissionController) TestPurchase(c echo.Context) error {
	if os.Getenv("ENV") == "production" {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Test purchases are disabled in production",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	var req models.TestPurchaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Data:    err.Error(),
		})
	}

	affiliate, err := cc.repo.FindByReferralCode(ctx, req.ReferralCode)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Referral code not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	// Only the owning affiliate or an admin may trigger a test purchase
	if claims.Role != models.RoleAdmin && claims.Email != affiliate.UserEmail {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only run test purchases against your own referral code",
		})
	}

	pkg, err := cc.findPackage(ctx, req.PackageID)
	if err != nil {
		return packageLookupError(c, err)
	}

	customerEmail := req.CustomerEmail
	if customerEmail == "" {
		customerEmail = "test-customer@hostybee.com"
	}
	customerName := req.CustomerName
	if customerName == "" {
		customerName = "Test Customer"
	}

	referral, err := attributeSale(ctx, cc.db, cc.repo, cc.hub, saleEvent{
		Affiliate:     affiliate,
		Channel:       utils.ChannelTest,
		PackageID:     pkg.ID,
		PackageName:   pkg.Name,
		SaleAmount:    pkg.Price,
		IsRecurring:   pkg.RecurringCommission,
		CustomerEmail: customerEmail,
		CustomerName:  customerName,
		Source:        "test",
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record test sale",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Test purchase recorded",
		Data:    referral,
	})
}

// resolveAffiliate does an exact-match referral code lookup. A missing
// or unknown code is not an error; the sale just goes to the house.
func (cc *CommissionController) resolveAffiliate(ctx context.Context, referralCode string) *models.Affiliate {
	if referralCode == "" {
		return nil
	}
	affiliate, err := cc.repo.FindByReferralCode(ctx, referralCode)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("Referral code lookup failed: %v", err)
		}
		return nil
	}
	return affiliate
}

func (cc *CommissionController) findPackage(ctx context.Context, packageID string) (*models.HostingPackage, error) {
	objID, err := primitive.ObjectIDFromHex(packageID)
	if err != nil {
		return nil, errInvalidPackageID
	}

	var pkg models.HostingPackage
	err = config.GetCollection(cc.db, "packages").FindOne(ctx, bson.M{"_id": objID}).Decode(&pkg)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

var errInvalidPackageID = fmt.Errorf("invalid package id")

func packageLookupError(c echo.Context, err error) error {
	if err == errInvalidPackageID {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID format",
		})
	}
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Package not found",
		})
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Database error",
		Data:    err.Error(),
	})
}
