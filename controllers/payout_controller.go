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
	"github.com/hostybee/affiliate_backend/websocket"
)

// PayoutController handles the affiliate withdrawal workflow: the
// affiliate-side request and the admin-side approve/reject/complete
// transitions.
type PayoutController struct {
	db   *mongo.Client
	repo *repositories.AffiliateRepository
	hub  *websocket.Hub
}

func NewPayoutController(db *mongo.Client, hub *websocket.Hub) *PayoutController {
	return &PayoutController{
		db:   db,
		repo: repositories.NewAffiliateRepository(db),
		hub:  hub,
	}
}

// RequestPayout creates a pending payout against the caller's available
// balance. The debit is a single conditional update, so two concurrent
// requests cannot overdraw the account.
func (pc *PayoutController) RequestPayout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	affiliateID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.PayoutRequestBody
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

	affiliate, err := pc.repo.FindByID(ctx, affiliateID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Affiliate not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	// The token must belong to the account being drawn from
	if affiliate.UserEmail != claims.Email {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You can only request payouts for your own account",
		})
	}

	if reason := utils.ValidatePayoutAmount(req.Amount, affiliate.PendingBalance); reason != "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: reason,
		})
	}

	paypalEmail := req.PayPalEmail
	if paypalEmail == "" {
		paypalEmail = affiliate.PayPalEmail
	}
	if paypalEmail == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "No PayPal email on file; provide one with the request",
		})
	}

	// Conditional debit: fails cleanly if a concurrent request already
	// drained the balance between the check above and this write.
	if err := pc.repo.DebitBalance(ctx, affiliateID, req.Amount); err != nil {
		if err == repositories.ErrInsufficientBalance {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Requested amount exceeds available balance",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reserve payout amount",
			Data:    err.Error(),
		})
	}

	payout := models.Payout{
		ID:          primitive.NewObjectID(),
		AffiliateID: affiliateID,
		PayPalEmail: paypalEmail,
		Amount:      req.Amount,
		Status:      models.PayoutStatusPending,
		Note:        req.UserNote,
		CreatedAt:   time.Now(),
	}
	if _, err := config.GetCollection(pc.db, "payouts").InsertOne(ctx, payout); err != nil {
		// Roll the reservation back so the balance is not stranded
		if creditErr := pc.repo.CreditPendingBalance(ctx, affiliateID, req.Amount); creditErr != nil {
			log.Printf("Failed to restore balance after payout insert error: %v", creditErr)
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create payout request",
			Data:    err.Error(),
		})
	}

	utils.NotifyAdmin("New Payout Request",
		fmt.Sprintf("Affiliate %s (%s) requested a payout of $%.2f to %s.\nRequested At: %s\n\nPlease review and approve or reject this request.",
			affiliate.FullName, affiliate.UserEmail, req.Amount, paypalEmail,
			payout.CreatedAt.Format("2006-01-02 15:04:05")))

	if pc.hub != nil {
		_ = pc.hub.SendToUser(affiliateID, websocket.Notification{
			Type:    websocket.NotificationTypePayoutCreated,
			Message: fmt.Sprintf("Your payout request for $%.2f was submitted", req.Amount),
			Data:    payout,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payout request submitted successfully. The requested amount has been reserved from your available balance.",
		Data: map[string]interface{}{
			"payout":           payout,
			"availableBalance": affiliate.PendingBalance - req.Amount,
		},
	})
}

// ProcessPayoutRequest applies an admin action to a payout. Actions map
// to target states (approve -> processing, reject -> failed, complete ->
// completed) and only transitions allowed by the payout state machine go
// through. Rejection restores the reserved amount to the affiliate.
func (pc *PayoutController) ProcessPayoutRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil || claims.Role != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only admins can process payout requests",
		})
	}

	payoutID := c.Param("id")
	payoutObjectID, err := primitive.ObjectIDFromHex(payoutID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payout ID format",
		})
	}

	var actionReq struct {
		Action    string `json:"action"`
		AdminNote string `json:"adminNote,omitempty"`
	}
	if err := c.Bind(&actionReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	targetStatus := models.PayoutActionStatus(actionReq.Action)
	if targetStatus == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown action; expected approve, reject or complete",
		})
	}

	if actionReq.Action == "reject" && actionReq.AdminNote == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Admin note is required for rejection",
		})
	}

	payoutsColl := config.GetCollection(pc.db, "payouts")
	var payout models.Payout
	err = payoutsColl.FindOne(ctx, bson.M{"_id": payoutObjectID}).Decode(&payout)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Payout request not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find payout request",
		})
	}

	if !models.CanTransitionPayout(payout.Status, targetStatus) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Cannot move payout from %s to %s", payout.Status, targetStatus),
		})
	}

	adminObjectID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid admin ID",
		})
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"status":      targetStatus,
			"adminId":     adminObjectID,
			"adminNote":   actionReq.AdminNote,
			"processedAt": now,
		},
	}
	// Guard the status in the filter so a concurrent admin action on the
	// same payout cannot double-apply.
	res, err := payoutsColl.UpdateOne(ctx, bson.M{"_id": payoutObjectID, "status": payout.Status}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update payout request",
		})
	}
	if res.ModifiedCount == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Payout request was already processed",
		})
	}

	if refund := payoutRefundAmount(payout, targetStatus); refund > 0 {
		if err := pc.repo.CreditPendingBalance(ctx, payout.AffiliateID, refund); err != nil {
			log.Printf("Failed to restore balance for rejected payout %s: %v", payout.ID.Hex(), err)
		}
	}

	pc.notifyAffiliate(ctx, payout, targetStatus, actionReq.AdminNote)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payout request updated successfully",
		Data: map[string]interface{}{
			"payoutId":    payout.ID,
			"status":      targetStatus,
			"processedAt": now,
		},
	})
}

// payoutRefundAmount returns how much of the reserved balance a
// transition hands back to the affiliate. Only a failed payout reverses
// the original debit; completing one pays it out instead.
func payoutRefundAmount(payout models.Payout, targetStatus string) float64 {
	if targetStatus == models.PayoutStatusFailed {
		return payout.Amount
	}
	return 0
}

// GetPayoutHistory returns the caller's payouts, newest first.
func (pc *PayoutController) GetPayoutHistory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	affiliateID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := config.GetCollection(pc.db, "payouts").Find(ctx, bson.M{"affiliateId": affiliateID}, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve payouts",
		})
	}
	defer cursor.Close(ctx)

	var payouts []models.Payout
	if err := cursor.All(ctx, &payouts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payouts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payout history retrieved successfully",
		Data:    payouts,
	})
}

// GetPendingPayouts returns all pending payout requests with affiliate
// details, for the admin review queue.
func (pc *PayoutController) GetPendingPayouts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims := middleware.GetUserFromToken(c)
	if claims == nil || claims.Role != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only admins can access this endpoint",
		})
	}

	cursor, err := config.GetCollection(pc.db, "payouts").Find(ctx, bson.M{"status": models.PayoutStatusPending})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve payout requests",
		})
	}
	defer cursor.Close(ctx)

	var payouts []models.Payout
	if err := cursor.All(ctx, &payouts); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payout requests",
		})
	}

	var enriched []map[string]interface{}
	for _, payout := range payouts {
		var affiliateDetails map[string]interface{}
		if affiliate, err := pc.repo.FindByID(ctx, payout.AffiliateID); err == nil {
			affiliateDetails = map[string]interface{}{
				"id":       affiliate.ID,
				"fullName": affiliate.FullName,
				"email":    affiliate.UserEmail,
				"tier":     affiliate.Tier,
			}
		}
		enriched = append(enriched, map[string]interface{}{
			"payout":    payout,
			"affiliate": affiliateDetails,
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending payout requests retrieved successfully",
		Data:    enriched,
	})
}

func (pc *PayoutController) notifyAffiliate(ctx context.Context, payout models.Payout, status, adminNote string) {
	affiliate, err := pc.repo.FindByID(ctx, payout.AffiliateID)
	if err != nil {
		log.Printf("Failed to look up affiliate for payout notification: %v", err)
		return
	}

	var subject, body string
	switch status {
	case models.PayoutStatusProcessing:
		subject = "Payout Approved"
		body = fmt.Sprintf("Dear %s,\n\nYour payout request for $%.2f has been approved and is being processed.\nYou will receive the funds at %s shortly.",
			affiliate.FullName, payout.Amount, payout.PayPalEmail)
	case models.PayoutStatusCompleted:
		subject = "Payout Completed"
		body = fmt.Sprintf("Dear %s,\n\nYour payout of $%.2f has been sent to %s.",
			affiliate.FullName, payout.Amount, payout.PayPalEmail)
	case models.PayoutStatusFailed:
		subject = "Payout Rejected"
		body = fmt.Sprintf("Dear %s,\n\nYour payout request for $%.2f was rejected and the amount has been returned to your balance.\nReason: %s",
			affiliate.FullName, payout.Amount, adminNote)
	default:
		return
	}

	if err := utils.SendNotificationEmail(affiliate.UserEmail, subject, body); err != nil {
		log.Printf("Failed to send payout notification email: %v", err)
	}

	if pc.hub != nil {
		_ = pc.hub.SendToUser(affiliate.ID, websocket.Notification{
			Type:    websocket.NotificationTypePayoutProcessed,
			Message: subject,
			Data: map[string]interface{}{
				"payoutId": payout.ID,
				"status":   status,
			},
		})
	}
}
