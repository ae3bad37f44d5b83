package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/hostybee/affiliate_backend/config"
	"github.com/hostybee/affiliate_backend/middleware"
	"github.com/hostybee/affiliate_backend/models"
	"github.com/hostybee/affiliate_backend/repositories"
	"github.com/hostybee/affiliate_backend/utils"
)

// AuthController handles affiliate signup and the shared login endpoint
// for affiliates and admins.
type AuthController struct {
	db   *mongo.Client
	repo *repositories.AffiliateRepository
}

func NewAuthController(db *mongo.Client) *AuthController {
	return &AuthController{
		db:   db,
		repo: repositories.NewAffiliateRepository(db),
	}
}

// Signup registers a new affiliate account. New accounts start pending
// at the bronze tier and get a fresh referral code; a known referral
// code in the request links the recruiting affiliate as parent.
func (ac *AuthController) Signup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.AffiliateSignupRequest
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

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := ac.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	referralCode, err := utils.GenerateReferralCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate referral code",
		})
	}

	now := time.Now()
	affiliate := models.Affiliate{
		ID:           primitive.NewObjectID(),
		UserEmail:    email,
		FullName:     req.FullName,
		Password:     string(hashedPassword),
		ReferralCode: referralCode,
		Tier:         models.TierBronze,
		Status:       models.AffiliateStatusPending,
		PayPalEmail:  req.PayPalEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if req.ReferralCode != "" {
		if parent, err := ac.repo.FindByReferralCode(ctx, req.ReferralCode); err == nil {
			affiliate.ParentAffiliateID = &parent.ID
		}
	}

	if _, err := config.GetCollection(ac.db, "affiliates").InsertOne(ctx, affiliate); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "An account with this email already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
			Data:    err.Error(),
		})
	}

	utils.NotifyAdmin("New Affiliate Signup",
		"A new affiliate signed up and is awaiting approval:\n\nName: "+req.FullName+"\nEmail: "+email)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully. Your application is pending review.",
		Data: map[string]interface{}{
			"id":           affiliate.ID,
			"referralCode": affiliate.ReferralCode,
			"status":       affiliate.Status,
		},
	})
}

// Login authenticates an affiliate or admin by email and password and
// issues access and refresh tokens.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
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

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if affiliate, err := ac.repo.FindByEmail(ctx, email); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(affiliate.Password), []byte(req.Password)) != nil {
			return invalidCredentials(c)
		}
		if affiliate.Status == models.AffiliateStatusSuspended {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Your account has been suspended",
			})
		}
		return issueTokens(c, affiliate.ID.Hex(), affiliate.UserEmail, models.RoleAffiliate)
	}

	var admin models.Admin
	err := config.GetCollection(ac.db, "admins").FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		return invalidCredentials(c)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		return invalidCredentials(c)
	}
	return issueTokens(c, admin.ID.Hex(), admin.Email, models.RoleAdmin)
}

func invalidCredentials(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.Response{
		Status:  http.StatusUnauthorized,
		Message: "Invalid email or password",
	})
}

func issueTokens(c echo.Context, userID, email, role string) error {
	token, refreshToken, err := middleware.GenerateJWT(userID, email, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate tokens",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: models.LoginResponse{
			Token:        token,
			RefreshToken: refreshToken,
			Role:         role,
		},
	})
}

// EnsureAdminAccount creates the bootstrap admin from ADMIN_EMAIL and
// ADMIN_PASSWORD when no admin exists yet. Called once at startup.
func EnsureAdminAccount(ctx context.Context, db *mongo.Client) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return
	}

	adminsColl := config.GetCollection(db, "admins")
	count, err := adminsColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("Admin bootstrap check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Admin bootstrap failed: %v", err)
		return
	}

	admin := models.Admin{
		ID:        primitive.NewObjectID(),
		Email:     strings.ToLower(adminEmail),
		FullName:  "Administrator",
		Password:  string(hashedPassword),
		CreatedAt: time.Now(),
	}
	if _, err := adminsColl.InsertOne(ctx, admin); err != nil {
		log.Printf("Admin bootstrap insert failed: %v", err)
		return
	}
	log.Printf("Bootstrap admin account created for %s", admin.Email)
}
