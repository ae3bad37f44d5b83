package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hostybee/affiliate_backend/config"
	"github.com/hostybee/affiliate_backend/models"
	"github.com/hostybee/affiliate_backend/repositories"
	"github.com/hostybee/affiliate_backend/services"
	"github.com/hostybee/affiliate_backend/utils"
	"github.com/hostybee/affiliate_backend/websocket"
)

// DomainController handles domain availability checks and registration
// through the registrar, plus the commission attribution for domain
// sales.
type DomainController struct {
	db         *mongo.Client
	repo       *repositories.AffiliateRepository
	opensrs    *services.OpenSRSService
	cloudflare *services.CloudflareService
	hub        *websocket.Hub
}

func NewDomainController(db *mongo.Client, hub *websocket.Hub) *DomainController {
	return &DomainController{
		db:         db,
		repo:       repositories.NewAffiliateRepository(db),
		opensrs:    services.NewOpenSRSService(),
		cloudflare: services.NewCloudflareService(),
		hub:        hub,
	}
}

// CheckDomainAvailability queries the registrar for a single domain.
func (dc *DomainController) CheckDomainAvailability(c echo.Context) error {
	domain := strings.ToLower(strings.TrimSpace(c.QueryParam("domain")))
	if domain == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Query parameter 'domain' is required",
		})
	}

	available, err := dc.opensrs.LookupDomain(domain)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Domain lookup failed",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Domain availability checked",
		Data: map[string]interface{}{
			"domain":    domain,
			"available": available,
		},
	})
}

// RegisterDomain checks availability, registers the domain with the
// registrar and records the sale. An unavailable domain fails before
// any write; a registrar failure likewise leaves no trace. The optional
// DNS record is logged-and-continue because the registration itself
// already succeeded.
func (dc *DomainController) RegisterDomain(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var req models.DomainRegistrationRequest
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

	domainName := strings.ToLower(strings.TrimSpace(req.DomainName))

	available, err := dc.opensrs.LookupDomain(domainName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Domain lookup failed",
			Data:    err.Error(),
		})
	}
	if !available {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Domain is not available for registration",
			Data:    map[string]string{"domain": domainName},
		})
	}

	orderID, err := dc.opensrs.RegisterDomain(domainName, req.Years)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Domain registration failed",
			Data:    err.Error(),
		})
	}

	affiliate := dc.resolveAffiliate(ctx, req.ReferralCode)

	domain := models.Domain{
		ID:               primitive.NewObjectID(),
		DomainName:       domainName,
		Years:            req.Years,
		Status:           "registered",
		RegistrarOrderID: orderID,
		CreatedAt:        time.Now(),
	}
	if affiliate != nil {
		domain.AffiliateID = affiliate.ID
	}

	if _, err := config.GetCollection(dc.db, "domains").InsertOne(ctx, domain); err != nil {
		// The registrar order went through; surface the record failure
		// but keep the order ID in the response so it is not lost.
		log.Printf("Failed to record domain %s (order %s): %v", domainName, orderID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Domain registered but could not be recorded",
			Data:    map[string]string{"registrarOrderId": orderID},
		})
	}

	if req.Subdomain != "" {
		if _, err := dc.cloudflare.CreateSubdomainRecord(req.Subdomain); err != nil {
			log.Printf("Failed to create DNS record for %s: %v", req.Subdomain, err)
		}
	}

	referral, err := attributeSale(ctx, dc.db, dc.repo, dc.hub, domainSaleEvent(affiliate, domainName, req))
	if err != nil {
		log.Printf("Failed to attribute domain sale %s: %v", domainName, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Domain registered successfully",
		Data: map[string]interface{}{
			"domain":   domain,
			"referral": referral,
		},
	})
}

// domainSaleEvent builds the attribution event for a registration. The
// commission base is the flat domain price; the registration term does
// not scale it.
func domainSaleEvent(affiliate *models.Affiliate, domainName string, req models.DomainRegistrationRequest) saleEvent {
	return saleEvent{
		Affiliate:     affiliate,
		Channel:       utils.ChannelDomain,
		PackageName:   domainName,
		SaleAmount:    utils.DomainSalePrice,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Source:        "domain",
	}
}

// ListDomains returns registered domains, newest first. Admins see all
// of them; affiliates see the ones attributed to their code.
func (dc *DomainController) ListDomains(c echo.Context) error {
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

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200)
	cursor, err := config.GetCollection(dc.db, "domains").Find(ctx, filter, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve domains",
		})
	}
	defer cursor.Close(ctx)

	var domains []models.Domain
	if err := cursor.All(ctx, &domains); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode domains",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Domains retrieved successfully",
		Data:    domains,
	})
}

func (dc *DomainController) resolveAffiliate(ctx context.Context, referralCode string) *models.Affiliate {
	if referralCode == "" {
		return nil
	}
	affiliate, err := dc.repo.FindByReferralCode(ctx, referralCode)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("Referral code lookup failed: %v", err)
		}
		return nil
	}
	return affiliate
}
