package controllers

import (
	"context"
	"encoding/json"
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
)

const packageCacheKey = "packages:active"
const packageCacheTTL = 5 * time.Minute

// PackageController manages the hosting package catalog: public listing
// with a Redis cache and admin CRUD.
type PackageController struct {
	db   *mongo.Client
	repo *repositories.AffiliateRepository
}

func NewPackageController(db *mongo.Client) *PackageController {
	return &PackageController{
		db:   db,
		repo: repositories.NewAffiliateRepository(db),
	}
}

// ListActivePackages returns the active catalog ordered by sortOrder.
// When the caller is an authenticated affiliate with a package cap, the
// list is cut off at the cap. The uncapped list is served from Redis
// when available.
func (pc *PackageController) ListActivePackages(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	packages, err := pc.activePackages(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve packages",
			Data:    err.Error(),
		})
	}

	if claims := getAffiliateClaims(c); claims != nil {
		if affiliateID, err := primitive.ObjectIDFromHex(claims.UserID); err == nil {
			if affiliate, err := pc.repo.FindByID(ctx, affiliateID); err == nil && affiliate.MaxPackageID != nil {
				packages = capPackages(packages, *affiliate.MaxPackageID)
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Packages retrieved successfully",
		Data:    packages,
	})
}

// capPackages truncates the sorted catalog after the capped package.
func capPackages(packages []models.HostingPackage, maxID primitive.ObjectID) []models.HostingPackage {
	for i, pkg := range packages {
		if pkg.ID == maxID {
			return packages[:i+1]
		}
	}
	return packages
}

func (pc *PackageController) activePackages(ctx context.Context) ([]models.HostingPackage, error) {
	redisClient := config.GetRedisClient()
	if redisClient != nil {
		if cached, err := redisClient.Get(ctx, packageCacheKey).Result(); err == nil {
			var packages []models.HostingPackage
			if json.Unmarshal([]byte(cached), &packages) == nil {
				return packages, nil
			}
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})
	cursor, err := config.GetCollection(pc.db, "packages").Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var packages []models.HostingPackage
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, err
	}

	if redisClient != nil {
		if data, err := json.Marshal(packages); err == nil {
			redisClient.Set(ctx, packageCacheKey, data, packageCacheTTL)
		}
	}
	return packages, nil
}

// invalidatePackageCache drops the cached catalog after any admin write.
func invalidatePackageCache(ctx context.Context) {
	if redisClient := config.GetRedisClient(); redisClient != nil {
		redisClient.Del(ctx, packageCacheKey)
	}
}

// CreatePackage adds a catalog item. Admin only.
func (pc *PackageController) CreatePackage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.HostingPackageRequest
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

	now := time.Now()
	pkg := models.HostingPackage{
		ID:                  primitive.NewObjectID(),
		Name:                req.Name,
		Description:         req.Description,
		Price:               req.Price,
		DailyPayout:         req.DailyPayout,
		MonthlyPrice:        req.MonthlyPrice,
		CommissionRate:      req.CommissionRate,
		RecurringCommission: req.RecurringCommission,
		IsActive:            req.IsActive,
		SortOrder:           req.SortOrder,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if _, err := config.GetCollection(pc.db, "packages").InsertOne(ctx, pkg); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create package",
			Data:    err.Error(),
		})
	}

	invalidatePackageCache(ctx)

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Package created successfully",
		Data:    pkg,
	})
}

// UpdatePackage edits a catalog item. Admin only.
func (pc *PackageController) UpdatePackage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	packageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID format",
		})
	}

	var req models.HostingPackageRequest
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

	update := bson.M{"$set": bson.M{
		"name":                req.Name,
		"description":         req.Description,
		"price":               req.Price,
		"dailyPayout":         req.DailyPayout,
		"monthlyPrice":        req.MonthlyPrice,
		"commissionRate":      req.CommissionRate,
		"recurringCommission": req.RecurringCommission,
		"isActive":            req.IsActive,
		"sortOrder":           req.SortOrder,
		"updatedAt":           time.Now(),
	}}

	res, err := config.GetCollection(pc.db, "packages").UpdateOne(ctx, bson.M{"_id": packageID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update package",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Package not found",
		})
	}

	invalidatePackageCache(ctx)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Package updated successfully",
	})
}

// DeletePackage deactivates a catalog item rather than removing it, so
// existing referrals keep a resolvable package reference.
func (pc *PackageController) DeletePackage(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	packageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package ID format",
		})
	}

	res, err := config.GetCollection(pc.db, "packages").UpdateOne(ctx,
		bson.M{"_id": packageID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete package",
		})
	}
	if res.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Package not found",
		})
	}

	invalidatePackageCache(ctx)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Package deactivated successfully",
	})
}

// SetAffiliatePackageCap sets or clears the highest package an
// affiliate may sell. Admin only.
func (pc *PackageController) SetAffiliatePackageCap(c echo.Context) error {
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
		MaxPackageID string `json:"maxPackageId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var update bson.M
	if req.MaxPackageID == "" {
		update = bson.M{"$unset": bson.M{"maxPackageId": ""}, "$set": bson.M{"updatedAt": time.Now()}}
	} else {
		maxPackageID, err := primitive.ObjectIDFromHex(req.MaxPackageID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid package ID format",
			})
		}
		update = bson.M{"$set": bson.M{"maxPackageId": maxPackageID, "updatedAt": time.Now()}}
	}

	res, err := config.GetCollection(pc.db, "affiliates").UpdateOne(ctx, bson.M{"_id": affiliateID}, update)
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

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Affiliate package cap updated",
	})
}
