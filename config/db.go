// config/db.go
package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes connection to MongoDB
func ConnectDB() *mongo.Client {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = os.Getenv("MONGODB_URI")
	}

	// Only use a local fallback in development
	if mongoURI == "" {
		env := os.Getenv("ENV")
		if env == "development" || env == "dev" {
			mongoURI = "mongodb://localhost:27017"
		} else {
			log.Fatal("MONGO_URI or MONGODB_URI environment variable is required for production")
		}
	}

	log.Printf("Connecting to MongoDB at: %s", maskMongoURI(mongoURI))

	clientOptions := options.Client().ApplyURI(mongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal("MongoDB ping error:", err)
	}

	log.Println("Connected to MongoDB")

	setupCollections(client)

	return client
}

// DatabaseName returns the configured database name.
func DatabaseName() string {
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "hostybee"
	}
	return dbName
}

// GetCollection returns a MongoDB collection by name.
func GetCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(DatabaseName()).Collection(collectionName)
}

// setupCollections ensures all necessary collections and indexes exist
func setupCollections(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(DatabaseName())

	collections := []string{"affiliates", "referrals", "payouts", "packages", "domains", "leads", "messages", "blog_posts", "admins"}
	for _, collName := range collections {
		db.CreateCollection(ctx, collName)
	}

	// Unique referral code and login email per affiliate
	affiliateColl := db.Collection("affiliates")
	for _, key := range []string{"referralCode", "userEmail"} {
		indexModel := mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := affiliateColl.Indexes().CreateOne(ctx, indexModel); err != nil {
			log.Printf("Error creating %s index: %v", key, err)
		}
	}

	// One batch payout per affiliate per run date. Partial so that
	// manual payout requests (no runDate) are unconstrained.
	payoutColl := db.Collection("payouts")
	runDateIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "affiliateId", Value: 1}, {Key: "runDate", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"runDate": bson.M{"$type": "string"}}),
	}
	if _, err := payoutColl.Indexes().CreateOne(ctx, runDateIndex); err != nil {
		log.Printf("Error creating payout runDate index: %v", err)
	}

	// Admin login email
	adminColl := db.Collection("admins")
	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := adminColl.Indexes().CreateOne(ctx, emailIndex); err != nil {
		log.Printf("Error creating admin email index: %v", err)
	}

	log.Println("Database collections and indexes setup complete")
}

// maskMongoURI masks the password in MongoDB URI for logging
func maskMongoURI(uri string) string {
	if idx := strings.Index(uri, "@"); idx > 0 {
		if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx > 0 {
			return uri[:colonIdx+1] + "***" + uri[idx:]
		}
	}
	return uri
}
