package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"chronolens/apperr"
	"chronolens/models"
)

type MongoListings struct {
	col *mongo.Collection
}

func NewMongoListings(client *mongo.Client, db string) *MongoListings {
	return &MongoListings{col: client.Database(db).Collection("listings")}
}

func (l *MongoListings) Create(ctx context.Context, listing *models.PublicListing) error {
	if _, err := l.col.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (l *MongoListings) Get(ctx context.Context, publicID string) (*models.PublicListing, error) {
	var listing models.PublicListing
	err := l.col.FindOne(ctx, bson.M{"_id": publicID}).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.Newf(apperr.NotFound, "listing %s not found", publicID)
	}
	if err != nil {
		return nil, fmt.Errorf("find listing %s: %w", publicID, err)
	}
	return &listing, nil
}
