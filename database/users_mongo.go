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

type MongoUsers struct {
	col *mongo.Collection
}

func NewMongoUsers(client *mongo.Client, db string) *MongoUsers {
	return &MongoUsers{col: client.Database(db).Collection("users")}
}

func (u *MongoUsers) Create(ctx context.Context, user *models.User) error {
	if user.Email != "" {
		count, err := u.col.CountDocuments(ctx, bson.M{"email": user.Email})
		if err != nil {
			return fmt.Errorf("check existing user: %w", err)
		}
		if count > 0 {
			return apperr.New(apperr.InvalidArgument, "user already exists")
		}
	}
	if _, err := u.col.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (u *MongoUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
