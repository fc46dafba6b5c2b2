package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"chronolens/apperr"
	"chronolens/models"
)

type MongoScenes struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoScenes(client *mongo.Client, db string) *MongoScenes {
	return &MongoScenes{
		client: client,
		col:    client.Database(db).Collection("scenes"),
	}
}

func (s *MongoScenes) Create(ctx context.Context, scene *models.Scene) error {
	if _, err := s.col.InsertOne(ctx, scene); err != nil {
		return fmt.Errorf("insert scene: %w", err)
	}
	return nil
}

func (s *MongoScenes) Get(ctx context.Context, id string) (*models.Scene, error) {
	var scene models.Scene
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&scene)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.Newf(apperr.NotFound, "scene %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find scene %s: %w", id, err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

func (s *MongoScenes) ListByOwner(ctx context.Context, ownerUID string) ([]models.Scene, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"owner_uid": ownerUID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer cursor.Close(ctx)

	var scenes []models.Scene
	if err := cursor.All(ctx, &scenes); err != nil {
		return nil, fmt.Errorf("decode scenes: %w", err)
	}
	return scenes, nil
}

func (s *MongoScenes) Mutate(ctx context.Context, id string, fn func(*models.Scene) error) (*models.Scene, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		var scene models.Scene
		err := s.col.FindOne(txCtx, bson.M{"_id": id}).Decode(&scene)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Newf(apperr.NotFound, "scene %s not found", id)
		}
		if err != nil {
			return nil, fmt.Errorf("find scene %s: %w", id, err)
		}
		if err := scene.Validate(); err != nil {
			return nil, err
		}

		if err := fn(&scene); err != nil {
			return nil, err
		}

		scene.UpdatedAt = time.Now()
		if _, err := s.col.ReplaceOne(txCtx, bson.M{"_id": id}, &scene); err != nil {
			return nil, fmt.Errorf("replace scene %s: %w", id, err)
		}
		return &scene, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Scene), nil
}
