package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"chronolens/models"
)

type MongoQuotas struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoQuotas(client *mongo.Client, db string) *MongoQuotas {
	return &MongoQuotas{
		client: client,
		col:    client.Database(db).Collection("quotas"),
	}
}

// Mutate serializes concurrent charges for the same user through the session
// transaction; two racing requests cannot both read the same pre-charge
// count and both win.
func (q *MongoQuotas) Mutate(ctx context.Context, uid string, fn func(*models.QuotaCounter) error) (*models.QuotaCounter, error) {
	session, err := q.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
		counter := models.QuotaCounter{UID: uid}
		err := q.col.FindOne(txCtx, bson.M{"_id": uid}).Decode(&counter)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("find quota %s: %w", uid, err)
		}

		if err := fn(&counter); err != nil {
			return nil, err
		}

		counter.UpdatedAt = time.Now()
		replaceOptions := options.Replace().SetUpsert(true)
		if _, err := q.col.ReplaceOne(txCtx, bson.M{"_id": uid}, &counter, replaceOptions); err != nil {
			return nil, fmt.Errorf("replace quota %s: %w", uid, err)
		}
		return &counter, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.QuotaCounter), nil
}
