package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tunedrop/backend/internal/models"
)

type MongoNotificationService struct {
	col *mongo.Collection
}

func NewMongoNotificationService(ctx context.Context, db *mongo.Database) *MongoNotificationService {
	col := db.Collection("notifications")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})

	return &MongoNotificationService{col: col}
}

func (s *MongoNotificationService) Insert(ctx context.Context, userID, title, body string) (*models.Notification, error) {
	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *MongoNotificationService) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	cur, err := s.col.Find(
		ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	notifications := make([]*models.Notification, 0)
	for cur.Next(ctx) {
		var n models.Notification
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *MongoNotificationService) MarkRead(ctx context.Context, userID, id string) error {
	_, err := s.col.UpdateOne(
		ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

func (s *MongoNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.col.UpdateMany(
		ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

func (s *MongoNotificationService) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
