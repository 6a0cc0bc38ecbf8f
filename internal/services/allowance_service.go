package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tunedrop/backend/internal/models"
)

// DefaultMonthlyAllowance is the baseline credit grant for a new period.
const DefaultMonthlyAllowance = 10

type MongoAllowanceService struct {
	col *mongo.Collection
}

func NewMongoAllowanceService(ctx context.Context, db *mongo.Database) *MongoAllowanceService {
	col := db.Collection("track_allowance_usage")

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "period", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoAllowanceService{col: col}
}

// CurrentPeriod is the allowance bucket key, one per calendar month.
func CurrentPeriod() string {
	return time.Now().UTC().Format("2006-01")
}

// Get returns this period's usage, seeding the default grant on first touch.
func (s *MongoAllowanceService) Get(ctx context.Context, userID string) (*models.TrackAllowance, error) {
	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	var a models.TrackAllowance
	if err := s.col.FindOne(ctx, bson.M{"user_id": userID, "period": CurrentPeriod()}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MongoAllowanceService) ensure(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	_, err := s.col.UpdateOne(
		ctx,
		bson.M{"user_id": userID, "period": CurrentPeriod()},
		bson.M{"$setOnInsert": bson.M{
			"granted":    DefaultMonthlyAllowance,
			"used":       0,
			"updated_at": now,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Grant adds credits to the current period.
func (s *MongoAllowanceService) Grant(ctx context.Context, userID string, tracks int) (*models.TrackAllowance, error) {
	if err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID, "period": CurrentPeriod()},
		bson.M{
			"$inc": bson.M{"granted": tracks},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var a models.TrackAllowance
	if err := res.Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Consume takes tracks credits atomically. The remaining-credit check and
// the increment are a single conditional update so two concurrent
// submissions cannot both fit into the last credits.
func (s *MongoAllowanceService) Consume(ctx context.Context, userID string, tracks int) error {
	if tracks <= 0 {
		return nil
	}
	if err := s.ensure(ctx, userID); err != nil {
		return err
	}

	filter := bson.M{
		"user_id": userID,
		"period":  CurrentPeriod(),
		"$expr": bson.M{
			"$gte": bson.A{bson.M{"$subtract": bson.A{"$granted", "$used"}}, tracks},
		},
	}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"used": tracks},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAllowanceExceeded
	}
	return nil
}

// Refund returns credits taken by a submission that did not go through.
// The used >= tracks filter keeps a stray refund from pushing usage
// negative.
func (s *MongoAllowanceService) Refund(ctx context.Context, userID string, tracks int) error {
	if tracks <= 0 {
		return nil
	}
	_, err := s.col.UpdateOne(
		ctx,
		bson.M{"user_id": userID, "period": CurrentPeriod(), "used": bson.M{"$gte": tracks}},
		bson.M{
			"$inc": bson.M{"used": -tracks},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

func (s *MongoAllowanceService) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
