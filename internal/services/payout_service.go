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

type MongoPayoutService struct {
	col *mongo.Collection
}

func NewMongoPayoutService(ctx context.Context, db *mongo.Database) *MongoPayoutService {
	col := db.Collection("payout_requests")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "requested_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	return &MongoPayoutService{col: col}
}

func (s *MongoPayoutService) Create(ctx context.Context, userID string, amount float64) (*models.PayoutRequest, error) {
	payout := &models.PayoutRequest{
		ID:          uuid.New().String(),
		UserID:      userID,
		Amount:      amount,
		Status:      models.PayoutStatusPending,
		RequestedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, payout); err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *MongoPayoutService) GetByID(ctx context.Context, id string) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&payout); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (s *MongoPayoutService) ListByUser(ctx context.Context, userID string, limit int) ([]*models.PayoutRequest, error) {
	return s.list(ctx, bson.M{"user_id": userID}, limit)
}

func (s *MongoPayoutService) List(ctx context.Context, status string, limit int) ([]*models.PayoutRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, limit)
}

func (s *MongoPayoutService) list(ctx context.Context, filter bson.M, limit int) ([]*models.PayoutRequest, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	cur, err := s.col.Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "requested_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	payouts := make([]*models.PayoutRequest, 0)
	for cur.Next(ctx) {
		var p models.PayoutRequest
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		payouts = append(payouts, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return payouts, nil
}

// transition moves a pending request to a decided state. Filtering on the
// expected current status keeps double-processing out without a transaction.
func (s *MongoPayoutService) transition(ctx context.Context, id, fromStatus string, set bson.M) (*models.PayoutRequest, error) {
	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": fromStatus},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var payout models.PayoutRequest
	if err := res.Decode(&payout); err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish not found vs already processed.
			if _, err2 := s.GetByID(ctx, id); err2 != nil {
				return nil, err2
			}
			return nil, ErrPayoutDecided
		}
		return nil, err
	}
	return &payout, nil
}

func (s *MongoPayoutService) Approve(ctx context.Context, id, notes string) (*models.PayoutRequest, error) {
	now := time.Now().UTC()
	return s.transition(ctx, id, models.PayoutStatusPending, bson.M{
		"status":       models.PayoutStatusApproved,
		"admin_notes":  notes,
		"processed_at": now,
	})
}

func (s *MongoPayoutService) Reject(ctx context.Context, id, notes string) (*models.PayoutRequest, error) {
	now := time.Now().UTC()
	return s.transition(ctx, id, models.PayoutStatusPending, bson.M{
		"status":       models.PayoutStatusRejected,
		"admin_notes":  notes,
		"processed_at": now,
	})
}

// MarkPaid records the completed external payout against an approved request.
func (s *MongoPayoutService) MarkPaid(ctx context.Context, id, stripePayoutID string) (*models.PayoutRequest, error) {
	now := time.Now().UTC()
	return s.transition(ctx, id, models.PayoutStatusApproved, bson.M{
		"status":           models.PayoutStatusPaid,
		"stripe_payout_id": stripePayoutID,
		"processed_at":     now,
	})
}

func (s *MongoPayoutService) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
