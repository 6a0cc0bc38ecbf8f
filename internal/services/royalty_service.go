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

type MongoRoyaltyService struct {
	col *mongo.Collection
}

func NewMongoRoyaltyService(ctx context.Context, db *mongo.Database) *MongoRoyaltyService {
	col := db.Collection("royalties")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "period", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "paid", Value: 1}}},
	})

	return &MongoRoyaltyService{col: col}
}

func (s *MongoRoyaltyService) Create(ctx context.Context, req *models.CreateRoyaltyRequest) (*models.Royalty, error) {
	r := &models.Royalty{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		ReleaseID: req.ReleaseID,
		Period:    req.Period,
		Amount:    req.Amount,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *MongoRoyaltyService) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Royalty, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	cur, err := s.col.Find(
		ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "period", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	royalties := make([]*models.Royalty, 0)
	for cur.Next(ctx) {
		var r models.Royalty
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		royalties = append(royalties, &r)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return royalties, nil
}

// UnpaidBalance sums royalty lines not yet covered by a payout.
func (s *MongoRoyaltyService) UnpaidBalance(ctx context.Context, userID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID, "paid": false}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var out struct {
		Total float64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&out); err != nil {
			return 0, err
		}
	}
	if err := cur.Err(); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// MarkAllPaid settles every unpaid line for the user, called once the
// external payout has gone through.
func (s *MongoRoyaltyService) MarkAllPaid(ctx context.Context, userID string) error {
	_, err := s.col.UpdateMany(
		ctx,
		bson.M{"user_id": userID, "paid": false},
		bson.M{"$set": bson.M{"paid": true}},
	)
	return err
}

func (s *MongoRoyaltyService) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
