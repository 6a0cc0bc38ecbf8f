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

// strikeProfiles is the slice of the profile service fine issuance needs.
type strikeProfiles interface {
	AddStrike(ctx context.Context, userID string) (int, error)
	SetSuspended(ctx context.Context, userID string, suspended bool) (*models.Profile, error)
}

// fineWriter is the insert slice of the fines collection, satisfied by
// *mongo.Collection.
type fineWriter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

type MongoFineService struct {
	col      *mongo.Collection
	fines    fineWriter
	profiles strikeProfiles
}

func NewMongoFineService(ctx context.Context, db *mongo.Database, profiles *MongoProfileService) *MongoFineService {
	col := db.Collection("user_fines")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	return &MongoFineService{col: col, fines: col, profiles: profiles}
}

// IssueFine inserts the fine, incrementing the profile strike counter for
// real fines (mock fines always carry strike number 0 and touch nothing).
// Reaching the suspension threshold additionally creates the fixed penalty
// fine and marks the profile suspended. Returns the issued fine and, when
// due, the penalty fine.
//
// Every fine starts out pending regardless of strike number so the user
// always sees a payment prompt.
func (s *MongoFineService) IssueFine(ctx context.Context, issuedBy string, req *models.IssueFineRequest) (*models.Fine, *models.Fine, error) {
	strikeNumber := 0
	if !req.IsMock {
		n, err := s.profiles.AddStrike(ctx, req.UserID)
		if err != nil {
			return nil, nil, err
		}
		strikeNumber = n
	}

	now := time.Now().UTC()
	fine := &models.Fine{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		Amount:       req.Amount,
		FineType:     req.FineType,
		Reason:       req.Reason,
		StrikeNumber: strikeNumber,
		IsMock:       req.IsMock,
		Status:       models.FineStatusPending,
		IssuedBy:     issuedBy,
		CreatedAt:    now,
	}
	if _, err := s.fines.InsertOne(ctx, fine); err != nil {
		return nil, nil, err
	}

	if !models.PenaltyDue(strikeNumber, req.IsMock) {
		return fine, nil, nil
	}

	penalty := &models.Fine{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		Amount:       models.SuspensionPenaltyAmount,
		FineType:     "suspension_penalty",
		Reason:       models.SuspensionPenaltyReason,
		StrikeNumber: strikeNumber,
		Status:       models.FineStatusPending,
		IssuedBy:     issuedBy,
		CreatedAt:    now,
	}
	if _, err := s.fines.InsertOne(ctx, penalty); err != nil {
		// The issued fine already exists; surface the partial failure.
		return fine, nil, err
	}

	if _, err := s.profiles.SetSuspended(ctx, req.UserID, true); err != nil {
		return fine, penalty, err
	}
	return fine, penalty, nil
}

func (s *MongoFineService) GetByID(ctx context.Context, id string) (*models.Fine, error) {
	var fine models.Fine
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&fine); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFineNotFound
		}
		return nil, err
	}
	return &fine, nil
}

func (s *MongoFineService) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Fine, error) {
	return s.list(ctx, bson.M{"user_id": userID}, limit)
}

func (s *MongoFineService) List(ctx context.Context, userFilter string, limit int) ([]*models.Fine, error) {
	filter := bson.M{}
	if userFilter != "" {
		filter["user_id"] = userFilter
	}
	return s.list(ctx, filter, limit)
}

func (s *MongoFineService) list(ctx context.Context, filter bson.M, limit int) ([]*models.Fine, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	cur, err := s.col.Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	fines := make([]*models.Fine, 0)
	for cur.Next(ctx) {
		var f models.Fine
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		fines = append(fines, &f)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return fines, nil
}

func (s *MongoFineService) SetStatus(ctx context.Context, id, status string) (*models.Fine, error) {
	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var fine models.Fine
	if err := res.Decode(&fine); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFineNotFound
		}
		return nil, err
	}
	return &fine, nil
}

func (s *MongoFineService) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
