package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tunedrop/backend/internal/models"
)

// banProfiles is the slice of the profile service appeal decisions need.
type banProfiles interface {
	SetBanned(ctx context.Context, userID string, banned bool) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

type MongoAppealService struct {
	col      *mongo.Collection
	profiles banProfiles
	mailer   *Mailer
}

func NewMongoAppealService(ctx context.Context, db *mongo.Database, profiles *MongoProfileService, mailer *Mailer) *MongoAppealService {
	col := db.Collection("account_appeals")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	})

	return &MongoAppealService{col: col, profiles: profiles, mailer: mailer}
}

func (s *MongoAppealService) Create(ctx context.Context, userID, message string) (*models.AccountAppeal, error) {
	appeal := &models.AccountAppeal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Status:    models.AppealStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, appeal); err != nil {
		return nil, err
	}
	return appeal, nil
}

func (s *MongoAppealService) List(ctx context.Context, status string, limit int) ([]*models.AccountAppeal, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
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

	appeals := make([]*models.AccountAppeal, 0)
	for cur.Next(ctx) {
		var a models.AccountAppeal
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		appeals = append(appeals, &a)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return appeals, nil
}

// Decide resolves a pending appeal. Approval lifts the ban on the profile;
// the decision email is best effort either way.
func (s *MongoAppealService) Decide(ctx context.Context, id, decidedBy string, approve bool, message string) (*models.AccountAppeal, error) {
	status := models.AppealStatusDenied
	if approve {
		status = models.AppealStatusApproved
	}

	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": models.AppealStatusPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var appeal models.AccountAppeal
	if err := res.Decode(&appeal); err != nil {
		if err == mongo.ErrNoDocuments {
			var exists models.AccountAppeal
			if err2 := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&exists); err2 == mongo.ErrNoDocuments {
				return nil, ErrAppealNotFound
			}
			return nil, ErrAppealDecided
		}
		return nil, err
	}

	if err := s.finishDecision(ctx, &appeal, approve, message); err != nil {
		return nil, err
	}
	return &appeal, nil
}

// finishDecision applies the decision's profile side effect and sends the
// outcome email. The unban is part of the operation; the email is best
// effort.
func (s *MongoAppealService) finishDecision(ctx context.Context, appeal *models.AccountAppeal, approve bool, message string) error {
	if approve {
		if _, err := s.profiles.SetBanned(ctx, appeal.UserID, false); err != nil {
			return err
		}
	}

	if s.mailer != nil {
		prof, err := s.profiles.GetByUserID(ctx, appeal.UserID)
		if err == nil && prof.Email != "" {
			if err := s.mailer.SendAppealDecisionEmail(ctx, prof.Email, approve, message); err != nil {
				log.Printf("[appeals] decision email failed appeal=%s err=%v", appeal.ID, err)
			}
		}
	}
	return nil
}

func (s *MongoAppealService) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
