package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tunedrop/backend/internal/models"
)

type MongoProfileService struct {
	col *mongo.Collection
}

func NewMongoProfileService(ctx context.Context, db *mongo.Database) *MongoProfileService {
	col := db.Collection("profiles")

	// Best-effort index.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoProfileService{col: col}
}

func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var prof models.Profile
	if err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &prof, nil
}

// GetOrCreate returns the user's profile, creating a default artist profile
// on first touch. Email is kept in sync with the auth provider.
func (s *MongoProfileService) GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error) {
	now := time.Now().UTC()

	var prof models.Profile
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prof)
	if err == nil {
		if email != "" && prof.Email == "" {
			_, _ = s.col.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{
				"$set": bson.M{"email": email, "updated_at": now},
			})
			prof.Email = email
			prof.UpdatedAt = now
		}
		return &prof, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	prof = models.Profile{
		UserID:      userID,
		Email:       email,
		AccountType: models.AccountTypeArtist,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.col.InsertOne(ctx, prof); err != nil {
		// If a race created it, fetch again.
		var retry models.Profile
		if err2 := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&retry); err2 == nil {
			return &retry, nil
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.ArtistName != nil {
		set["artist_name"] = *req.ArtistName
	}
	if req.AvatarURL != nil {
		set["avatar_url"] = *req.AvatarURL
	}

	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var prof models.Profile
	if err := res.Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &prof, nil
}

// AddStrike atomically increments the strike counter and returns the new
// count. The increment and read are a single FindOneAndUpdate so concurrent
// fine issuance cannot hand out duplicate strike numbers.
func (s *MongoProfileService) AddStrike(ctx context.Context, userID string) (int, error) {
	now := time.Now().UTC()
	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$inc": bson.M{"strike_count": 1},
			"$set": bson.M{"updated_at": now},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var prof models.Profile
	if err := res.Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return prof.StrikeCount, nil
}

func (s *MongoProfileService) setFlag(ctx context.Context, userID, field string, value bool) (*models.Profile, error) {
	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{field: value, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var prof models.Profile
	if err := res.Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) SetBanned(ctx context.Context, userID string, banned bool) (*models.Profile, error) {
	return s.setFlag(ctx, userID, "is_banned", banned)
}

func (s *MongoProfileService) SetSuspended(ctx context.Context, userID string, suspended bool) (*models.Profile, error) {
	return s.setFlag(ctx, userID, "is_suspended", suspended)
}

func (s *MongoProfileService) SetLocked(ctx context.Context, userID string, locked bool) (*models.Profile, error) {
	return s.setFlag(ctx, userID, "is_locked", locked)
}

func (s *MongoProfileService) DisableMFA(ctx context.Context, userID string) (*models.Profile, error) {
	return s.setFlag(ctx, userID, "mfa_enabled", false)
}

// SetMembership links a profile to a label with the given account type.
// Used when an invitation is accepted.
func (s *MongoProfileService) SetMembership(ctx context.Context, userID, labelID, accountType string) error {
	set := bson.M{"account_type": accountType, "updated_at": time.Now().UTC()}
	if labelID != "" {
		set["label_id"] = labelID
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *MongoProfileService) List(ctx context.Context, limit int) ([]*models.Profile, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	cur, err := s.col.Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	profiles := make([]*models.Profile, 0)
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *MongoProfileService) Delete(ctx context.Context, userID string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
