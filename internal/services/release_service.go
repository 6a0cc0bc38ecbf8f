package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tunedrop/backend/internal/models"
)

type MongoReleaseService struct {
	col *mongo.Collection
}

func NewMongoReleaseService(ctx context.Context, db *mongo.Database) *MongoReleaseService {
	col := db.Collection("releases")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "artwork_url", Value: 1}}},
	})

	return &MongoReleaseService{col: col}
}

func (s *MongoReleaseService) Create(ctx context.Context, userID string, req *models.CreateReleaseRequest) (*models.Release, error) {
	now := time.Now().UTC()
	release := &models.Release{
		ID:           uuid.New().String(),
		UserID:       userID,
		Title:        req.Title,
		ArtistName:   req.ArtistName,
		Genre:        req.Genre,
		ReleaseDate:  req.ReleaseDate,
		Status:       models.StatusPending,
		ArtworkURL:   req.ArtworkURL,
		AudioFileURL: req.AudioFileURL,
		Tracks:       req.Tracks,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if release.Tracks == nil {
		release.Tracks = []models.Track{}
	}

	if _, err := s.col.InsertOne(ctx, release); err != nil {
		return nil, err
	}
	return release, nil
}

func (s *MongoReleaseService) GetByID(ctx context.Context, id string) (*models.Release, error) {
	var release models.Release
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&release); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReleaseNotFound
		}
		return nil, err
	}
	return &release, nil
}

// GetOwned returns the release only when it belongs to userID.
func (s *MongoReleaseService) GetOwned(ctx context.Context, userID, id string) (*models.Release, error) {
	release, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if release.UserID != userID {
		return nil, ErrUnauthorized
	}
	return release, nil
}

func (s *MongoReleaseService) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Release, error) {
	return s.list(ctx, bson.M{"user_id": userID}, limit)
}

// List returns releases across all users, optionally filtered by status.
func (s *MongoReleaseService) List(ctx context.Context, status models.ReleaseStatus, limit int) ([]*models.Release, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, limit)
}

func (s *MongoReleaseService) list(ctx context.Context, filter bson.M, limit int) ([]*models.Release, error) {
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

	releases := make([]*models.Release, 0)
	for cur.Next(ctx) {
		var r models.Release
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		releases = append(releases, &r)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return releases, nil
}

func (s *MongoReleaseService) Update(ctx context.Context, userID, id string, req *models.UpdateReleaseRequest) (*models.Release, error) {
	release, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !release.Status.Editable() {
		return nil, ErrReleaseNotEditable
	}

	tracks := req.Tracks
	if tracks == nil {
		tracks = []models.Track{}
	}

	update := bson.M{
		"$set": bson.M{
			"title":          req.Title,
			"artist_name":    req.ArtistName,
			"genre":          req.Genre,
			"release_date":   req.ReleaseDate,
			"artwork_url":    req.ArtworkURL,
			"audio_file_url": req.AudioFileURL,
			"tracks":         tracks,
			"updated_at":     time.Now().UTC(),
		},
	}

	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Release
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReleaseNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Delete removes a release. Anything in or past the paid pipeline must be
// taken down first; the check happens before any mutation so a refused
// delete leaves the row untouched.
func (s *MongoReleaseService) Delete(ctx context.Context, userID, id string) error {
	release, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return err
	}
	if !release.Status.Deletable() {
		return ErrReleaseNotDeletable
	}

	_, err = s.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	return err
}

// UpdateStatus writes the new status unconditionally (any known status to
// any other). Side effects are layered on by ReleaseLifecycle.
func (s *MongoReleaseService) UpdateStatus(ctx context.Context, id string, req *models.UpdateReleaseStatusRequest) (*models.Release, error) {
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	set := bson.M{
		"status":     req.Status,
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(req.RejectionReason) != "" {
		set["rejection_reason"] = req.RejectionReason
	}
	if strings.TrimSpace(req.Notes) != "" {
		set["notes"] = req.Notes
	}

	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Release
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReleaseNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// takedownRequestGuard holds the whole eligibility rule for owner takedown
// requests: approved releases only, one open request at a time.
func takedownRequestGuard(release *models.Release) error {
	if release.Status != models.StatusApproved {
		return ErrTakedownNotAllowed
	}
	if release.TakedownRequested {
		return ErrTakedownRequested
	}
	return nil
}

// RequestTakedown flags an approved release for takedown review. Owner only.
func (s *MongoReleaseService) RequestTakedown(ctx context.Context, userID, id string) (*models.Release, error) {
	release, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := takedownRequestGuard(release); err != nil {
		return nil, err
	}

	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": userID, "takedown_requested": false},
		bson.M{"$set": bson.M{"takedown_requested": true, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Release
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTakedownRequested
		}
		return nil, err
	}
	return &updated, nil
}

// ReviewTakedown clears the request flag. Approval also moves the release to
// "taken down"; denial appends the reviewer's note and leaves the status.
// Only releases with an open takedown request match; reviewing anything else
// is a conflict, not a silent transition.
func (s *MongoReleaseService) ReviewTakedown(ctx context.Context, id string, approve bool, note string) (*models.Release, error) {
	set := bson.M{
		"takedown_requested": false,
		"updated_at":         time.Now().UTC(),
	}
	if approve {
		set["status"] = models.StatusTakenDown
	} else if strings.TrimSpace(note) != "" {
		set["notes"] = note
	}

	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "takedown_requested": true},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Release
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			var exists models.Release
			if err2 := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&exists); err2 == mongo.ErrNoDocuments {
				return nil, ErrReleaseNotFound
			}
			return nil, ErrNoTakedownRequest
		}
		return nil, err
	}
	return &updated, nil
}

// FindByArtworkPath locates the release referencing an uploaded object.
// Used by the artwork worker to resolve finalize events.
func (s *MongoReleaseService) FindByArtworkPath(ctx context.Context, path string) (*models.Release, error) {
	var release models.Release
	if err := s.col.FindOne(ctx, bson.M{"artwork_url": path}).Decode(&release); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReleaseNotFound
		}
		return nil, err
	}
	return &release, nil
}

// ApprovePendingArtwork repoints any release whose artwork_url equals
// pendingPath at the final approved download URL.
func (s *MongoReleaseService) ApprovePendingArtwork(ctx context.Context, pendingPath, approvedURL string) error {
	if strings.TrimSpace(pendingPath) == "" || strings.TrimSpace(approvedURL) == "" {
		return nil
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"artwork_url": pendingPath}, bson.M{
		"$set": bson.M{"artwork_url": approvedURL, "updated_at": time.Now().UTC()},
	})
	return err
}

// RejectPendingArtwork clears the artwork reference and parks the release on
// hold for manual review.
func (s *MongoReleaseService) RejectPendingArtwork(ctx context.Context, pendingPath string) (*models.Release, error) {
	if strings.TrimSpace(pendingPath) == "" {
		return nil, nil
	}
	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"artwork_url": pendingPath},
		bson.M{"$set": bson.M{
			"artwork_url": "",
			"status":      models.StatusOnHold,
			"updated_at":  time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Release
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

// ListUserArtifacts returns release ids and object URLs for a user, used by
// account deletion to hand storage cleanup back to the caller.
func (s *MongoReleaseService) ListUserArtifacts(ctx context.Context, userID string) ([]string, []string, error) {
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetProjection(bson.M{
		"_id":            1,
		"artwork_url":    1,
		"audio_file_url": 1,
	}))
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close(ctx)

	ids := make([]string, 0)
	urls := make([]string, 0)
	for cur.Next(ctx) {
		var d struct {
			ID           string `bson:"_id"`
			ArtworkURL   string `bson:"artwork_url"`
			AudioFileURL string `bson:"audio_file_url"`
		}
		if err := cur.Decode(&d); err != nil {
			return nil, nil, err
		}
		ids = append(ids, d.ID)
		if d.ArtworkURL != "" {
			urls = append(urls, d.ArtworkURL)
		}
		if d.AudioFileURL != "" {
			urls = append(urls, d.AudioFileURL)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, nil, err
	}
	return ids, urls, nil
}

func (s *MongoReleaseService) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
