package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tunedrop/backend/internal/models"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

const announcementBarID = "announcement_bar"

type MongoAnnouncementService struct {
	col    *mongo.Collection
	barCol *mongo.Collection
}

func NewMongoAnnouncementService(ctx context.Context, db *mongo.Database) *MongoAnnouncementService {
	col := db.Collection("announcements")

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}},
	})

	return &MongoAnnouncementService{
		col:    col,
		barCol: db.Collection("announcement_bar"),
	}
}

func (s *MongoAnnouncementService) Create(ctx context.Context, req *models.CreateAnnouncementRequest) (*models.Announcement, error) {
	now := time.Now().UTC()
	a := &models.Announcement{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.InsertOne(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *MongoAnnouncementService) Update(ctx context.Context, id string, req *models.CreateAnnouncementRequest) (*models.Announcement, error) {
	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":      req.Title,
			"body":       req.Body,
			"published":  req.Published,
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var a models.Announcement
	if err := res.Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *MongoAnnouncementService) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (s *MongoAnnouncementService) List(ctx context.Context, publishedOnly bool, limit int) ([]*models.Announcement, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
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

	announcements := make([]*models.Announcement, 0)
	for cur.Next(ctx) {
		var a models.Announcement
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		announcements = append(announcements, &a)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return announcements, nil
}

// GetBar returns the banner singleton, defaulting to disabled when unset.
func (s *MongoAnnouncementService) GetBar(ctx context.Context) (*models.AnnouncementBar, error) {
	var bar models.AnnouncementBar
	err := s.barCol.FindOne(ctx, bson.M{"_id": announcementBarID}).Decode(&bar)
	if err == mongo.ErrNoDocuments {
		return &models.AnnouncementBar{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &bar, nil
}

func (s *MongoAnnouncementService) SetBar(ctx context.Context, bar *models.AnnouncementBar) (*models.AnnouncementBar, error) {
	bar.UpdatedAt = time.Now().UTC()
	_, err := s.barCol.UpdateOne(
		ctx,
		bson.M{"_id": announcementBarID},
		bson.M{"$set": bson.M{
			"enabled":    bar.Enabled,
			"text":       bar.Text,
			"link":       bar.Link,
			"updated_at": bar.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}
	return bar, nil
}
