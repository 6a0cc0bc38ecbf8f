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

const invitationTTL = 14 * 24 * time.Hour

type MongoInvitationService struct {
	artistCol   *mongo.Collection
	sublabelCol *mongo.Collection
	profiles    *MongoProfileService
	mailer      *Mailer
}

func NewMongoInvitationService(ctx context.Context, db *mongo.Database, profiles *MongoProfileService, mailer *Mailer) *MongoInvitationService {
	artistCol := db.Collection("artist_invitations")
	sublabelCol := db.Collection("sublabel_invitations")

	for _, col := range []*mongo.Collection{artistCol, sublabelCol} {
		_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}

	return &MongoInvitationService{
		artistCol:   artistCol,
		sublabelCol: sublabelCol,
		profiles:    profiles,
		mailer:      mailer,
	}
}

func (s *MongoInvitationService) colFor(kind string) *mongo.Collection {
	if kind == models.InvitationKindSublabel {
		return s.sublabelCol
	}
	return s.artistCol
}

// Create issues an invitation token and emails it (best effort).
func (s *MongoInvitationService) Create(ctx context.Context, req *models.CreateInvitationRequest) (*models.Invitation, error) {
	now := time.Now().UTC()
	inv := &models.Invitation{
		ID:        uuid.New().String(),
		Email:     req.Email,
		Token:     uuid.New().String(),
		Kind:      req.Kind,
		LabelID:   req.LabelID,
		CreatedAt: now,
		ExpiresAt: now.Add(invitationTTL),
	}
	if _, err := s.colFor(req.Kind).InsertOne(ctx, inv); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendInvitationEmail(ctx, inv.Email, inv.Kind, inv.Token); err != nil {
			log.Printf("[invitations] email failed invitation=%s err=%v", inv.ID, err)
		}
	}
	return inv, nil
}

// Accept consumes an unexpired token and links the accepting user's profile
// to the invited role.
func (s *MongoInvitationService) Accept(ctx context.Context, token, userID string) (*models.Invitation, error) {
	now := time.Now().UTC()

	for _, col := range []*mongo.Collection{s.artistCol, s.sublabelCol} {
		res := col.FindOneAndUpdate(
			ctx,
			bson.M{"token": token, "accepted": false, "expires_at": bson.M{"$gt": now}},
			bson.M{"$set": bson.M{"accepted": true, "accepted_by": userID}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var inv models.Invitation
		err := res.Decode(&inv)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return nil, err
		}

		accountType := models.AccountTypeArtist
		if inv.Kind == models.InvitationKindSublabel {
			accountType = models.AccountTypeSublabel
		}
		if err := s.profiles.SetMembership(ctx, userID, inv.LabelID, accountType); err != nil {
			return nil, err
		}
		return &inv, nil
	}
	return nil, ErrInvitationNotFound
}

func (s *MongoInvitationService) List(ctx context.Context, kind string, limit int) ([]*models.Invitation, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	cur, err := s.colFor(kind).Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	invitations := make([]*models.Invitation, 0)
	for cur.Next(ctx) {
		var inv models.Invitation
		if err := cur.Decode(&inv); err != nil {
			return nil, err
		}
		invitations = append(invitations, &inv)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return invitations, nil
}
