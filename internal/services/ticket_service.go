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

type MongoTicketService struct {
	col *mongo.Collection
}

func NewMongoTicketService(ctx context.Context, db *mongo.Database) *MongoTicketService {
	col := db.Collection("support_tickets")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	return &MongoTicketService{col: col}
}

// GenerateTicketReference builds a human-quotable reference.
// Example: TD-20260131-032508-A1B2C3D4
func GenerateTicketReference() string {
	now := time.Now().UTC().Format("20060102-150405")
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if len(id) > 8 {
		id = id[:8]
	}
	return "TD-" + now + "-" + id
}

func (s *MongoTicketService) Create(ctx context.Context, userID string, req *models.CreateTicketRequest) (*models.SupportTicket, error) {
	now := time.Now().UTC()
	ticket := &models.SupportTicket{
		ID:        uuid.New().String(),
		Reference: GenerateTicketReference(),
		UserID:    userID,
		Subject:   req.Subject,
		Status:    models.TicketStatusOpen,
		Messages: []models.TicketMessage{
			{
				ID:        uuid.New().String(),
				AuthorID:  userID,
				Body:      req.Message,
				CreatedAt: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.InsertOne(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *MongoTicketService) GetByID(ctx context.Context, id string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *MongoTicketService) ListByUser(ctx context.Context, userID string, limit int) ([]*models.SupportTicket, error) {
	return s.list(ctx, bson.M{"user_id": userID}, limit)
}

func (s *MongoTicketService) List(ctx context.Context, status string, limit int) ([]*models.SupportTicket, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter, limit)
}

func (s *MongoTicketService) list(ctx context.Context, filter bson.M, limit int) ([]*models.SupportTicket, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	cur, err := s.col.Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tickets := make([]*models.SupportTicket, 0)
	for cur.Next(ctx) {
		var t models.SupportTicket
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		tickets = append(tickets, &t)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// AddMessage appends to the thread and reopens a closed ticket when the
// user writes again.
func (s *MongoTicketService) AddMessage(ctx context.Context, ticketID, authorID string, fromAdmin bool, body string) (*models.SupportTicket, error) {
	now := time.Now().UTC()
	msg := models.TicketMessage{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		FromAdmin: fromAdmin,
		Body:      body,
		CreatedAt: now,
	}

	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updated_at": now},
	}
	if !fromAdmin {
		update["$set"] = bson.M{"updated_at": now, "status": models.TicketStatusOpen}
	}

	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": ticketID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var ticket models.SupportTicket
	if err := res.Decode(&ticket); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *MongoTicketService) Close(ctx context.Context, id string) (*models.SupportTicket, error) {
	res := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.TicketStatusClosed, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var ticket models.SupportTicket
	if err := res.Decode(&ticket); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (s *MongoTicketService) DeleteByUser(ctx context.Context, userID string) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
