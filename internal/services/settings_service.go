package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tunedrop/backend/internal/models"
)

const maintenanceSettingsID = "maintenance"

type MongoSettingsService struct {
	col *mongo.Collection
}

func NewMongoSettingsService(db *mongo.Database) *MongoSettingsService {
	return &MongoSettingsService{col: db.Collection("maintenance_settings")}
}

// GetMaintenance returns the singleton, defaulting to disabled when unset.
func (s *MongoSettingsService) GetMaintenance(ctx context.Context) (*models.MaintenanceSettings, error) {
	var settings models.MaintenanceSettings
	err := s.col.FindOne(ctx, bson.M{"_id": maintenanceSettingsID}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return &models.MaintenanceSettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *MongoSettingsService) SetMaintenance(ctx context.Context, enabled bool, message, updatedBy string) (*models.MaintenanceSettings, error) {
	settings := &models.MaintenanceSettings{
		Enabled:   enabled,
		Message:   message,
		UpdatedBy: updatedBy,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.col.UpdateOne(
		ctx,
		bson.M{"_id": maintenanceSettingsID},
		bson.M{"$set": bson.M{
			"enabled":    settings.Enabled,
			"message":    settings.Message,
			"updated_by": settings.UpdatedBy,
			"updated_at": settings.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}
	return settings, nil
}
