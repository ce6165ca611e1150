package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type Settings struct {
	coll *mongo.Collection
}

func NewSettings(db *mongo.Database) *Settings {
	return &Settings{coll: db.Collection(SettingsCollection)}
}

func (s *Settings) Landing(ctx context.Context) (models.LandingSettings, error) {
	var settings models.LandingSettings
	err := s.coll.FindOne(
		ctx,
		byID(models.LandingSettingsID),
		options.FindOne().SetProjection(hideMongoID),
	).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LandingSettings{}, models.ErrNotFound
	}
	if err != nil {
		return models.LandingSettings{}, fmt.Errorf("find landing settings: %w", err)
	}
	return settings, nil
}

func (s *Settings) SaveLanding(ctx context.Context, settings models.LandingSettings) error {
	settings.ID = models.LandingSettingsID
	_, err := s.coll.ReplaceOne(
		ctx,
		byID(models.LandingSettingsID),
		settings,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save landing settings: %w", err)
	}
	return nil
}
