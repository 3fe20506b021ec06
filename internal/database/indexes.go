package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type index struct {
	collection string
	model      mongo.IndexModel
}

var indexes = []index{
	{Users, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_users_email").SetUnique(true),
	}},
	{CalendarNotes, mongo.IndexModel{
		Keys:    bson.D{{Key: "calendar_id", Value: 1}},
		Options: options.Index().SetName("idx_calendar_notes_calendar_id"),
	}},
	{Events, mongo.IndexModel{
		Keys:    bson.D{{Key: "calendar_id", Value: 1}},
		Options: options.Index().SetName("idx_events_calendar_id"),
	}},
	{AppData, mongo.IndexModel{
		Keys:    bson.D{{Key: "app_data_type", Value: 1}},
		Options: options.Index().SetName("uniq_app_data_type").SetUnique(true),
	}},
}

// EnsureIndexes creates the indexes the services rely on. CreateOne is a
// no-op for an index that already exists with the same keys and options.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	for i, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("index %d on %s failed: %w", i+1, idx.collection, err)
		}
	}
	return nil
}
