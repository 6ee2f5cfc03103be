package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"gobot/internal/domain/game"
)

const journalCollection = "decisions"

type JournalMongoStorage struct {
	mongo *mongo.Database
	log   *zap.SugaredLogger
}

func NewJournalMongoStorage(db *mongo.Database, log *zap.SugaredLogger) *JournalMongoStorage {
	return &JournalMongoStorage{
		mongo: db,
		log:   log,
	}
}

func (j *JournalMongoStorage) Record(ctx context.Context, entry game.JournalEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := j.mongo.Collection(journalCollection).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	j.log.Infof("decision %s for uid %d journaled", entry.Move, entry.UID)
	return nil
}

// Recent returns the latest decisions of one game, newest first.
func (j *JournalMongoStorage) Recent(ctx context.Context, uid int64, limit int64) ([]game.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := j.mongo.Collection(journalCollection).Find(ctx, bson.M{"uid": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []game.JournalEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode decisions: %w", err)
	}
	return entries, nil
}
