package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	Users         = "users"
	Calendars     = "calendars"
	CalendarNotes = "calendar_notes"
	Events        = "events"
	AppData       = "app_data"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnavailable  = errors.New("document store unavailable")
)

// Store is the persistence surface the services depend on. Filters and
// projections are plain bson documents; no other query language leaks out.
type Store interface {
	FindOne(ctx context.Context, coll string, filter bson.M, out any, projection bson.M) error
	FindManyByIDs(ctx context.Context, coll string, ids []primitive.ObjectID, out any, projection bson.M) error
	InsertOne(ctx context.Context, coll string, doc any) (primitive.ObjectID, error)
	UpdateOne(ctx context.Context, coll string, filter bson.M, update *Update) (UpdateResult, error)
	ReplaceOne(ctx context.Context, coll string, filter bson.M, doc any, upsert bool) (UpdateResult, error)
	DeleteOne(ctx context.Context, coll string, filter bson.M) (int64, error)
	DeleteMany(ctx context.Context, coll string, filter bson.M) (int64, error)
	DeleteManyByIDs(ctx context.Context, coll string, ids []primitive.ObjectID) (int64, error)
}

type UpdateResult struct {
	Matched  int64
	Modified int64
	Upserted bool
}

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	timeout  time.Duration
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, name string, timeout time.Duration) (*DB, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	// Free-form payloads (note bodies) decode as maps so they render as JSON
	// objects rather than key/value pairs.
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(name),
		timeout:  timeout,
	}, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

func (db *DB) Collection(name string) *mongo.Collection {
	return db.Database.Collection(name)
}

func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.timeout)
}

func (db *DB) FindOne(ctx context.Context, coll string, filter bson.M, out any, projection bson.M) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}
	return classify(db.Collection(coll).FindOne(ctx, filter, opts).Decode(out))
}

func (db *DB) FindManyByIDs(ctx context.Context, coll string, ids []primitive.ObjectID, out any, projection bson.M) error {
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	opts := options.Find()
	if projection != nil {
		opts.SetProjection(projection)
	}
	cur, err := db.Collection(coll).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return classify(err)
	}
	defer cur.Close(ctx)

	return classify(cur.All(ctx, out))
}

func (db *DB) InsertOne(ctx context.Context, coll string, doc any) (primitive.ObjectID, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	res, err := db.Collection(coll).InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, classify(err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (db *DB) UpdateOne(ctx context.Context, coll string, filter bson.M, update *Update) (UpdateResult, error) {
	if update == nil || update.Empty() {
		return UpdateResult{}, errors.New("empty update")
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	opts := options.Update()
	if filters := update.ArrayFilters(); len(filters) > 0 {
		opts.SetArrayFilters(options.ArrayFilters{Filters: filters})
	}
	res, err := db.Collection(coll).UpdateOne(ctx, filter, update.Document(), opts)
	if err != nil {
		return UpdateResult{}, classify(err)
	}
	return UpdateResult{
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount > 0,
	}, nil
}

func (db *DB) ReplaceOne(ctx context.Context, coll string, filter bson.M, doc any, upsert bool) (UpdateResult, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	res, err := db.Collection(coll).ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(upsert))
	if err != nil {
		return UpdateResult{}, classify(err)
	}
	return UpdateResult{
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount > 0,
	}, nil
}

func (db *DB) DeleteOne(ctx context.Context, coll string, filter bson.M) (int64, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	res, err := db.Collection(coll).DeleteOne(ctx, filter)
	if err != nil {
		return 0, classify(err)
	}
	return res.DeletedCount, nil
}

func (db *DB) DeleteMany(ctx context.Context, coll string, filter bson.M) (int64, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	res, err := db.Collection(coll).DeleteMany(ctx, filter)
	if err != nil {
		return 0, classify(err)
	}
	return res.DeletedCount, nil
}

func (db *DB) DeleteManyByIDs(ctx context.Context, coll string, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return db.DeleteMany(ctx, coll, bson.M{"_id": bson.M{"$in": ids}})
}

// classify maps driver errors onto the package sentinels, keeping the
// original error in the chain for logging.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return err
	}
}

var _ Store = (*DB)(nil)
