// Package mockstore provides a testify mock of database.Store.
package mockstore

import (
	"context"
	"reflect"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mock.Mock
}

func New() *Store {
	return &Store{}
}

func (m *Store) FindOne(ctx context.Context, coll string, filter bson.M, out any, projection bson.M) error {
	args := m.Called(ctx, coll, filter, out, projection)
	return args.Error(0)
}

func (m *Store) FindManyByIDs(ctx context.Context, coll string, ids []primitive.ObjectID, out any, projection bson.M) error {
	args := m.Called(ctx, coll, ids, out, projection)
	return args.Error(0)
}

func (m *Store) InsertOne(ctx context.Context, coll string, doc any) (primitive.ObjectID, error) {
	args := m.Called(ctx, coll, doc)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *Store) UpdateOne(ctx context.Context, coll string, filter bson.M, update *database.Update) (database.UpdateResult, error) {
	args := m.Called(ctx, coll, filter, update)
	return args.Get(0).(database.UpdateResult), args.Error(1)
}

func (m *Store) ReplaceOne(ctx context.Context, coll string, filter bson.M, doc any, upsert bool) (database.UpdateResult, error) {
	args := m.Called(ctx, coll, filter, doc, upsert)
	return args.Get(0).(database.UpdateResult), args.Error(1)
}

func (m *Store) DeleteOne(ctx context.Context, coll string, filter bson.M) (int64, error) {
	args := m.Called(ctx, coll, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) DeleteMany(ctx context.Context, coll string, filter bson.M) (int64, error) {
	args := m.Called(ctx, coll, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) DeleteManyByIDs(ctx context.Context, coll string, ids []primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, coll, ids)
	return args.Get(0).(int64), args.Error(1)
}

// Fill copies value into the out argument of FindOne or FindManyByIDs. Use
// it with Run: store.On("FindOne", ...).Run(mockstore.Fill(user)).Return(nil).
func Fill(value any) func(mock.Arguments) {
	return func(args mock.Arguments) {
		reflect.ValueOf(args.Get(3)).Elem().Set(reflect.ValueOf(value))
	}
}

// ByID matches a filter of the form {"_id": id}.
func ByID(id primitive.ObjectID) any {
	return mock.MatchedBy(func(f bson.M) bool {
		return len(f) == 1 && f["_id"] == id
	})
}

// Matched is an UpdateResult reporting n matched and modified documents.
func Matched(n int64) database.UpdateResult {
	return database.UpdateResult{Matched: n, Modified: n}
}

var _ database.Store = (*Store)(nil)
