package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/glycodraw/pkg/errors"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

// DefaultCollection is the collection entries are stored in.
const DefaultCollection = "structures"

// MongoLibrary stores entries in a MongoDB collection keyed by name.
type MongoLibrary struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// DialMongo connects to uri and returns a library backed by
// database.structures.
func DialMongo(ctx context.Context, uri, database string) (*MongoLibrary, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoLibrary(client, client.Database(database).Collection(DefaultCollection)), nil
}

// NewMongoLibrary wraps an existing collection. Close disconnects client.
func NewMongoLibrary(client *mongo.Client, coll *mongo.Collection) *MongoLibrary {
	return &MongoLibrary{client: client, coll: coll}
}

func (m *MongoLibrary) Save(ctx context.Context, name string, doc graph.Glycan) error {
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}
	doc.Name = name
	entry := Entry{Name: name, Document: doc, UpdatedAt: time.Now().UTC()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": name}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	return nil
}

func (m *MongoLibrary) Load(ctx context.Context, name string) (*Entry, error) {
	if err := errs.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	var e Entry
	err := m.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.New(errs.ErrCodeDocumentNotFound, "no structure named %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return &e, nil
}

func (m *MongoLibrary) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list structures: %w", err)
	}
	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("list structures: %w", err)
	}
	out := make([]Summary, len(entries))
	for i, e := range entries {
		out[i] = e.summary()
	}
	return out, nil
}

func (m *MongoLibrary) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateDocumentName(name); err != nil {
		return err
	}
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}

func (m *MongoLibrary) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Library = (*MongoLibrary)(nil)
