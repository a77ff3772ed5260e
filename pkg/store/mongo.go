package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/gitmaster/pkg/errors"
)

// CollectionName is the MongoDB collection holding analyses.
const CollectionName = "analyses"

// MongoStore persists records in MongoDB. Results are stored as embedded
// documents so they can be queried directly.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

var _ Store = (*MongoStore)(nil)

// ConnectMongo dials uri, checks the connection and ensures the indexes
// exist. The returned store disconnects the client on Close.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if err := errors.ValidateRequired("mongo.uri", uri); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	s := NewMongoStore(client.Database(database))
	s.owned = true
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// NewMongoStore uses the analyses collection of db. The caller keeps
// ownership of the client.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{client: db.Client(), coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the repository + created_at index used by List.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "repository", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("repository_created_at"),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create indexes")
	}
	return nil
}

type mongoWrite struct {
	ID         string    `bson:"_id"`
	Repository string    `bson:"repository"`
	Revision   string    `bson:"revision,omitempty"`
	Summary    string    `bson:"summary"`
	CreatedAt  time.Time `bson:"created_at"`
	Result     bson.D    `bson:"result,omitempty"`
}

type mongoRead struct {
	ID         string    `bson:"_id"`
	Repository string    `bson:"repository"`
	Revision   string    `bson:"revision,omitempty"`
	Summary    string    `bson:"summary"`
	CreatedAt  time.Time `bson:"created_at"`
	Result     bson.Raw  `bson:"result,omitempty"`
}

// toDocument converts rec for insertion. The JSON result becomes a nested
// document.
func toDocument(rec *Record) (*mongoWrite, error) {
	doc := &mongoWrite{
		ID:         rec.ID,
		Repository: rec.Repository,
		Revision:   rec.Revision,
		Summary:    rec.Summary,
		CreatedAt:  rec.CreatedAt.UTC(),
	}
	if len(rec.Result) > 0 {
		if err := bson.UnmarshalExtJSON(rec.Result, false, &doc.Result); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "encode result of %s", rec.ID)
		}
	}
	return doc, nil
}

func fromDocument(doc *mongoRead) (*Record, error) {
	rec := &Record{
		ID:         doc.ID,
		Repository: doc.Repository,
		Revision:   doc.Revision,
		Summary:    doc.Summary,
		CreatedAt:  doc.CreatedAt,
	}
	if len(doc.Result) > 0 {
		data, err := bson.MarshalExtJSON(doc.Result, false, false)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode result of %s", doc.ID)
		}
		rec.Result = data
	}
	return rec, nil
}

// Save upserts rec by ID.
func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil || rec.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record ID is required")
	}
	doc, err := toDocument(rec)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save analysis %s", rec.ID)
	}
	return nil
}

// Get loads the record with id.
func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc mongoRead
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "analysis %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load analysis %s", id)
	}
	return fromDocument(&doc)
}

// List returns up to limit records, newest first, without results.
func (s *MongoStore) List(ctx context.Context, repository string, limit int) ([]Record, error) {
	filter := bson.M{}
	if repository != "" {
		filter["repository"] = repository
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(normalizeLimit(limit))).
		SetProjection(bson.M{"result": 0})

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list analyses")
	}
	defer cur.Close(ctx)

	out := []Record{}
	for cur.Next(ctx) {
		var doc mongoRead
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode analysis")
		}
		rec, err := fromDocument(&doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list analyses")
	}
	return out, nil
}

// Close disconnects the client when the store created it.
func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
