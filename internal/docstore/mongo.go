package docstore

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"portfolio/app/internal/content"
)

const defaultConnectTimeout = 10 * time.Second

// Options controls how the MongoDB connection is established.
type Options struct {
	URI            string
	Database       string
	Logger         *logrus.Logger
	ConnectTimeout time.Duration
}

// Store implements content.Remote on top of a MongoDB database. Documents are
// keyed by string _id values.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logrus.Logger
}

var _ content.Remote = (*Store)(nil)

// Open connects to MongoDB and verifies the connection with a ping.
func Open(ctx context.Context, opts Options) (*Store, error) {
	uri := strings.TrimSpace(opts.URI)
	if uri == "" {
		return nil, eris.New("mongo uri is required")
	}
	database := strings.TrimSpace(opts.Database)
	if database == "" {
		return nil, eris.New("mongo database name is required")
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, eris.Wrap(err, "connecting to mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, eris.Wrap(err, "pinging mongo")
	}

	return &Store{client: client, db: client.Database(database), logger: opts.Logger}, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return eris.Wrap(err, "disconnecting from mongo")
	}
	return nil
}

func (s *Store) GetDocument(ctx context.Context, collection, id string, dest any) (bool, error) {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(dest)
	if err != nil {
		if eris.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		s.logError(collection, id, err, "reading document")
		return false, eris.Wrapf(err, "reading %s/%s", collection, id)
	}
	return true, nil
}

// SetDocument creates or overwrites the document stored under id.
func (s *Store) SetDocument(ctx context.Context, collection, id string, doc any) error {
	return s.upsert(ctx, collection, id, doc)
}

// List decodes every document of collection into dest, which must point to a slice.
func (s *Store) List(ctx context.Context, collection string, sorting content.Sorting, dest any) error {
	findOpts := options.Find()
	if sorting.Field != "" {
		direction := 1
		if sorting.Descending {
			direction = -1
		}
		findOpts.SetSort(bson.D{{Key: sorting.Field, Value: direction}})
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		s.logError(collection, "", err, "listing documents")
		return eris.Wrapf(err, "listing %s", collection)
	}

	if err := cursor.All(ctx, dest); err != nil {
		s.logError(collection, "", err, "decoding documents")
		return eris.Wrapf(err, "decoding %s", collection)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, collection, id string, doc any) error {
	payload, err := withID(doc, id)
	if err != nil {
		return err
	}

	if _, err := s.db.Collection(collection).InsertOne(ctx, payload); err != nil {
		s.logError(collection, id, err, "inserting document")
		return eris.Wrapf(err, "inserting %s/%s", collection, id)
	}
	return nil
}

// Replace overwrites the document stored under id, creating it when missing.
func (s *Store) Replace(ctx context.Context, collection, id string, doc any) error {
	return s.upsert(ctx, collection, id, doc)
}

func (s *Store) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		s.logError(collection, id, err, "updating document fields")
		return eris.Wrapf(err, "updating %s/%s", collection, id)
	}
	if result.MatchedCount == 0 {
		return eris.Wrapf(content.ErrNotFound, "%s/%s", collection, id)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logError(collection, id, err, "deleting document")
		return eris.Wrapf(err, "deleting %s/%s", collection, id)
	}
	if result.DeletedCount == 0 {
		return eris.Wrapf(content.ErrNotFound, "%s/%s", collection, id)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return eris.Wrap(err, "pinging mongo")
	}
	return nil
}

func (s *Store) upsert(ctx context.Context, collection, id string, doc any) error {
	payload, err := withID(doc, id)
	if err != nil {
		return err
	}

	_, err = s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, payload, options.Replace().SetUpsert(true))
	if err != nil {
		s.logError(collection, id, err, "replacing document")
		return eris.Wrapf(err, "replacing %s/%s", collection, id)
	}
	return nil
}

// withID round-trips doc through BSON so singletons without an id field and
// records with one are stored the same way.
func withID(doc any, id string) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, eris.Wrap(err, "encoding document")
	}

	var payload bson.M
	if err := bson.Unmarshal(raw, &payload); err != nil {
		return nil, eris.Wrap(err, "decoding document")
	}
	payload["_id"] = id

	return payload, nil
}

func (s *Store) logError(collection, id string, err error, message string) {
	if s.logger == nil {
		return
	}

	fields := logrus.Fields{"component": "docstore", "collection": collection, "error": err.Error()}
	if id != "" {
		fields["id"] = id
	}
	s.logger.WithFields(fields).Error(message)
}
