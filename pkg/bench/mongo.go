package bench

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/homcount/pkg/errors"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI      string // default mongodb://localhost:27017
	Database string // default homcount

	ConnectTimeout time.Duration
}

// runsCollection holds one document per record.
const runsCollection = "runs"

// MongoStore keeps records in the "runs" collection of a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewMongoStore connects and pings the server.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "homcount"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping %s", cfg.URI)
	}

	runs := client.Database(cfg.Database).Collection(runsCollection)
	_, err = runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "run_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create index")
	}
	return &MongoStore{client: client, runs: runs}, nil
}

func (s *MongoStore) Save(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, len(records))
	for i, r := range records {
		docs[i] = r
	}
	if _, err := s.runs.InsertMany(ctx, docs); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "insert records")
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, runID string) ([]Record, error) {
	filter := bson.M{}
	if runID != "" {
		filter["run_id"] = runID
	}
	cur, err := s.runs.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find records")
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode records")
	}
	if runID != "" && len(out) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "run %s", runID)
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
