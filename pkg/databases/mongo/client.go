package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/haguru/connectpro/config"
	"github.com/haguru/connectpro/internal/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MAXPOOLSIZE = 10
	IDFIELD     = "_id"
)

// MongoDBClient implements the interfaces.DBClient interface for MongoDB.
type MongoDBClient struct {
	ServerOpts       *options.ServerAPIOptions
	client           *mongo.Client
	db               *mongo.Database
	timeout          time.Duration
	validCollections map[string]bool
	logger           interfaces.Logger
}

// NewMongoDB returns a DBClient for MongoDB. The connection is established
// separately via Connect so the caller controls the timeout and fallback.
func NewMongoDB(dbConfig *config.MongoDBConfig, logger interfaces.Logger) interfaces.DBClient {
	return &MongoDBClient{
		timeout:          dbConfig.Timeout,
		ServerOpts:       config.BuildServerAPIOptions(dbConfig.Options),
		validCollections: config.ListToMap(dbConfig.ValidCollections),
		logger:           logger,
	}
}

// Connect establishes a connection to MongoDB using the provided DSN, in the
// format "mongodb://<host>:<port>/<database>". The database name is taken
// from the DSN path. The whole attempt, including the server-selection ping,
// is bounded by the configured timeout.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	clientOptions := options.Client().ApplyURI(dsn)
	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)
	if m.timeout > 0 {
		clientOptions.SetServerSelectionTimeout(m.timeout)
		clientOptions.SetConnectTimeout(m.timeout)
	}
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	var err error
	m.client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	if err = m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDBClient: failed to reach MongoDB server: %w", err)
	}

	databaseName, err := m.getDBNameFromMongoDSN(dsn)
	if err != nil {
		return fmt.Errorf("MongoDBClient: failed to extract database name from dsn: %w", err)
	}

	m.db = m.client.Database(databaseName)
	m.logger.Info("Connected to MongoDB", "database", databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB database.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping verifies the MongoDB connection health.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("MongoDBClient is not connected")
	}
	return m.client.Ping(ctx, nil)
}

// InsertOne inserts a document and returns its ID. Duplicate key errors are
// returned unwrapped so callers can map them to conflict signals.
func (m *MongoDBClient) InsertOne(ctx context.Context, collectionName string, document interfaces.Document) (interface{}, error) {
	if err := m.checkCollection(collectionName); err != nil {
		return nil, err
	}

	res, err := m.db.Collection(collectionName).InsertOne(ctx, document)
	if err != nil {
		return nil, err
	}

	return res.InsertedID, nil
}

// FindOne decodes the first document matching filter into result. Returns
// interfaces.ErrNoDocument when nothing matches.
func (m *MongoDBClient) FindOne(ctx context.Context, collectionName string, filter interfaces.Document, result interfaces.Document) error {
	if err := m.checkCollection(collectionName); err != nil {
		return err
	}

	err := m.db.Collection(collectionName).FindOne(ctx, filter).Decode(result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return interfaces.ErrNoDocument
		}
		return fmt.Errorf("MongoDBClient: failed to find one in %s: %w", collectionName, err)
	}

	return nil
}

// FindMany decodes every document matching filter into results, honoring the
// sort and limit options when given.
func (m *MongoDBClient) FindMany(ctx context.Context, collectionName string, filter interfaces.Document, opts *interfaces.FindOptions, results interfaces.Document) error {
	if err := m.checkCollection(collectionName); err != nil {
		return err
	}

	findOpts := options.Find()
	if opts != nil {
		if opts.SortField != "" {
			order := 1
			if opts.SortDesc {
				order = -1
			}
			findOpts.SetSort(bson.D{{Key: opts.SortField, Value: order}})
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
	}

	cursor, err := m.db.Collection(collectionName).Find(ctx, filter, findOpts)
	if err != nil {
		return fmt.Errorf("MongoDBClient: finding many in %s failed: %w", collectionName, err)
	}

	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("MongoDBClient: failed to decode cursor for %s: %w", collectionName, err)
	}

	return nil
}

// EnsureSchema creates the required index on the collection from the provided
// mongo.IndexModel. The collection is created automatically if absent.
func (m *MongoDBClient) EnsureSchema(ctx context.Context, collectionName string, schema interfaces.Document) error {
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}
	if err := m.checkCollection(collectionName); err != nil {
		return err
	}

	model, ok := schema.(mongo.IndexModel)
	if !ok {
		return fmt.Errorf("EnsureSchema: expected mongo.IndexModel for MongoDB")
	}

	_, err := m.db.Collection(collectionName).Indexes().CreateOne(ctx, model)
	return err
}

// checkCollection guards every operation against collection names outside the
// configured allow-list.
func (m *MongoDBClient) checkCollection(collectionName string) error {
	if collectionName == "" {
		return fmt.Errorf("MongoDBClient: collection name cannot be empty")
	}
	if !m.validCollections[collectionName] {
		return fmt.Errorf("MongoDBClient: invalid collection name: %s", collectionName)
	}
	return nil
}

// getDBNameFromMongoDSN extracts the database name from a MongoDB DSN.
func (m *MongoDBClient) getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path: %s", dsn)
	}

	// Only the first path segment names the database.
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}

	return dbName, nil
}
