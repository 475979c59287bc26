package interfaces

import (
	"context"
	"errors"
)

// Document is a generic interface to represent data that can be stored and
// retrieved from the database. It could be a struct, a map[string]interface{},
// or any type the specific driver can marshal/unmarshal.
type Document interface{}

// ErrNoDocument is returned by FindOne when nothing matches the filter.
var ErrNoDocument = errors.New("no matching document")

// FindOptions bounds and orders a FindMany call.
type FindOptions struct {
	// SortField names the field to order by; empty means natural order.
	SortField string
	// SortDesc orders descending when true.
	SortDesc bool
	// Limit caps the result count; zero means no limit.
	Limit int64
}

// DBClient abstracts the database operations this service needs across
// backends (MongoDB, SQL). Deletes and updates are absent on purpose: every
// write in this system is a single record insert.
type DBClient interface {
	// Connect establishes a connection using the given DSN. Implementations
	// bound the attempt with their configured timeout.
	Connect(ctx context.Context, dsn string) error

	// Disconnect closes the connection.
	Disconnect(ctx context.Context) error

	// Ping checks the health of the connection.
	Ping(ctx context.Context) error

	// InsertOne inserts a single document into the named collection/table and
	// returns the stored identifier (ObjectID, UUID string, ...).
	InsertOne(ctx context.Context, collection string, document Document) (interface{}, error)

	// FindOne decodes the first document matching filter into result, or
	// returns ErrNoDocument.
	FindOne(ctx context.Context, collection string, filter Document, result Document) error

	// FindMany decodes every document matching filter into results, which
	// must be a pointer to a slice. opts may be nil.
	FindMany(ctx context.Context, collection string, filter Document, opts *FindOptions, results Document) error

	// EnsureSchema applies backend-specific schema setup for the collection:
	// an index model for MongoDB, a CREATE TABLE statement for SQL.
	EnsureSchema(ctx context.Context, collection string, schema Document) error
}
