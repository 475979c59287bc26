package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql

	"github.com/haguru/connectpro/internal/interfaces"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections.
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum connection reuse time.
	DefaultConnMaxLifetime = 30 * time.Second
)

// PostgresDatabaseClient implements interfaces.DBClient for PostgreSQL.
// Documents are map[string]interface{} keyed by column name; filters support
// equality conjunctions only, which covers every query this service makes.
type PostgresDatabaseClient struct {
	db              *sql.DB
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	validTables     map[string]bool
	validFields     map[string]bool
}

// NewPostgresDatabaseClient builds an unconnected client. validTables and
// validFields whitelist the identifiers allowed to appear in generated SQL.
func NewPostgresDatabaseClient(maxOpenConns, maxIdleConns int, connMaxLifetime, connectTimeout time.Duration, validTables, validFields []string) *PostgresDatabaseClient {
	tables := make(map[string]bool, len(validTables))
	for _, t := range validTables {
		tables[t] = true
	}
	fields := make(map[string]bool, len(validFields))
	for _, f := range validFields {
		fields[f] = true
	}
	return &PostgresDatabaseClient{
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		ConnectTimeout:  connectTimeout,
		validTables:     tables,
		validFields:     fields,
	}
}

// Connect establishes a connection to a PostgreSQL database. The initial ping
// is bounded by ConnectTimeout.
func (p *PostgresDatabaseClient) Connect(ctx context.Context, dsn string) error {
	var err error
	p.db, err = sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	p.db.SetMaxOpenConns(p.MaxOpenConns)
	p.db.SetMaxIdleConns(p.MaxIdleConns)
	p.db.SetConnMaxLifetime(p.ConnMaxLifetime)

	if p.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.ConnectTimeout)
		defer cancel()
	}

	return p.Ping(ctx)
}

// Disconnect closes the PostgreSQL database connection.
func (p *PostgresDatabaseClient) Disconnect(ctx context.Context) error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Ping checks the health of the PostgreSQL connection.
func (p *PostgresDatabaseClient) Ping(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected")
	}
	return p.db.PingContext(ctx)
}

// InsertOne inserts a single row. 'document' must be a map[string]interface{};
// a UUID id is generated when the document carries none. Constraint errors
// (e.g. unique violations) are returned unwrapped for callers to inspect.
func (p *PostgresDatabaseClient) InsertOne(ctx context.Context, tableName string, document interfaces.Document) (interface{}, error) {
	if err := p.checkTable(tableName); err != nil {
		return nil, err
	}
	docMap, ok := document.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("PostgreSQL InsertOne expects document to be map[string]interface{}")
	}

	if _, exists := docMap["id"]; !exists {
		docMap["id"] = uuid.New().String()
	}

	columns := make([]string, 0, len(docMap))
	placeholders := make([]string, 0, len(docMap))
	values := make([]interface{}, 0, len(docMap))

	i := 1
	for col, val := range docMap {
		if err := p.checkField(col); err != nil {
			return nil, err
		}
		columns = append(columns, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i))
		values = append(values, val)
		i++
	}

	// Table and column names come from the validated allow-lists, never from
	// request input.
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	) // #nosec G201

	var insertedID string
	if err := p.db.QueryRowContext(ctx, query, values...).Scan(&insertedID); err != nil {
		return nil, err
	}
	return insertedID, nil
}

// FindOne retrieves a single row into 'result', a pointer to a struct whose
// column names come from its mapstructure tags. Returns
// interfaces.ErrNoDocument when no row matches.
func (p *PostgresDatabaseClient) FindOne(ctx context.Context, tableName string, filter interfaces.Document, result interfaces.Document) error {
	if err := p.checkTable(tableName); err != nil {
		return err
	}
	whereString, whereValues, err := p.buildWhere(filter, 1)
	if err != nil {
		return err
	}
	if whereString == "" {
		return fmt.Errorf("PostgreSQL FindOne requires a non-empty filter")
	}

	resultValue := reflect.ValueOf(result)
	if resultValue.Kind() != reflect.Ptr || resultValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("result must be a pointer to a struct")
	}
	elem := resultValue.Elem()
	numFields := elem.NumField()

	columns := make([]string, numFields)
	fieldPointers := make([]interface{}, numFields)

	for i := 0; i < numFields; i++ {
		field := elem.Type().Field(i)
		column := field.Tag.Get("mapstructure")
		if column == "" {
			column = strings.ToLower(field.Name)
		}
		columns[i] = column
		fieldPointers[i] = elem.Field(i).Addr().Interface()
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		strings.Join(columns, ", "),
		tableName,
		whereString,
	) // #nosec G201

	row := p.db.QueryRowContext(ctx, query, whereValues...)
	err = row.Scan(fieldPointers...)
	if err == sql.ErrNoRows {
		return interfaces.ErrNoDocument
	}
	return err
}

// FindMany retrieves matching rows and decodes them into 'results', a pointer
// to a slice of structs tagged with mapstructure column names.
func (p *PostgresDatabaseClient) FindMany(ctx context.Context, tableName string, filter interfaces.Document, opts *interfaces.FindOptions, results interfaces.Document) error {
	if err := p.checkTable(tableName); err != nil {
		return err
	}
	whereString, whereValues, err := p.buildWhere(filter, 1)
	if err != nil {
		return err
	}
	if whereString != "" {
		whereString = " WHERE " + whereString
	}

	suffix := ""
	if opts != nil {
		if opts.SortField != "" {
			if err := p.checkField(opts.SortField); err != nil {
				return err
			}
			direction := "ASC"
			if opts.SortDesc {
				direction = "DESC"
			}
			suffix += fmt.Sprintf(" ORDER BY %s %s", opts.SortField, direction)
		}
		if opts.Limit > 0 {
			suffix += fmt.Sprintf(" LIMIT %d", opts.Limit)
		}
	}

	query := fmt.Sprintf("SELECT * FROM %s%s%s", tableName, whereString, suffix) // #nosec G201

	rows, err := p.db.QueryContext(ctx, query, whereValues...)
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	var rowMaps []map[string]interface{}
	for rows.Next() {
		columnPointers := make([]interface{}, len(columns))
		columnValues := make([]interface{}, len(columns))
		for i := range columns {
			columnPointers[i] = &columnValues[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return err
		}

		rowMap := make(map[string]interface{}, len(columns))
		for i, colName := range columns {
			val := columnValues[i]
			if b, ok := val.([]byte); ok {
				rowMap[colName] = string(b)
			} else {
				rowMap[colName] = val
			}
		}
		rowMaps = append(rowMaps, rowMap)
	}
	if err = rows.Err(); err != nil {
		return err
	}

	if err := mapstructure.Decode(rowMaps, results); err != nil {
		return fmt.Errorf("failed to decode rows from %s: %w", tableName, err)
	}
	return nil
}

// EnsureSchema executes backend-specific DDL; 'schema' must be a CREATE TABLE
// (or CREATE INDEX) statement string.
func (p *PostgresDatabaseClient) EnsureSchema(ctx context.Context, tableName string, schema interfaces.Document) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	if err := p.checkTable(tableName); err != nil {
		return err
	}

	createStmt, ok := schema.(string)
	if !ok || createStmt == "" {
		return fmt.Errorf("EnsureSchema expects schema to be a DDL statement string")
	}
	_, err := p.db.ExecContext(ctx, createStmt)
	return err
}

// buildWhere turns an equality filter map into a WHERE conjunction.
func (p *PostgresDatabaseClient) buildWhere(filter interfaces.Document, startParam int) (string, []interface{}, error) {
	if filter == nil {
		return "", nil, nil
	}
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return "", nil, fmt.Errorf("PostgreSQL filter must be map[string]interface{}")
	}

	clauses := make([]string, 0, len(filterMap))
	values := make([]interface{}, 0, len(filterMap))
	paramCount := startParam
	for col, val := range filterMap {
		if err := p.checkField(col); err != nil {
			return "", nil, err
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, paramCount))
		values = append(values, val)
		paramCount++
	}
	return strings.Join(clauses, " AND "), values, nil
}

func (p *PostgresDatabaseClient) checkTable(tableName string) error {
	if tableName == "" {
		return fmt.Errorf("PostgresDatabaseClient: table name cannot be empty")
	}
	if !p.validTables[tableName] {
		return fmt.Errorf("PostgresDatabaseClient: invalid table name: %s", tableName)
	}
	return nil
}

func (p *PostgresDatabaseClient) checkField(field string) error {
	if !p.validFields[field] || strings.ContainsAny(field, " ;$'\"") {
		return fmt.Errorf("PostgresDatabaseClient: invalid field name: %s", field)
	}
	return nil
}
