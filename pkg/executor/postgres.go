package executor

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/quarrydb/quarry/pkg/logger"
	"github.com/quarrydb/quarry/pkg/quarryerrors"
	"github.com/quarrydb/quarry/pkg/queryschema"
	"github.com/quarrydb/quarry/pkg/request"
)

// PostgresExecutor runs raw queries through a pgx connection pool.
type PostgresExecutor struct {
	pool   *pgxpool.Pool
	dbName string
	logger *zap.Logger
}

// NewPostgresExecutor creates a pgx pool for the given connection URL.
// Connections are established on demand; Ping performs the first physical
// connect.
func NewPostgresExecutor(ctx context.Context, url, dbName string) (*PostgresExecutor, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeConnection, "failed to create connection pool")
	}

	return &PostgresExecutor{
		pool:   pool,
		dbName: dbName,
		logger: logger.With(zap.String("component", "postgres_executor")),
	}, nil
}

// DatabaseName returns the logical database name.
func (e *PostgresExecutor) DatabaseName() string {
	return e.dbName
}

// Ping acquires and releases a connection.
func (e *PostgresExecutor) Ping(ctx context.Context) error {
	if err := e.pool.Ping(ctx); err != nil {
		return quarryerrors.Wrap(err, quarryerrors.ErrorTypeConnection, "database liveness check failed")
	}
	return nil
}

// Execute runs one structured query. Only raw actions are supported.
func (e *PostgresExecutor) Execute(ctx context.Context, query *request.Query) (*request.Response, error) {
	switch query.Action {
	case queryschema.ActionQueryRaw:
		return e.queryRaw(ctx, query)
	case queryschema.ActionExecuteRaw:
		return e.executeRaw(ctx, query)
	default:
		return nil, errUnplannedAction(query.Action)
	}
}

// Close releases the pool.
func (e *PostgresExecutor) Close() error {
	e.pool.Close()
	return nil
}

func (e *PostgresExecutor) queryRaw(ctx context.Context, query *request.Query) (*request.Response, error) {
	args, err := decodeRawArgs(query)
	if err != nil {
		return nil, err
	}

	rows, err := e.pool.Query(ctx, args.Query, args.Parameters...)
	if err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "raw query failed")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()

	var result []map[string]interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "failed to read result row")
		}

		row := make(map[string]interface{}, len(fields))
		for i, field := range fields {
			row[field.Name] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "result iteration failed")
	}

	return &request.Response{Data: result}, nil
}

func (e *PostgresExecutor) executeRaw(ctx context.Context, query *request.Query) (*request.Response, error) {
	args, err := decodeRawArgs(query)
	if err != nil {
		return nil, err
	}

	tag, err := e.pool.Exec(ctx, args.Query, args.Parameters...)
	if err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "raw execute failed")
	}

	return &request.Response{Data: tag.RowsAffected()}, nil
}
