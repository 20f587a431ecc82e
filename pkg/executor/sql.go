package executor

import (
	"context"
	"database/sql"

	// Drivers for the MySQL and SQLite executors.
	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"go.uber.org/zap"

	"github.com/quarrydb/quarry/pkg/logger"
	"github.com/quarrydb/quarry/pkg/quarryerrors"
	"github.com/quarrydb/quarry/pkg/queryschema"
	"github.com/quarrydb/quarry/pkg/request"
)

// SQLExecutor runs raw queries through database/sql. It backs the MySQL
// and SQLite providers.
type SQLExecutor struct {
	db     *sql.DB
	dbName string
	logger *zap.Logger
}

// NewSQLExecutor opens a database/sql handle for the given driver and DSN.
// The connection is established lazily; Ping performs the first physical
// connect.
func NewSQLExecutor(driverName, dsn, dbName string) (*SQLExecutor, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeConnection, "failed to open database handle")
	}

	return &SQLExecutor{
		db:     db,
		dbName: dbName,
		logger: logger.With(zap.String("component", "sql_executor"), zap.String("driver", driverName)),
	}, nil
}

// DatabaseName returns the logical database name.
func (e *SQLExecutor) DatabaseName() string {
	return e.dbName
}

// Ping acquires and releases a connection.
func (e *SQLExecutor) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return quarryerrors.Wrap(err, quarryerrors.ErrorTypeConnection, "database liveness check failed")
	}
	return nil
}

// Execute runs one structured query. Only raw actions are supported.
func (e *SQLExecutor) Execute(ctx context.Context, query *request.Query) (*request.Response, error) {
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
func (e *SQLExecutor) Close() error {
	return e.db.Close()
}

func (e *SQLExecutor) queryRaw(ctx context.Context, query *request.Query) (*request.Response, error) {
	args, err := decodeRawArgs(query)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, args.Query, args.Parameters...)
	if err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "raw query failed")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "failed to read result columns")
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "failed to scan result row")
		}

		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
			} else {
				row[column] = values[i]
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "result iteration failed")
	}

	return &request.Response{Data: result}, nil
}

func (e *SQLExecutor) executeRaw(ctx context.Context, query *request.Query) (*request.Response, error) {
	args, err := decodeRawArgs(query)
	if err != nil {
		return nil, err
	}

	result, err := e.db.ExecContext(ctx, args.Query, args.Parameters...)
	if err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "raw execute failed")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		// Some drivers cannot report the count; the statement still ran.
		affected = 0
	}

	return &request.Response{Data: affected}, nil
}
