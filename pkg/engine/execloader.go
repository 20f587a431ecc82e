package engine

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/quarrydb/quarry/pkg/datasource"
	"github.com/quarrydb/quarry/pkg/executor"
	"github.com/quarrydb/quarry/pkg/provider"
	"github.com/quarrydb/quarry/pkg/quarryerrors"
)

// ConnectionLoader resolves a validated datasource into an executor plus
// the logical database name. The default loader opens real backends; tests
// substitute their own.
type ConnectionLoader interface {
	Load(ctx context.Context, ds *datasource.Datasource) (string, executor.Executor, error)
}

type defaultConnectionLoader struct{}

func (defaultConnectionLoader) Load(ctx context.Context, ds *datasource.Datasource) (string, executor.Executor, error) {
	switch ds.ActiveProvider {
	case provider.PostgreSQL:
		dbName := postgresDatabaseName(ds.URL.Value)
		exec, err := executor.NewPostgresExecutor(ctx, ds.URL.Value, dbName)
		if err != nil {
			return "", nil, err
		}
		return dbName, exec, nil

	case provider.MySQL:
		dsn, dbName, err := mysqlDSN(ds.URL.Value)
		if err != nil {
			return "", nil, err
		}
		exec, err := executor.NewSQLExecutor("mysql", dsn, dbName)
		if err != nil {
			return "", nil, err
		}
		return dbName, exec, nil

	case provider.SQLite:
		dsn := strings.TrimPrefix(ds.URL.Value, "sqlite:")
		exec, err := executor.NewSQLExecutor("sqlite", dsn, "main")
		if err != nil {
			return "", nil, err
		}
		return "main", exec, nil

	case provider.SQLServer:
		return "", nil, quarryerrors.New(quarryerrors.ErrorTypeCapability,
			"no SQL Server executor is bundled with this build")

	default:
		return "", nil, quarryerrors.Newf(quarryerrors.ErrorTypeInternal,
			"no executor mapping for provider %q", ds.ActiveProvider)
	}
}

// mysqlDSN converts a mysql:// URL into the driver's DSN format.
func mysqlDSN(rawURL string) (string, string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", quarryerrors.Wrap(err, quarryerrors.ErrorTypeConnection, "invalid MySQL URL")
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = parsed.Host
	cfg.DBName = strings.TrimPrefix(parsed.Path, "/")
	if parsed.User != nil {
		cfg.User = parsed.User.Username()
		if password, ok := parsed.User.Password(); ok {
			cfg.Passwd = password
		}
	}
	if query := parsed.Query(); len(query) > 0 {
		cfg.Params = make(map[string]string, len(query))
		for key := range query {
			cfg.Params[key] = query.Get(key)
		}
	}

	return cfg.FormatDSN(), cfg.DBName, nil
}

func postgresDatabaseName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return "postgres"
	}
	return path.Base(parsed.Path)
}
