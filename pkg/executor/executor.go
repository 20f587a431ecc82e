// Package executor provides the opaque query executors a connected engine
// dispatches to. An executor wraps one established physical backend
// connection; executors carry raw query dispatch only, since SQL
// generation and query planning happen in a later stage.
package executor

import (
	"context"

	"github.com/quarrydb/quarry/pkg/quarryerrors"
	"github.com/quarrydb/quarry/pkg/queryschema"
	"github.com/quarrydb/quarry/pkg/request"
)

// Executor is an opaque handle capable of running queries against an
// established connection. Implementations are safe for concurrent use.
type Executor interface {
	// DatabaseName returns the logical database name of the connection.
	DatabaseName() string
	// Ping acquires and releases a connection as a liveness check.
	Ping(ctx context.Context) error
	// Execute runs one structured query.
	Execute(ctx context.Context, query *request.Query) (*request.Response, error)
	// Close releases the underlying connection resources.
	Close() error
}

// decodeRawArgs extracts the raw SQL arguments of a queryRaw/executeRaw
// request.
func decodeRawArgs(query *request.Query) (*request.RawArgs, error) {
	if len(query.Args) == 0 {
		return nil, quarryerrors.New(quarryerrors.ErrorTypeQuery,
			"raw query requests require an args object with a query string")
	}

	var args request.RawArgs
	if err := request.Unmarshal(query.Args, &args); err != nil {
		return nil, quarryerrors.Wrap(err, quarryerrors.ErrorTypeQuery, "malformed raw query args")
	}
	if args.Query == "" {
		return nil, quarryerrors.New(quarryerrors.ErrorTypeQuery,
			"raw query requests require a non-empty query string")
	}
	return &args, nil
}

// errUnplannedAction rejects structured actions, which need the downstream
// query planner.
func errUnplannedAction(action string) error {
	return quarryerrors.Newf(quarryerrors.ErrorTypeCapability,
		"action %q requires the query planner, which is not part of this engine; use %s or %s",
		action, queryschema.ActionQueryRaw, queryschema.ActionExecuteRaw)
}
