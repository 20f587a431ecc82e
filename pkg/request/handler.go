package request

import (
	"context"

	"go.uber.org/zap"

	"github.com/quarrydb/quarry/pkg/logger"
	"github.com/quarrydb/quarry/pkg/quarryerrors"
	"github.com/quarrydb/quarry/pkg/queryschema"
)

// Executor runs one structured query against an established connection.
type Executor interface {
	Execute(ctx context.Context, query *Query) (*Response, error)
}

// Handler binds a query schema to an executor for the duration of one
// dispatch. It is cheap to construct per request.
type Handler struct {
	schema   *queryschema.QuerySchema
	executor Executor
	logger   *zap.Logger
}

// NewHandler creates a handler over the given executor and query schema.
func NewHandler(executor Executor, schema *queryschema.QuerySchema) *Handler {
	return &Handler{
		schema:   schema,
		executor: executor,
		logger:   logger.With(zap.String("component", "request_handler")),
	}
}

// Handle validates the requested operation against the query schema and
// dispatches it to the executor.
func (h *Handler) Handle(ctx context.Context, query *Query) (*Response, error) {
	if _, ok := h.schema.Lookup(query.Action, query.Model); !ok {
		return nil, quarryerrors.Newf(quarryerrors.ErrorTypeQuery,
			"operation %q is not part of the query schema for model %q", query.Action, query.Model)
	}

	h.logger.Debug("dispatching query",
		zap.String("action", query.Action),
		zap.String("model", query.Model))

	return h.executor.Execute(ctx, query)
}
