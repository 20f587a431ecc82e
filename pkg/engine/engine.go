// Package engine implements the runtime lifecycle around a validated
// schema: an engine starts unconnected, holding only the validated
// configuration and datamodel, and transitions exactly once to a connected
// state capable of dispatching queries. The state is shared across
// concurrent callers behind a reader/writer lock: queries take the shared
// side, the connect transition takes the exclusive side, so the
// already-connected check and the state swap are atomic.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quarrydb/quarry/pkg/datasource"
	"github.com/quarrydb/quarry/pkg/executor"
	"github.com/quarrydb/quarry/pkg/features"
	"github.com/quarrydb/quarry/pkg/logger"
	"github.com/quarrydb/quarry/pkg/metrics"
	"github.com/quarrydb/quarry/pkg/quarryerrors"
	"github.com/quarrydb/quarry/pkg/queryschema"
	"github.com/quarrydb/quarry/pkg/request"
	"github.com/quarrydb/quarry/pkg/schema"
	"github.com/quarrydb/quarry/pkg/schema/arguments"
)

// Lifecycle errors. Both are local-state checks: they never mutate engine
// state and are not retryable.
var (
	ErrAlreadyConnected = quarryerrors.New(quarryerrors.ErrorTypeConflict, "the engine is already connected")
	ErrNotConnected     = quarryerrors.New(quarryerrors.ErrorTypeConnection, "the engine is not connected")
)

// Options configures engine construction.
type Options struct {
	// LookupEnv resolves env() indirection during validation; defaults to
	// os.LookupEnv.
	LookupEnv arguments.LookupEnv
	// URLOverrides replaces datasource URLs by name before validation.
	URLOverrides map[string]string
	// ConnectionLoader substitutes the executor loading collaborator;
	// defaults to the real backend loader.
	ConnectionLoader ConnectionLoader
}

// ConnectParams are the caller-supplied options of the connect transition.
type ConnectParams struct {
	EnableRawQueries bool `json:"enableRawQueries"`
}

// engineBuilder is the unconnected state: validated configuration and
// datamodel, nothing live.
type engineBuilder struct {
	config   *schema.Configuration
	template *queryschema.Template
}

// connectedEngine is the connected state: the built query schema and the
// executor handle, shared read-only by all queries.
type connectedEngine struct {
	querySchema *queryschema.QuerySchema
	executor    executor.Executor
}

// QueryEngine is the two-state runtime object. The transition from builder
// to connected is one-directional and single-shot.
type QueryEngine struct {
	mu        sync.RWMutex
	builder   *engineBuilder
	connected *connectedEngine

	loader ConnectionLoader
	logger *zap.Logger
}

// New parses and validates the schema and constructs an unconnected
// engine. Construction fails closed: any validation error means no engine.
// Preview feature flags from the generator blocks are installed
// process-wide; a conflicting second initialization is a fatal usage error
// surfaced here.
func New(schemaText []byte, opts Options) (*QueryEngine, error) {
	cfg, parsed, diags := schema.ParseConfiguration("schema.quarry", schemaText, datasource.LoadOptions{
		LookupEnv:    opts.LookupEnv,
		URLOverrides: opts.URLOverrides,
	})
	if diags.HasErrors() {
		metrics.SchemaValidations.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, validationError(diags.ErrorMessages())
	}
	metrics.SchemaValidations.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if err := cfg.ValidateThatOneDatasourceIsProvided(); err != nil {
		return nil, quarryerrors.Wrap(*err, quarryerrors.ErrorTypeConfig, "invalid configuration")
	}

	template, dmDiags := queryschema.Convert(parsed)
	if dmDiags.HasErrors() {
		return nil, validationError(dmDiags.ErrorMessages())
	}

	if err := features.Initialize(cfg.PreviewFeatures()); err != nil {
		return nil, err
	}

	loader := opts.ConnectionLoader
	if loader == nil {
		loader = defaultConnectionLoader{}
	}

	return &QueryEngine{
		builder: &engineBuilder{config: cfg, template: template},
		loader:  loader,
		logger:  logger.With(zap.String("component", "query_engine")),
	}, nil
}

// Connect transitions the engine to the connected state. It is only legal
// from the unconnected state; a second call fails with ErrAlreadyConnected
// and leaves the live executor intact. A failed attempt leaves the engine
// unconnected and the caller may retry.
func (e *QueryEngine) Connect(ctx context.Context, params ConnectParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.connected != nil {
		return ErrAlreadyConnected
	}

	ds := e.builder.config.Datasources[0]

	dbName, exec, err := e.loader.Load(ctx, ds)
	if err != nil {
		metrics.ConnectAttempts.WithLabelValues(ds.ActiveProvider, metrics.OutcomeFailure).Inc()
		return err
	}

	// Liveness check: acquire and release a connection before committing
	// to the state swap.
	if err := exec.Ping(ctx); err != nil {
		_ = exec.Close()
		metrics.ConnectAttempts.WithLabelValues(ds.ActiveProvider, metrics.OutcomeFailure).Inc()
		return err
	}

	dataModel := e.builder.template.Build(dbName)
	querySchema := queryschema.Build(dataModel, params.EnableRawQueries, ds.Capabilities())

	e.connected = &connectedEngine{
		querySchema: querySchema,
		executor:    exec,
	}
	e.builder = nil

	metrics.ConnectAttempts.WithLabelValues(ds.ActiveProvider, metrics.OutcomeSuccess).Inc()
	e.logger.Info("engine connected",
		zap.String("provider", ds.ActiveProvider),
		zap.String("database", dbName),
		zap.Int("operations", querySchema.Operations()))

	return nil
}

// Query dispatches one structured request against the connected state. It
// is only legal once connected; before that it fails with ErrNotConnected
// without reaching the executor. Many queries may run concurrently.
func (e *QueryEngine) Query(ctx context.Context, query *request.Query) (*request.Response, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.connected == nil {
		return nil, ErrNotConnected
	}

	defer metrics.ObserveQuery(query.Action, time.Now())

	handler := request.NewHandler(e.connected.executor, e.connected.querySchema)
	return handler.Handle(ctx, query)
}

// Connected reports whether the engine has transitioned to the connected
// state.
func (e *QueryEngine) Connected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected != nil
}

func validationError(messages []string) error {
	err := quarryerrors.New(quarryerrors.ErrorTypeValidation, "schema validation failed")
	return err.WithDetail("errors", strings.Join(messages, "\n"))
}
