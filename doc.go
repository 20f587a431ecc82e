// Package quarry provides a schema-driven database access engine: a
// declarative schema describes database connections and models, a
// validation pipeline resolves it into a typed configuration, and a query
// engine dispatches structured requests over the resolved connection.
//
// # Architecture
//
// Quarry is organized around three stages:
//
// 1. Parsing: pkg/schema/ast parses schema text into configuration blocks
// with byte-offset source spans attached to every block and property.
//
// 2. Validation: pkg/datasource and pkg/generator lift the raw blocks into
// validated configuration, collecting every error and warning in a single
// pass (pkg/schema/diag) instead of stopping at the first problem.
// Providers and their capabilities live in pkg/provider.
//
// 3. Runtime: pkg/engine wraps the validated configuration in a two-state
// lifecycle. An engine starts unconnected; Connect establishes the backend
// (pkg/executor), builds the capability-aware query schema
// (pkg/queryschema), and transitions exactly once to the connected state.
// Queries then dispatch concurrently through pkg/request.
//
// # Quick Start
//
// Validate a schema and run a raw query:
//
//	schemaText := []byte(`datasource "db" {
//	  provider = "sqlite"
//	  url      = "file:./dev.db"
//	}`)
//
//	eng, err := engine.New(schemaText, engine.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := eng.Connect(ctx, engine.ConnectParams{EnableRawQueries: true}); err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := eng.Query(ctx, &request.Query{
//	    Action: queryschema.ActionQueryRaw,
//	    Args:   []byte(`{"query":"SELECT 1"}`),
//	})
//
// # Key Packages
//
//	pkg/schema       - Parsing front end and validated configuration
//	pkg/datasource   - Datasource block validation and URL resolution
//	pkg/generator    - Generator blocks and preview feature declarations
//	pkg/provider     - Provider registry and connector capabilities
//	pkg/engine       - Two-state engine lifecycle
//	pkg/executor     - Backend executors (PostgreSQL, MySQL, SQLite)
//	pkg/queryschema  - Datamodel conversion and operation schema
//	pkg/quarryerrors - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Validation, connection and query metrics
//
// The quarry CLI in cmd/quarry validates schema files and lists the
// registered providers.
package quarry
