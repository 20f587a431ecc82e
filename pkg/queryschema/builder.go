package queryschema

import (
	"github.com/quarrydb/quarry/pkg/provider"
)

// Actions dispatched through the query schema.
const (
	ActionFindUnique = "findUnique"
	ActionFindMany   = "findMany"
	ActionCreateOne  = "createOne"
	ActionCreateMany = "createMany"
	ActionUpdateOne  = "updateOne"
	ActionDeleteOne  = "deleteOne"
	ActionAggregate  = "aggregate"
	ActionQueryRaw   = "queryRaw"
	ActionExecuteRaw = "executeRaw"
)

// Operation is one queryable operation of a connected engine.
type Operation struct {
	Action string
	// Model is empty for raw operations.
	Model string
}

// QuerySchema is the capability-aware set of operations built from the
// internal data model and the active connector. It is installed once at
// connect time and shared read-only by all subsequent queries.
type QuerySchema struct {
	DatabaseName string
	operations   map[operationKey]Operation
}

type operationKey struct {
	action string
	model  string
}

// Build constructs the query schema. Per-model operations are emitted for
// every model; createMany only when the connector supports it; raw
// operations only when enabled by the connect options.
func Build(dm *DataModel, enableRawQueries bool, capabilities *provider.Connector) *QuerySchema {
	qs := &QuerySchema{
		DatabaseName: dm.DatabaseName,
		operations:   make(map[operationKey]Operation),
	}

	modelActions := []string{
		ActionFindUnique,
		ActionFindMany,
		ActionCreateOne,
		ActionUpdateOne,
		ActionDeleteOne,
		ActionAggregate,
	}
	if capabilities != nil && capabilities.HasCapability(provider.CapabilityCreateMany) {
		modelActions = append(modelActions, ActionCreateMany)
	}

	for _, model := range dm.Models {
		for _, action := range modelActions {
			qs.add(Operation{Action: action, Model: model.Name})
		}
	}

	if enableRawQueries {
		qs.add(Operation{Action: ActionQueryRaw})
		qs.add(Operation{Action: ActionExecuteRaw})
	}

	return qs
}

func (qs *QuerySchema) add(op Operation) {
	qs.operations[operationKey{action: op.Action, model: op.Model}] = op
}

// Lookup returns the operation for an action/model pair.
func (qs *QuerySchema) Lookup(action, model string) (Operation, bool) {
	op, ok := qs.operations[operationKey{action: action, model: model}]
	return op, ok
}

// Operations returns the number of operations in the schema.
func (qs *QuerySchema) Operations() int {
	return len(qs.operations)
}
