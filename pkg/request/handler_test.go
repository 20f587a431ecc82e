package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/quarryerrors"
	"github.com/quarrydb/quarry/pkg/queryschema"
)

type fakeExecutor struct {
	calls    []*Query
	response *Response
	err      error
}

func (f *fakeExecutor) Execute(_ context.Context, query *Query) (*Response, error) {
	f.calls = append(f.calls, query)
	return f.response, f.err
}

func rawSchema(t *testing.T) *queryschema.QuerySchema {
	t.Helper()
	dm := (&queryschema.Template{}).Build("app")
	return queryschema.Build(dm, true, nil)
}

func TestHandleDispatchesKnownOperation(t *testing.T) {
	exec := &fakeExecutor{response: &Response{Data: "ok"}}
	handler := NewHandler(exec, rawSchema(t))

	resp, err := handler.Handle(context.Background(), &Query{Action: queryschema.ActionQueryRaw})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Data)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, queryschema.ActionQueryRaw, exec.calls[0].Action)
}

func TestHandleRejectsUnknownOperation(t *testing.T) {
	exec := &fakeExecutor{}
	handler := NewHandler(exec, rawSchema(t))

	_, err := handler.Handle(context.Background(), &Query{Action: "findMany", Model: "User"})
	require.Error(t, err)
	assert.Equal(t, quarryerrors.ErrorTypeQuery, quarryerrors.GetType(err))
	assert.Empty(t, exec.calls, "rejected operations never reach the executor")
}

func TestQueryRoundTrip(t *testing.T) {
	data := []byte(`{"action":"queryRaw","args":{"query":"SELECT 1","parameters":[1,"a"]}}`)

	var query Query
	require.NoError(t, Unmarshal(data, &query))
	assert.Equal(t, "queryRaw", query.Action)
	assert.Empty(t, query.Model)

	var args RawArgs
	require.NoError(t, Unmarshal(query.Args, &args))
	assert.Equal(t, "SELECT 1", args.Query)
	assert.Len(t, args.Parameters, 2)
}
