package datasource

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/schema/arguments"
	"github.com/quarrydb/quarry/pkg/schema/ast"
	"github.com/quarrydb/quarry/pkg/schema/diag"
)

func parseSchema(t *testing.T, src string) *ast.Schema {
	t.Helper()
	schema, diags := ast.ParseSchema("test.quarry", []byte(src))
	require.False(t, diags.HasErrors(), diags.Error())
	return schema
}

func testEnv(vars map[string]string) arguments.LookupEnv {
	return func(name string) (string, bool) {
		value, ok := vars[name]
		return value, ok
	}
}

func loadOne(t *testing.T, src string, opts LoadOptions) (*Datasource, diag.Diagnostics) {
	t.Helper()
	sources, diags := NewLoader(nil).LoadFromSchema(parseSchema(t, src), opts)
	if diags.HasErrors() {
		return nil, diags
	}
	require.Len(t, sources, 1)
	return sources[0], diags
}

func TestLoadSQLiteDatasource(t *testing.T) {
	ds, diags := loadOne(t, `datasource "db" {
  provider = "sqlite"
  url      = "file:./dev.db"
}
`, LoadOptions{})

	require.NotNil(t, ds)
	assert.Empty(t, diags.Warnings)
	assert.Equal(t, "db", ds.Name)
	assert.Equal(t, "sqlite", ds.ActiveProvider)
	assert.Equal(t, []string{"sqlite"}, ds.Provider)
	assert.Equal(t, "file:./dev.db", ds.URL.Value)
	assert.Nil(t, ds.URL.FromEnvVar)
	assert.Nil(t, ds.ShadowDatabaseURL)
	assert.NotNil(t, ds.ActiveConnector)
	assert.NotNil(t, ds.CombinedConnector)
}

func TestLoadEmptyURLFails(t *testing.T) {
	_, diags := loadOne(t, `datasource "db" {
  provider = "mysql"
  url      = ""
}
`, LoadOptions{})

	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.Errors[0].Message, "You must provide a nonempty URL for the datasource `db`.")
	assert.NotContains(t, diags.Errors[0].Message, "environment variable")
}

func TestLoadProviderAliasArray(t *testing.T) {
	ds, diags := loadOne(t, `datasource "db" {
  provider = ["postgresql", "postgres"]
  url      = "postgres://localhost:5432/app"
}
`, LoadOptions{})

	require.NotNil(t, ds)
	require.Len(t, diags.Warnings, 1)
	assert.Contains(t, diags.Warnings[0].Message, "deprecated")

	// Both aliases resolve to the same descriptor; the first URL-shape
	// success wins.
	assert.Equal(t, "postgresql", ds.ActiveProvider)
	assert.Equal(t, []string{"postgresql", "postgres"}, ds.Provider)
	assert.Len(t, ds.CombinedConnector.Constituents(), 2)
}

func TestLoadPreviewFeaturesMisplaced(t *testing.T) {
	_, diags := loadOne(t, `datasource "db" {
  provider        = "sqlite"
  url             = "file:./dev.db"
  previewFeatures = ["x"]
}
`, LoadOptions{})

	require.True(t, diags.HasErrors())
	assert.Equal(t, diag.KindConnector, diags.Errors[0].Kind)
	assert.Contains(t, diags.Errors[0].Message, "Preview features are only supported in the generator block.")
}

func TestLoadEmptyPreviewFeaturesAccepted(t *testing.T) {
	ds, diags := loadOne(t, `datasource "db" {
  provider        = "sqlite"
  url             = "file:./dev.db"
  previewFeatures = []
}
`, LoadOptions{})

	require.NotNil(t, ds, "%v", diags.ErrorMessages())
}

func TestLoadEmptyProviderList(t *testing.T) {
	_, diags := loadOne(t, `datasource "db" {
  provider = []
  url      = "file:./dev.db"
}
`, LoadOptions{})

	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.Errors[0].Message, "The provider argument in a datasource must not be empty")
	// The array-form warning is still reported for the failed block.
	assert.Len(t, diags.Warnings, 1)
}

func TestLoadProviderFromEnvForbidden(t *testing.T) {
	_, diags := loadOne(t, `datasource "db" {
  provider = env("DB_PROVIDER")
  url      = "file:./dev.db"
}
`, LoadOptions{LookupEnv: testEnv(map[string]string{"DB_PROVIDER": "sqlite"})})

	require.True(t, diags.HasErrors())
	assert.Equal(t, diag.KindFunctionalEvaluation, diags.Errors[0].Kind)
	assert.Contains(t, diags.Errors[0].Message, "must not use the env() function in the provider argument")
}

func TestLoadProviderNotKnown(t *testing.T) {
	_, diags := loadOne(t, `datasource "db" {
  provider = ["mongodb", "dynamo"]
  url      = "mongodb://localhost/app"
}
`, LoadOptions{})

	require.True(t, diags.HasErrors())
	assert.Equal(t, diag.KindProviderNotKnown, diags.Errors[0].Kind)
	assert.Contains(t, diags.Errors[0].Message, "mongodb,dynamo")
}

func TestLoadURLShapeRejected(t *testing.T) {
	_, diags := loadOne(t, `datasource "db" {
  provider = "mysql"
  url      = "postgres://localhost/app"
}
`, LoadOptions{})

	require.True(t, diags.HasErrors())
	require.Len(t, diags.Errors, 1, "the first URL error wins, never an aggregate")
	assert.Contains(t, diags.Errors[0].Message, "the URL must start with the protocol `mysql://`.")
}

func TestLoadMissingArgumentIsRetagged(t *testing.T) {
	_, diags := loadOne(t, `datasource "db" {
  provider = "sqlite"
}
`, LoadOptions{})

	require.True(t, diags.HasErrors())
	assert.Equal(t, diag.KindSourceArgumentNotFound, diags.Errors[0].Kind)
	assert.Equal(t, `Argument "url" is missing in data source block "db".`, diags.Errors[0].Message)
}

func TestLoadURLFromEnv(t *testing.T) {
	env := testEnv(map[string]string{"TEST_DB_URL": "  postgres://localhost:5432/app  "})

	ds, diags := loadOne(t, `datasource "db" {
  provider = "postgresql"
  url      = env("TEST_DB_URL")
}
`, LoadOptions{LookupEnv: env})

	require.NotNil(t, ds, "%v", diags.ErrorMessages())
	require.NotNil(t, ds.URL.FromEnvVar)
	assert.Equal(t, "TEST_DB_URL", *ds.URL.FromEnvVar)
	assert.Equal(t, "postgres://localhost:5432/app", ds.URL.Value, "whitespace is trimmed")
}

func TestLoadURLFromEmptyEnvVar(t *testing.T) {
	_, diags := loadOne(t, `datasource "db" {
  provider = "postgresql"
  url      = env("TEST_DB_URL")
}
`, LoadOptions{LookupEnv: testEnv(map[string]string{"TEST_DB_URL": ""})})

	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.Errors[0].Message, "You must provide a nonempty URL for the datasource `db`.")
	assert.Contains(t, diags.Errors[0].Message, "The environment variable `TEST_DB_URL` resolved to an empty string.")
}

func TestLoadIgnoreURLs(t *testing.T) {
	t.Run("placeholder substitution", func(t *testing.T) {
		ds, diags := loadOne(t, `datasource "db" {
  provider = "mysql"
  url      = env("UNSET_URL")
}
`, LoadOptions{IgnoreURLs: true, LookupEnv: testEnv(nil)})

		require.NotNil(t, ds, "%v", diags.ErrorMessages())
		assert.Equal(t, "mysql://", ds.URL.Value)
		assert.Nil(t, ds.URL.FromEnvVar, "the placeholder records no environment variable")
	})

	t.Run("wrong value kind still surfaces", func(t *testing.T) {
		_, diags := loadOne(t, `datasource "db" {
  provider = "mysql"
  url      = 42
}
`, LoadOptions{IgnoreURLs: true})

		require.True(t, diags.HasErrors())
		assert.Equal(t, diag.KindTypeMismatch, diags.Errors[0].Kind)
	})
}

func TestLoadURLOverride(t *testing.T) {
	ds, diags := loadOne(t, `datasource "db" {
  provider = "postgresql"
  url      = env("UNSET_URL")
}
`, LoadOptions{
		LookupEnv:    testEnv(nil),
		URLOverrides: map[string]string{"db": "postgres://override:5432/app"},
	})

	require.NotNil(t, ds, "%v", diags.ErrorMessages())
	assert.Equal(t, "postgres://override:5432/app", ds.URL.Value)
	assert.Nil(t, ds.URL.FromEnvVar, "overridden URLs record no environment variable")
}

func TestLoadShadowDatabaseURL(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ds, diags := loadOne(t, `datasource "db" {
  provider          = "postgresql"
  url               = "postgres://localhost/app"
  shadowDatabaseUrl = "postgres://localhost/app_shadow"
}
`, LoadOptions{})

		require.NotNil(t, ds, "%v", diags.ErrorMessages())
		require.NotNil(t, ds.ShadowDatabaseURL)
		assert.Equal(t, "postgres://localhost/app_shadow", ds.ShadowDatabaseURL.Value)
	})

	t.Run("empty when present fails", func(t *testing.T) {
		_, diags := loadOne(t, `datasource "db" {
  provider          = "postgresql"
  url               = "postgres://localhost/app"
  shadowDatabaseUrl = ""
}
`, LoadOptions{})

		require.True(t, diags.HasErrors())
		assert.Contains(t, diags.Errors[0].Message, "You must provide a nonempty URL")
	})
}

func TestLoadMultipleDatasources(t *testing.T) {
	schema := parseSchema(t, `datasource "one" {
  provider = "sqlite"
  url      = "file:./one.db"
}

datasource "two" {
  provider = "sqlite"
  url      = "file:./two.db"
}
`)

	sources, diags := NewLoader(nil).LoadFromSchema(schema, LoadOptions{})

	assert.Nil(t, sources, "no usable datasources are returned")
	require.Len(t, diags.Errors, 2, "one multiplicity error per block")
	for _, err := range diags.Errors {
		assert.Contains(t, err.Message, "more than one datasource")
	}
	assert.Equal(t, "one", diags.Errors[0].BlockName)
	assert.Equal(t, "two", diags.Errors[1].BlockName)
}

func TestLoadCollectsErrorsAcrossBlocks(t *testing.T) {
	schema := parseSchema(t, `datasource "one" {
  provider = "sqlite"
}

datasource "two" {
  provider = "mysql"
  url      = ""
}
`)

	sources, diags := NewLoader(nil).LoadFromSchema(schema, LoadOptions{})

	assert.Nil(t, sources)
	require.Len(t, diags.Errors, 2, "a single pass reports all problems across all blocks")
	assert.Contains(t, diags.Errors[0].Message, `missing in data source block "one"`)
	assert.Contains(t, diags.Errors[1].Message, "nonempty URL for the datasource `two`")
}

func TestLoadIsIdempotent(t *testing.T) {
	schema := parseSchema(t, `datasource "db" {
  provider = ["postgresql", "postgres"]
  url      = ""
}
`)
	loader := NewLoader(nil)

	_, first := loader.LoadFromSchema(schema, LoadOptions{})
	_, second := loader.LoadFromSchema(schema, LoadOptions{})

	assert.True(t, reflect.DeepEqual(first, second), "re-running validation yields identical diagnostics")
}
