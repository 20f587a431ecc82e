package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryForName(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		name      string
		canonical string
	}{
		{name: "mysql", canonical: MySQL},
		{name: "postgresql", canonical: PostgreSQL},
		{name: "postgres", canonical: PostgreSQL},
		{name: "sqlite", canonical: SQLite},
		{name: "sqlserver", canonical: SQLServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := registry.ForName(tt.name)
			require.NotNil(t, d)
			assert.Equal(t, tt.canonical, d.CanonicalName())
		})
	}

	assert.Nil(t, registry.ForName("mongodb"))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register(newMySQLProvider())
	assert.Error(t, err)
}

func TestCanHandleURL(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		provider string
		url      string
		ok       bool
	}{
		{provider: "mysql", url: "mysql://root@localhost:3306/app", ok: true},
		{provider: "mysql", url: "postgres://localhost/app", ok: false},
		{provider: "postgresql", url: "postgres://localhost/app", ok: true},
		{provider: "postgresql", url: "postgresql://localhost/app", ok: true},
		{provider: "postgresql", url: "mysql://localhost/app", ok: false},
		{provider: "sqlite", url: "file:./dev.db", ok: true},
		{provider: "sqlite", url: "sqlite://", ok: true},
		{provider: "sqlite", url: "mysql://nope", ok: false},
		{provider: "sqlserver", url: "sqlserver://localhost:1433;database=app", ok: true},
		{provider: "sqlserver", url: "jdbc:sqlserver://localhost", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.provider+" "+tt.url, func(t *testing.T) {
			d := registry.ForName(tt.provider)
			require.NotNil(t, d)
			err := d.CanHandleURL("db", tt.url)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConnectorCapabilities(t *testing.T) {
	registry := NewRegistry()

	postgres := registry.ForName("postgresql").Connector()
	assert.True(t, postgres.HasCapability(CapabilityCreateMany))
	assert.True(t, postgres.HasCapability(CapabilityInsensitiveFilters))

	sqlite := registry.ForName("sqlite").Connector()
	assert.False(t, sqlite.HasCapability(CapabilityCreateMany))
	assert.True(t, sqlite.HasCapability(CapabilityAutoIncrement))
}

func TestCombinedConnectorIsPermissive(t *testing.T) {
	registry := NewRegistry()
	sqlite := registry.ForName("sqlite").Connector()
	postgres := registry.ForName("postgresql").Connector()

	combined := Combine([]*Connector{sqlite, postgres})

	// Any constituent supporting a capability is enough.
	assert.True(t, combined.HasCapability(CapabilityInsensitiveFilters))
	assert.True(t, combined.HasCapability(CapabilityAutoIncrement))
	assert.False(t, combined.HasCapability(CapabilityFullTextSearch))

	assert.Len(t, combined.Constituents(), 2)
}
