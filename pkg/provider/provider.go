// Package provider implements the registry of database backend descriptors.
// Each descriptor recognizes its own provider name(s), validates the shape
// of a connection URL, and produces the backend's connector capability
// descriptor. The builtin set is fixed: MySQL, PostgreSQL, SQLite and
// SQL Server.
package provider

import (
	"fmt"
	"strings"
)

// Canonical provider names.
const (
	MySQL      = "mysql"
	PostgreSQL = "postgresql"
	SQLite     = "sqlite"
	SQLServer  = "sqlserver"
)

// Descriptor is a stateless capability object for one backend kind.
type Descriptor interface {
	// IsProvider reports whether the given declared name identifies this
	// backend, including aliases.
	IsProvider(name string) bool
	// CanonicalName returns the backend's canonical provider name.
	CanonicalName() string
	// CanHandleURL checks the shape of a resolved connection URL. The
	// returned error message is user-facing.
	CanHandleURL(name, url string) error
	// Connector returns the backend's capability descriptor.
	Connector() *Connector
}

type mysqlProvider struct {
	connector *Connector
}

func newMySQLProvider() *mysqlProvider {
	return &mysqlProvider{
		connector: &Connector{
			Name: MySQL,
			Capabilities: []Capability{
				CapabilityJSON,
				CapabilityEnums,
				CapabilityAutoIncrement,
				CapabilityCreateMany,
				CapabilityFullTextSearch,
			},
			NativeTypes: map[string]string{
				"String":   "VARCHAR(191)",
				"Int":      "INT",
				"Float":    "DOUBLE",
				"Boolean":  "TINYINT(1)",
				"DateTime": "DATETIME(3)",
				"Json":     "JSON",
				"Bytes":    "LONGBLOB",
			},
		},
	}
}

func (p *mysqlProvider) IsProvider(name string) bool { return name == MySQL }
func (p *mysqlProvider) CanonicalName() string       { return MySQL }
func (p *mysqlProvider) Connector() *Connector       { return p.connector }

func (p *mysqlProvider) CanHandleURL(name, url string) error {
	if !strings.HasPrefix(url, "mysql://") {
		return fmt.Errorf("the URL must start with the protocol `mysql://`.")
	}
	return nil
}

type postgresProvider struct {
	connector *Connector
}

func newPostgresProvider() *postgresProvider {
	return &postgresProvider{
		connector: &Connector{
			Name: PostgreSQL,
			Capabilities: []Capability{
				CapabilityJSON,
				CapabilityEnums,
				CapabilityAutoIncrement,
				CapabilityCreateMany,
				CapabilityInsensitiveFilters,
				CapabilityRelationJoins,
			},
			NativeTypes: map[string]string{
				"String":   "text",
				"Int":      "integer",
				"Float":    "double precision",
				"Boolean":  "boolean",
				"DateTime": "timestamp(3)",
				"Json":     "jsonb",
				"Bytes":    "bytea",
			},
		},
	}
}

func (p *postgresProvider) IsProvider(name string) bool {
	return name == PostgreSQL || name == "postgres"
}
func (p *postgresProvider) CanonicalName() string { return PostgreSQL }
func (p *postgresProvider) Connector() *Connector { return p.connector }

func (p *postgresProvider) CanHandleURL(name, url string) error {
	if !strings.HasPrefix(url, "postgres://") && !strings.HasPrefix(url, "postgresql://") {
		return fmt.Errorf("the URL must start with the protocol `postgresql://` or `postgres://`.")
	}
	return nil
}

type sqliteProvider struct {
	connector *Connector
}

func newSQLiteProvider() *sqliteProvider {
	return &sqliteProvider{
		connector: &Connector{
			Name: SQLite,
			Capabilities: []Capability{
				CapabilityAutoIncrement,
			},
			NativeTypes: map[string]string{
				"String":   "TEXT",
				"Int":      "INTEGER",
				"Float":    "REAL",
				"Boolean":  "BOOLEAN",
				"DateTime": "NUMERIC",
				"Bytes":    "BLOB",
			},
		},
	}
}

func (p *sqliteProvider) IsProvider(name string) bool { return name == SQLite }
func (p *sqliteProvider) CanonicalName() string { return SQLite }
func (p *sqliteProvider) Connector() *Connector { return p.connector }

func (p *sqliteProvider) CanHandleURL(name, url string) error {
	if !strings.HasPrefix(url, "file:") && !strings.HasPrefix(url, "sqlite:") {
		return fmt.Errorf("the URL must start with the protocol `file:` or `sqlite:`.")
	}
	return nil
}

type sqlserverProvider struct {
	connector *Connector
}

func newSQLServerProvider() *sqlserverProvider {
	return &sqlserverProvider{
		connector: &Connector{
			Name: SQLServer,
			Capabilities: []Capability{
				CapabilityAutoIncrement,
				CapabilityCreateMany,
				CapabilityMultipleIndexesOnName,
			},
			NativeTypes: map[string]string{
				"String":   "nvarchar(1000)",
				"Int":      "int",
				"Float":    "float(53)",
				"Boolean":  "bit",
				"DateTime": "datetime2",
				"Bytes":    "varbinary(max)",
			},
		},
	}
}

func (p *sqlserverProvider) IsProvider(name string) bool { return name == SQLServer }
func (p *sqlserverProvider) CanonicalName() string       { return SQLServer }
func (p *sqlserverProvider) Connector() *Connector       { return p.connector }

func (p *sqlserverProvider) CanHandleURL(name, url string) error {
	if !strings.HasPrefix(url, "sqlserver://") {
		return fmt.Errorf("the URL must start with the protocol `sqlserver://`.")
	}
	return nil
}
