// Package datasource turns raw datasource configuration blocks into
// validated, immutable Datasource entities, collecting errors and warnings
// across the whole pass instead of failing fast.
package datasource

import (
	"github.com/quarrydb/quarry/pkg/provider"
)

// StringFromEnvVar is a resolved string value together with the name of the
// environment variable it came from, when env() indirection was used.
type StringFromEnvVar struct {
	// FromEnvVar is the source environment variable name, nil for direct
	// literals and overridden values.
	FromEnvVar *string
	Value      string
}

// Datasource is one validated database connection target. It is immutable
// after construction; the URL value is never empty once validation has
// succeeded.
type Datasource struct {
	Name string
	// Provider lists every declared provider name, as written.
	Provider []string
	// ActiveProvider is the canonical name of the single provider whose
	// URL-shape check succeeded first.
	ActiveProvider    string
	URL               StringFromEnvVar
	ShadowDatabaseURL *StringFromEnvVar
	Documentation     string
	// CombinedConnector aggregates the connectors of every matched
	// declared provider for permissive capability checks.
	CombinedConnector *provider.CombinedConnector
	// ActiveConnector is the active provider's own connector.
	ActiveConnector *provider.Connector
}

// Capabilities returns the active provider's connector, which declares the
// capability set used to build the query schema.
func (d *Datasource) Capabilities() *provider.Connector {
	return d.ActiveConnector
}
