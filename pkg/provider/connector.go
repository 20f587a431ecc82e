package provider

// Capability is one feature a backend connector supports.
type Capability string

const (
	CapabilityJSON                  Capability = "json"
	CapabilityEnums                 Capability = "enums"
	CapabilityAutoIncrement         Capability = "auto_increment"
	CapabilityCreateMany            Capability = "create_many"
	CapabilityInsensitiveFilters    Capability = "insensitive_filters"
	CapabilityRelationJoins         Capability = "relation_joins"
	CapabilityFullTextSearch        Capability = "full_text_search"
	CapabilityMultipleIndexesOnName Capability = "multiple_indexes_with_same_name"
)

// Connector describes a backend's feature set: supported capabilities and
// the mapping from schema scalar types to native database types. Connectors
// are plain data, shared and read-only.
type Connector struct {
	Name         string
	Capabilities []Capability
	// NativeTypes maps a schema scalar type name to the backend's native
	// column type.
	NativeTypes map[string]string
}

// HasCapability reports whether the connector supports the capability.
func (c *Connector) HasCapability(capability Capability) bool {
	for _, have := range c.Capabilities {
		if have == capability {
			return true
		}
	}
	return false
}

// CombinedConnector aggregates several connectors. A capability query
// succeeds if any constituent supports it. This permissiveness exists
// because a datasource may declare provider aliases (for example
// ["postgresql", "postgres"]); capability checks must not reject syntax
// valid for any declared alias.
type CombinedConnector struct {
	connectors []*Connector
}

// Combine builds a combined connector over the given constituents,
// preserving order. Duplicates are allowed.
func Combine(connectors []*Connector) *CombinedConnector {
	return &CombinedConnector{connectors: connectors}
}

// HasCapability reports whether any constituent connector supports the
// capability.
func (c *CombinedConnector) HasCapability(capability Capability) bool {
	for _, connector := range c.connectors {
		if connector.HasCapability(capability) {
			return true
		}
	}
	return false
}

// Constituents returns the constituent connectors in declaration order.
func (c *CombinedConnector) Constituents() []*Connector {
	return c.connectors
}
