package provider

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/quarrydb/quarry/pkg/logger"
)

// Registry holds the ordered set of provider descriptors. Lookup walks the
// list in registration order and the first descriptor recognizing a name
// wins, so registration order is part of the contract.
type Registry struct {
	descriptors []Descriptor
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewRegistry creates a registry preloaded with the builtin providers:
// MySQL, PostgreSQL, SQLite and SQL Server, in that order.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: []Descriptor{
			newMySQLProvider(),
			newPostgresProvider(),
			newSQLiteProvider(),
			newSQLServerProvider(),
		},
		logger: logger.With(zap.String("component", "provider_registry")),
	}
}

// Register appends a descriptor to the registry. Registering a second
// descriptor with an already-claimed canonical name is an error.
func (r *Registry) Register(d Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.descriptors {
		if existing.CanonicalName() == d.CanonicalName() {
			return fmt.Errorf("provider %s already registered", d.CanonicalName())
		}
	}

	r.descriptors = append(r.descriptors, d)
	r.logger.Info("provider registered", zap.String("name", d.CanonicalName()))
	return nil
}

// ForName returns the first descriptor recognizing the declared provider
// name, or nil when none does.
func (r *Registry) ForName(name string) Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.descriptors {
		if d.IsProvider(name) {
			return d
		}
	}
	return nil
}

// List returns the descriptors in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}
