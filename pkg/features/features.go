// Package features holds the process-wide preview feature flag state.
// Flags influence query-building logic compiled at engine construction, so
// they are initialized exactly once per process: a second initialization
// with a different flag set is a conflict, while re-initializing with an
// identical set is accepted.
package features

import (
	"sort"
	"strings"
	"sync"

	"github.com/quarrydb/quarry/pkg/quarryerrors"
)

// Known preview feature flags.
const (
	FeatureOrderByRelation    = "orderByRelation"
	FeatureDistinct           = "distinct"
	FeatureAggregations       = "aggregations"
	FeatureTransactionAPI     = "transactionApi"
	FeatureMicrosoftSQLServer = "microsoftSqlServer"
)

var knownFeatures = map[string]bool{
	FeatureOrderByRelation:    true,
	FeatureDistinct:           true,
	FeatureAggregations:       true,
	FeatureTransactionAPI:     true,
	FeatureMicrosoftSQLServer: true,
}

var (
	mu          sync.Mutex
	initialized bool
	current     map[string]bool
	fingerprint string
)

// IsKnown reports whether the name is a recognized preview feature.
func IsKnown(name string) bool {
	return knownFeatures[name]
}

// Known returns the recognized feature names, sorted.
func Known() []string {
	names := make([]string, 0, len(knownFeatures))
	for name := range knownFeatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Initialize installs the process-wide flag set. The first call wins;
// subsequent calls succeed only when they carry the same set (order and
// duplicates are ignored) and fail with a conflict error otherwise.
func Initialize(flags []string) error {
	mu.Lock()
	defer mu.Unlock()

	fp := flagFingerprint(flags)
	if initialized {
		if fp == fingerprint {
			return nil
		}
		return quarryerrors.New(quarryerrors.ErrorTypeConflict,
			"preview feature flags are already initialized for this process with a different set; start a new process to change them")
	}

	set := make(map[string]bool, len(flags))
	for _, flag := range flags {
		set[flag] = true
	}

	initialized = true
	current = set
	fingerprint = fp
	return nil
}

// IsEnabled reports whether a flag was enabled at initialization.
func IsEnabled(name string) bool {
	mu.Lock()
	defer mu.Unlock()
	return current[name]
}

// Reset clears the flag state. Only for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	initialized = false
	current = nil
	fingerprint = ""
}

func flagFingerprint(flags []string) string {
	uniq := make(map[string]bool, len(flags))
	for _, flag := range flags {
		uniq[flag] = true
	}
	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
