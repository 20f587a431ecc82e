package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrydb/quarry/pkg/quarryerrors"
)

func TestInitializeOnce(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	require.NoError(t, Initialize([]string{FeatureDistinct, FeatureAggregations}))
	assert.True(t, IsEnabled(FeatureDistinct))
	assert.True(t, IsEnabled(FeatureAggregations))
	assert.False(t, IsEnabled(FeatureTransactionAPI))
}

func TestInitializeIdenticalSetIsIdempotent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	require.NoError(t, Initialize([]string{FeatureDistinct, FeatureAggregations}))

	// Order and duplicates do not matter.
	assert.NoError(t, Initialize([]string{FeatureAggregations, FeatureDistinct, FeatureDistinct}))
}

func TestInitializeConflictingSetFails(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	require.NoError(t, Initialize([]string{FeatureDistinct}))

	err := Initialize([]string{FeatureTransactionAPI})
	require.Error(t, err)
	assert.Equal(t, quarryerrors.ErrorTypeConflict, quarryerrors.GetType(err))

	// The original set stays in force after a rejected attempt.
	assert.True(t, IsEnabled(FeatureDistinct))
	assert.False(t, IsEnabled(FeatureTransactionAPI))
}

func TestInitializeEmptySet(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	require.NoError(t, Initialize(nil))
	assert.NoError(t, Initialize([]string{}))
	assert.Error(t, Initialize([]string{FeatureDistinct}))
}

func TestKnown(t *testing.T) {
	assert.True(t, IsKnown(FeatureOrderByRelation))
	assert.False(t, IsKnown("timeTravel"))
	assert.Contains(t, Known(), FeatureMicrosoftSQLServer)
}
