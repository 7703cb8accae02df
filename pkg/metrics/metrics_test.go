package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRoundTrip(t *testing.T) {
	require.NoError(t, InitMetrics(t.TempDir()))
	defer func() { _ = Close() }()

	SetGauge("clinic_test_gauge", 42)

	now := time.Now().Unix()
	points, err := Select("clinic_test_gauge", now-60, now+60)
	require.NoError(t, err)
	require.NotEmpty(t, points)
	assert.Equal(t, 42.0, points[len(points)-1].Value)
}

func TestSelectUnknownMetricIsEmpty(t *testing.T) {
	require.NoError(t, InitMetrics(t.TempDir()))
	defer func() { _ = Close() }()

	points, err := Select("never_recorded", 0, time.Now().Unix())
	require.NoError(t, err)
	assert.Empty(t, points)
}
