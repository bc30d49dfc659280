package upstream

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndSnapshot(t *testing.T) {
	Reset()
	defer Reset()

	Record("mux", 10*time.Millisecond, nil)
	Record("mux", 30*time.Millisecond, errors.New("boom"))
	Record("cohere", 5*time.Millisecond, nil)

	snaps := Snapshots()
	require.Contains(t, snaps, "mux")
	require.Contains(t, snaps, "cohere")

	mux := snaps["mux"]
	assert.Equal(t, int64(2), mux.Calls)
	assert.Equal(t, int64(1), mux.Errors)
	assert.InDelta(t, 20.0, mux.AvgLatencyMillis, 0.001)
	assert.InDelta(t, 50.0, mux.ErrorRatePercent, 0.001)

	assert.Equal(t, int64(0), snaps["cohere"].Errors)
}

func TestSnapshotsEmpty(t *testing.T) {
	Reset()
	assert.Empty(t, Snapshots())
}
