package dedup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker[int]()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
}

func TestTracker_Track_Success(t *testing.T) {
	tracker := NewTracker[string]()

	_, isCandidate := tracker.Track(0x1234567890abcdef, "chunk-0-0")
	require.False(t, isCandidate)
	require.Equal(t, 1, tracker.Count())

	_, isCandidate = tracker.Track(0xfedcba0987654321, "chunk-5-9")
	require.False(t, isCandidate)
	require.Equal(t, 2, tracker.Count())
}

func TestTracker_Track_Candidate(t *testing.T) {
	tracker := NewTracker[string]()

	_, isCandidate := tracker.Track(0x1234567890abcdef, "chunk-0-0")
	require.False(t, isCandidate)

	existing, isCandidate := tracker.Track(0x1234567890abcdef, "chunk-1-1")
	require.True(t, isCandidate)
	require.Equal(t, "chunk-0-0", existing)
	// the tracker only remembers the first key per hash
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker[int]()

	tracker.Track(1, 100)
	tracker.Track(2, 200)
	require.Equal(t, 2, tracker.Count())

	tracker.Reset()
	require.Equal(t, 0, tracker.Count())

	_, isCandidate := tracker.Track(1, 300)
	require.False(t, isCandidate)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_Reset_PreservesCapacity(t *testing.T) {
	tracker := NewTracker[int]()

	for i := 0; i < 100; i++ {
		tracker.Track(uint64(i), i)
	}

	tracker.Reset()
	require.Equal(t, 0, tracker.Count())

	for i := 0; i < 100; i++ {
		_, isCandidate := tracker.Track(uint64(i), i)
		require.False(t, isCandidate)
	}
	require.Equal(t, 100, tracker.Count())
}
