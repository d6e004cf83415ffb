package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_ProducesUniqueSortedIDs(t *testing.T) {
	const n = 1000

	seen := make(map[ID]struct{}, n)
	var prev ID
	for range n {
		id := New()
		require.NotContains(t, seen, id)
		seen[id] = struct{}{}

		// Monotonic entropy keeps same-millisecond IDs ordered
		require.Less(t, prev.String(), id.String())
		prev = id
	}
}

func TestNew_Concurrent(t *testing.T) {
	const workers = 8
	const perWorker = 200

	results := make(chan ID, workers*perWorker)
	for range workers {
		go func() {
			for range perWorker {
				results <- New()
			}
		}()
	}

	seen := make(map[ID]struct{}, workers*perWorker)
	for range workers * perWorker {
		id := <-results
		require.NotContains(t, seen, id)
		seen[id] = struct{}{}
	}
}

func TestParse(t *testing.T) {
	id := New()

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	t.Run("rejects junk", func(t *testing.T) {
		for _, s := range []string{"", "  ", "not-a-ulid", "0000"} {
			_, err := Parse(s)
			require.ErrorIs(t, err, ErrInvalid)
		}
	})
}

func TestTime(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	id := NewAt(at)
	require.WithinDuration(t, at, id.Time(), time.Millisecond)

	require.True(t, Zero.Time().IsZero())
}
