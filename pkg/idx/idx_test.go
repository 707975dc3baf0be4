package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducesSortableIDs(t *testing.T) {
	a := New()
	b := New()

	require.False(t, a.IsZero())
	require.False(t, b.IsZero())
	assert.NotEqual(t, a, b)
	assert.Less(t, a.String(), b.String(), "later IDs must sort after earlier ones")
}

func TestParse(t *testing.T) {
	id := New()

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, bad := range []string{"", "   ", "not-a-ulid", "0123456789"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalid, "input: %q", bad)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := NewAt(at)

	assert.WithinDuration(t, at, id.Time(), time.Millisecond)
	assert.True(t, Zero.Time().IsZero())
}
