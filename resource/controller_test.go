package resource

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})
	ctx := context.Background()

	require.NoError(t, c.AcquireMemory(ctx, 50))
	require.NoError(t, c.AcquireMemory(ctx, 40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	timeout, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(timeout, 20), context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())
	require.NoError(t, c.AcquireMemory(ctx, 20))
	assert.Equal(t, int64(60), c.MemoryUsage())

	assert.ErrorIs(t, c.AcquireMemory(ctx, 101), ErrOverBudget)
}

func TestControllerUnlimited(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireMemory(context.Background(), 1<<40))
	assert.True(t, c.TryAcquireMemory(1))
	c.ReleaseMemory(1 << 40)
	assert.Equal(t, int64(1), c.MemoryUsage())
	assert.Equal(t, int64(4), c.Config().MaxConcurrentLoads)
	require.NoError(t, c.AcquireIO(context.Background(), 1<<30))
}

func TestNilController(t *testing.T) {
	var c *Controller
	ctx := context.Background()
	require.NoError(t, c.AcquireMemory(ctx, 10))
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
	require.NoError(t, c.AcquireLoad(ctx))
	assert.True(t, c.TryAcquireLoad())
	c.ReleaseLoad()
	require.NoError(t, c.AcquireIO(ctx, 10))
	assert.Equal(t, int64(DefaultMaxConcurrentLoads), c.Config().MaxConcurrentLoads)
}

func TestControllerLoads(t *testing.T) {
	c := NewController(Config{MaxConcurrentLoads: 2})

	require.NoError(t, c.AcquireLoad(context.Background()))
	require.NoError(t, c.AcquireLoad(context.Background()))
	assert.False(t, c.TryAcquireLoad())

	c.ReleaseLoad()
	assert.True(t, c.TryAcquireLoad())
}

func TestAcquireIOAboveBurst(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	// Burst equals one second of budget; a larger request must not fail.
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20+1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.AcquireIO(ctx, 1<<20))
}

func TestRateLimitedIO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	var out bytes.Buffer
	w := NewRateLimitedWriter(ctx, &out, c)
	_, err := io.Copy(w, strings.NewReader("dictionary bytes"))
	require.NoError(t, err)

	r := NewRateLimitedReader(ctx, &out, c)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "dictionary bytes", string(got))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewRateLimitedReader(canceled, strings.NewReader("x"), c).Read(make([]byte, 1))
	assert.ErrorIs(t, err, context.Canceled)
}
