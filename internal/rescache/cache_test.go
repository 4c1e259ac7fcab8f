package rescache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gridsight/gridsight/schema"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(tag float64) *schema.Dataset {
	return &schema.Dataset{
		Columns: []string{schema.ColGenerationMW},
		Values:  map[string][]float64{schema.ColGenerationMW: {tag}},
	}
}

func staticLoad(ds *schema.Dataset) LoadFunc {
	return func(context.Context) (*schema.Dataset, error) { return ds, nil }
}

func TestGetOrLoadCachesResult(t *testing.T) {
	var loads atomic.Int32
	c := New(Config{TTL: time.Minute})
	load := func(context.Context) (*schema.Dataset, error) {
		loads.Add(1)
		return testDataset(1), nil
	}

	first, err := c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)
	second, err := c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), loads.Load())
}

func TestGetOrLoadSingleFlight(t *testing.T) {
	var loads atomic.Int32
	c := New(Config{TTL: time.Minute})
	release := make(chan struct{})
	load := func(context.Context) (*schema.Dataset, error) {
		loads.Add(1)
		<-release
		return testDataset(1), nil
	}

	const workers = 20
	var wg sync.WaitGroup
	results := make([]*schema.Dataset, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := c.GetOrLoad(context.Background(), "same-key", load)
			require.NoError(t, err)
			results[i] = ds
		}(i)
	}

	// Give every goroutine a chance to join the flight, then release it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load(), "exactly one load for concurrent callers")
	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestGetOrLoadExpiryTriggersExactlyOneReload(t *testing.T) {
	fc := clockwork.NewFakeClock()
	var loads atomic.Int32
	c := New(Config{TTL: time.Minute, Clock: fc})
	load := func(context.Context) (*schema.Dataset, error) {
		loads.Add(1)
		return testDataset(float64(loads.Load())), nil
	}

	_, err := c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)

	// Within the TTL: still the cached entry.
	fc.Advance(30 * time.Second)
	_, err = c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, int32(1), loads.Load())

	// Past the TTL: exactly one re-load.
	fc.Advance(31 * time.Second)
	ds, err := c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())
	assert.Equal(t, []float64{2}, ds.Column(schema.ColGenerationMW))
}

func TestGetOrLoadFailureNotCached(t *testing.T) {
	var loads atomic.Int32
	boom := errors.New("disk gone")
	c := New(Config{TTL: time.Minute})
	failing := func(context.Context) (*schema.Dataset, error) {
		loads.Add(1)
		return nil, boom
	}

	_, err := c.GetOrLoad(context.Background(), "k", failing)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len(), "failed load must not be cached")

	// A later call retries instead of returning a poisoned entry.
	ds, err := c.GetOrLoad(context.Background(), "k", staticLoad(testDataset(7)))
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, ds.Column(schema.ColGenerationMW))
	assert.Equal(t, int32(1), loads.Load())
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(Config{TTL: time.Minute, Capacity: 2})

	for i := 0; i < 2; i++ {
		_, err := c.GetOrLoad(context.Background(), fmt.Sprintf("k%d", i), staticLoad(testDataset(float64(i))))
		require.NoError(t, err)
	}
	// Touch k0 so k1 becomes the LRU victim.
	_, err := c.GetOrLoad(context.Background(), "k0", staticLoad(testDataset(0)))
	require.NoError(t, err)

	_, err = c.GetOrLoad(context.Background(), "k2", staticLoad(testDataset(2)))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	// k1 must reload; k0 must not.
	var reloads atomic.Int32
	counting := func(context.Context) (*schema.Dataset, error) {
		reloads.Add(1)
		return testDataset(9), nil
	}
	_, err = c.GetOrLoad(context.Background(), "k0", counting)
	require.NoError(t, err)
	assert.Equal(t, int32(0), reloads.Load())
	_, err = c.GetOrLoad(context.Background(), "k1", counting)
	require.NoError(t, err)
	assert.Equal(t, int32(1), reloads.Load())
}

func TestStaleServedWhenLoadExceedsWaitBudget(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := New(Config{TTL: time.Minute, WaitBudget: 2 * time.Second, Clock: fc})

	stale := testDataset(1)
	_, err := c.GetOrLoad(context.Background(), "k", staticLoad(stale))
	require.NoError(t, err)

	// Expire the entry, then start a load that never finishes in time.
	fc.Advance(2 * time.Minute)
	blocked := make(chan struct{})
	done := make(chan *schema.Dataset, 1)
	go func() {
		ds, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (*schema.Dataset, error) {
			<-blocked
			return testDataset(2), nil
		})
		require.NoError(t, err)
		done <- ds
	}()

	// Wait for the lookup to arm its budget timer, then run it out.
	fc.BlockUntil(1)
	fc.Advance(3 * time.Second)

	select {
	case ds := <-done:
		assert.Same(t, stale, ds, "expired entry served after budget elapsed")
	case <-time.After(5 * time.Second):
		t.Fatal("lookup did not fall back to the stale entry")
	}
	close(blocked)
}

func TestSweepExpired(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := New(Config{TTL: time.Minute, Clock: fc})

	for i := 0; i < 3; i++ {
		_, err := c.GetOrLoad(context.Background(), fmt.Sprintf("k%d", i), staticLoad(testDataset(float64(i))))
		require.NoError(t, err)
	}
	fc.Advance(30 * time.Second)
	_, err := c.GetOrLoad(context.Background(), "fresh", staticLoad(testDataset(9)))
	require.NoError(t, err)

	fc.Advance(45 * time.Second) // k0..k2 now expired, "fresh" is not
	assert.Equal(t, 3, c.SweepExpired())
	assert.Equal(t, 1, c.Len())
}

func TestClear(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	_, err := c.GetOrLoad(context.Background(), "k", staticLoad(testDataset(1)))
	require.NoError(t, err)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
