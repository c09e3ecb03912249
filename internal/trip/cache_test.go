package trip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetPut(t *testing.T) {
	c := NewCache(CacheConfig{TTL: time.Minute})

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Put("k", Result{Mode: ModeDriving, Cost: 12.34, Available: true})

	res, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 12.34, res.Cost)
}

func TestCache_ExpiryEvictsLazily(t *testing.T) {
	c := NewCache(CacheConfig{TTL: 30 * time.Millisecond})

	c.Put("k", Result{Mode: ModeWalking, Available: true})
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is deleted on read")
}

func TestCache_PutOverwrites(t *testing.T) {
	c := NewCache(CacheConfig{TTL: time.Minute})

	c.Put("k", Result{Mode: ModeDriving, Cost: 1})
	c.Put("k", Result{Mode: ModeDriving, Cost: 2})

	res, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2.0, res.Cost)
	assert.Equal(t, 1, c.Len())
}

func TestCache_Sweep(t *testing.T) {
	c := NewCache(CacheConfig{TTL: 10 * time.Millisecond})

	c.Put("a", Result{})
	c.Put("b", Result{})
	time.Sleep(20 * time.Millisecond)
	c.Put("c", Result{})

	c.sweep()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("c")
	assert.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(CacheConfig{TTL: time.Minute})

	c.Put("a", Result{})
	c.Put("b", Result{})
	c.Clear()

	assert.Equal(t, 0, c.Len())
}

func TestCache_Stats(t *testing.T) {
	c := NewCache(CacheConfig{TTL: 20 * time.Millisecond})

	c.Put("old", Result{})
	time.Sleep(30 * time.Millisecond)
	c.Put("fresh", Result{})

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.FreshEntries)
}

func TestFingerprint_ExcludesSession(t *testing.T) {
	base := Query{
		Origin:          "116.48,39.99",
		Destination:     "116.43,39.92",
		Mode:            ModeDriving,
		PowerType:       PowerHybrid,
		CongestionRange: CongestionMid,
	}

	a := base
	a.SessionID = "session-a"
	b := base
	b.SessionID = "session-b"

	assert.Equal(t, Fingerprint(a), Fingerprint(b),
		"two sessions asking the identical question share one entry")
}

func TestFingerprint_DistinguishesParameters(t *testing.T) {
	base := Query{
		Origin:      "116.48,39.99",
		Destination: "116.43,39.92",
		Mode:        ModeDriving,
	}

	quota := base
	quota.HasCongestionQuota = true
	taxi := base
	taxi.Mode = ModeTaxi

	assert.NotEqual(t, Fingerprint(base), Fingerprint(quota))
	assert.NotEqual(t, Fingerprint(base), Fingerprint(taxi))
}
