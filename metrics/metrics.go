// Package metrics provides the lock-free counters and step histograms the
// verifier reports per run.
package metrics

import (
	"math/bits"
	"sync/atomic"
)

// Counter is a monotonically increasing count.
type Counter struct {
	name string
	n    atomic.Int64
}

// NewCounter returns a zero Counter.
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc adds one.
func (c *Counter) Inc() { c.n.Add(1) }

// Add adds n; non-positive n is ignored so the count never decreases.
func (c *Counter) Add(n int64) {
	if n > 0 {
		c.n.Add(n)
	}
}

func (c *Counter) Value() int64 { return c.n.Load() }
func (c *Counter) Name() string { return c.name }

// NumBuckets is the number of power-of-two histogram buckets. Bucket 0
// holds zero, bucket i holds [2^(i-1), 2^i), the last bucket holds the rest.
const NumBuckets = 33

// Histogram counts non-negative integer samples, such as steps per trace,
// in power-of-two buckets.
type Histogram struct {
	name    string
	count   atomic.Int64
	sum     atomic.Int64
	max     atomic.Int64
	buckets [NumBuckets]atomic.Int64
}

// NewHistogram returns an empty Histogram.
func NewHistogram(name string) *Histogram {
	return &Histogram{name: name}
}

func bucketOf(v int64) int {
	b := bits.Len64(uint64(v))
	if b >= NumBuckets {
		return NumBuckets - 1
	}
	return b
}

// Observe records v. Negative samples count as zero.
func (h *Histogram) Observe(v int64) {
	if v < 0 {
		v = 0
	}
	h.count.Add(1)
	h.sum.Add(v)
	h.buckets[bucketOf(v)].Add(1)
	for {
		cur := h.max.Load()
		if v <= cur || h.max.CompareAndSwap(cur, v) {
			return
		}
	}
}

func (h *Histogram) Count() int64 { return h.count.Load() }
func (h *Histogram) Sum() int64   { return h.sum.Load() }
func (h *Histogram) Max() int64   { return h.max.Load() }
func (h *Histogram) Name() string { return h.name }

// Buckets returns a copy of the bucket counts.
func (h *Histogram) Buckets() [NumBuckets]int64 {
	var out [NumBuckets]int64
	for i := range h.buckets {
		out[i] = h.buckets[i].Load()
	}
	return out
}
