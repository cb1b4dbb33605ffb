package metrics

import (
	"sync"
	"time"
)

const throughputBuckets = 15

/* Throughput counts deliveries in one-minute buckets over the last fifteen minutes
 * Safe for concurrent use
 */
type Throughput struct {
	mu      sync.Mutex
	buckets [throughputBuckets]int64
	minutes [throughputBuckets]int64
	now     func() time.Time
}

func NewThroughput() *Throughput {
	return &Throughput{now: time.Now}
}

// Add counts one delivery at the current minute
func (t *Throughput) Add() {
	minute := t.now().Unix() / 60
	i := minute % throughputBuckets

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.minutes[i] != minute {
		t.minutes[i] = minute
		t.buckets[i] = 0
	}
	t.buckets[i]++
}

func (t *Throughput) Snapshot() ThroughputMetrics {
	minute := t.now().Unix() / 60

	t.mu.Lock()
	defer t.mu.Unlock()

	var m ThroughputMetrics
	for i := range throughputBuckets {
		age := minute - t.minutes[i]
		if age < 0 || age >= throughputBuckets {
			continue
		}
		n := t.buckets[i]
		if age < 1 {
			m.LastMinute += n
		}
		if age < 5 {
			m.LastFiveMinutes += n
		}
		m.LastFifteenMinutes += n
	}
	return m
}
