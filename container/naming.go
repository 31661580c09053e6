package container

import (
	"strconv"
	"sync"
	"sync/atomic"
)

var (
	countersMu sync.Mutex
	counters   = map[string]*atomic.Int64{}
)

// NextName returns typeName suffixed with a monotonic, process-wide,
// per-type counter starting at 1 (e.g. "Container1-1", "Broadcaster-2").
// Every call takes a mutex briefly to look up (or create) the type name's
// counter in the map; the increment itself is a lock-free atomic add.
func NextName(typeName string) string {
	counter := counterFor(typeName)
	n := counter.Add(1)
	return typeName + "-" + strconv.FormatInt(n, 10)
}

func counterFor(typeName string) *atomic.Int64 {
	countersMu.Lock()
	defer countersMu.Unlock()
	c, ok := counters[typeName]
	if !ok {
		c = &atomic.Int64{}
		counters[typeName] = c
	}
	return c
}
