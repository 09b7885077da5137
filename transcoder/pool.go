package transcoder

import (
	"reflect"
	"sync"
)

const (
	// Pool limits to prevent memory bloat
	poolMaxEntries  = 1024
	poolInitEntries = 16
)

// mapEntry holds one key/value pair read from a map iterator. Values are
// taken from the iterator because MapIndex cannot find NaN keys.
type mapEntry struct {
	key   reflect.Value
	value reflect.Value
}

// scratch for collecting and sorting map entries during encoding
var entryPool = sync.Pool{
	New: func() any {
		entries := make([]mapEntry, 0, poolInitEntries)
		return &entries
	},
}

func getEntries() *[]mapEntry {
	return entryPool.Get().(*[]mapEntry)
}

func putEntries(entries *[]mapEntry) {
	if entries == nil || cap(*entries) > poolMaxEntries {
		return // reject oversized
	}
	clear(*entries)
	*entries = (*entries)[:0]
	entryPool.Put(entries)
}
