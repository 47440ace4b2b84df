// Package cmap provides a sharded concurrent map.
//
// Keys are spread over a power-of-two number of shards, each guarded by its
// own RWMutex, so readers and writers on different shards never contend.
//
// Usage:
//
//	m := cmap.New[string, []byte]()
//	m.Set("theme", []byte("dark"))
//	v, ok := m.Get("theme")
//
// Range and Keys lock one shard at a time; the view they return is not a
// consistent snapshot across shards.
package cmap
