// Package cmap provides a sharded, string-keyed concurrent map.
//
// Keys are spread over a power-of-two number of shards by maphash, each
// guarded by its own RWMutex, so goroutines touching different keys
// rarely contend. The web server uses it to register in-flight
// connections by connection ID.
//
// Usage:
//
//	m := cmap.New[net.Conn]()
//	m.Set(id, conn)
//	defer m.Delete(id)
package cmap
