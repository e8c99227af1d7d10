// internal/module/registry.go
//
// A super-light registry for ops endpoints: modules call Register(path,
// handler) in an init() function, and the router mounts each exact path
// (no wildcards yet).  Unlike components, modules carry no page templates
// or forms; they answer JSON.
package module

import (
	"net/http"
	"sync"
)

var (
	mu       sync.RWMutex
	registry = map[string]http.HandlerFunc{}
)

// Register is called from module init() functions.
func Register(path string, h http.HandlerFunc) {
	mu.Lock()
	registry[path] = h
	mu.Unlock()
}

// All returns a copy of the path → handler table.
func All() map[string]http.HandlerFunc {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]http.HandlerFunc, len(registry))
	for p, h := range registry {
		out[p] = h
	}
	return out
}
