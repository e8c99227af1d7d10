// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name>; main constructs it
// with its dependencies and calls component.Register().  The router then
// asks every component to attach its pages onto the shared chi router.

package component

import (
	"sync"

	"github.com/go-chi/chi/v5"
)

// Component contract.
//
// Routes(r) should attach every page the component owns, e.g.:
//
//	func (c *Component) Routes(r chi.Router) {
//		r.Get("/login", c.getLogin)
//		r.Post("/login", c.postLogin)
//	}
type Component interface {
	Name() string
	Routes(r chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register records a constructed component under its Name().
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component in arbitrary order.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	return out
}
