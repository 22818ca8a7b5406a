package param

import (
	"fmt"
	"sync"
)

// Registry manages plugin parameters in registration order.
type Registry struct {
	params map[uint32]*Parameter
	order  []uint32
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
	}
}

// Add registers parameters. A duplicate ID is an error and leaves the
// registry unchanged from that parameter on.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if existing, exists := r.params[p.ID]; exists {
			return fmt.Errorf("parameter ID %d already used by %q", p.ID, existing.Name)
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return nil
}

// MustAdd is Add for static parameter tables; it panics on a duplicate ID.
func (r *Registry) MustAdd(params ...*Parameter) {
	if err := r.Add(params...); err != nil {
		panic(err)
	}
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}
	return result
}

// Value returns the normalized value of id, or 0 if it is not registered.
func (r *Registry) Value(id uint32) float64 {
	if p := r.Get(id); p != nil {
		return p.GetValue()
	}
	return 0
}

// SetValue sets the normalized value of id. It reports whether the
// parameter exists.
func (r *Registry) SetValue(id uint32, value float64) bool {
	p := r.Get(id)
	if p == nil {
		return false
	}
	p.SetValue(value)
	return true
}

// Values returns a copy of all normalized values keyed by ID.
func (r *Registry) Values() map[uint32]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make(map[uint32]float64, len(r.params))
	for id, p := range r.params {
		values[id] = p.GetValue()
	}
	return values
}

// ResetAll restores every parameter to its default.
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		p.Reset()
	}
}
