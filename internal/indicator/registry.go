package indicator

import (
	"sync"

	"github.com/rogersacchelli/stock-analysis/internal/types"
	"github.com/rogersacchelli/stock-analysis/pkg/errors"
)

// Registry manages the set of indicators enabled for a run. It is built
// once from configuration at startup; lookups by name replace any
// per-call branching on indicator strings.
type Registry interface {
	Register(indicator Indicator) error
	Get(name types.IndicatorType) (Indicator, error)
	List() []types.IndicatorType
	Remove(name types.IndicatorType) error
}

type registry struct {
	indicators map[types.IndicatorType]Indicator
	order      []types.IndicatorType
	mu         sync.RWMutex
}

// NewRegistry creates an empty indicator registry.
func NewRegistry() Registry {
	return &registry{
		indicators: make(map[types.IndicatorType]Indicator),
		order:      nil,
		mu:         sync.RWMutex{},
	}
}

// Register adds an indicator to the registry.
func (r *registry) Register(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := indicator.Name()
	if _, exists := r.indicators[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator %s already registered", name)
	}

	r.indicators[name] = indicator
	r.order = append(r.order, name)

	return nil
}

// Get retrieves an indicator by name.
func (r *registry) Get(name types.IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not found", name)
	}

	return indicator, nil
}

// List returns the registered indicator names in registration order.
func (r *registry) List() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, len(r.order))
	copy(names, r.order)

	return names
}

// Remove removes an indicator from the registry.
func (r *registry) Remove(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "indicator %s not found", name)
	}

	delete(r.indicators, name)

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)

			break
		}
	}

	return nil
}
