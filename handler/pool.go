package handler

import (
	"fmt"

	"github.com/realvia/realvia/core"
)

// Pool is the fixed, named set of handlers the orchestrator dispatches into.
// Exactly one handler executes per inbound message; labels missing from the
// pool fall back to the general handler.
type Pool struct {
	handlers map[string]core.Handler
}

// NewPool builds a pool from the given handlers, keyed by name. A handler for
// core.LabelGeneral is required because it is the fallback for every
// defensive path.
func NewPool(handlers ...core.Handler) (*Pool, error) {
	p := &Pool{handlers: make(map[string]core.Handler, len(handlers))}
	for _, h := range handlers {
		if _, dup := p.handlers[h.Name()]; dup {
			return nil, fmt.Errorf("duplicate handler %q", h.Name())
		}
		p.handlers[h.Name()] = h
	}
	if _, ok := p.handlers[core.LabelGeneral]; !ok {
		return nil, fmt.Errorf("pool requires a %q handler", core.LabelGeneral)
	}
	return p, nil
}

// Dispatch maps a routing label to the handler that executes this turn.
func (p *Pool) Dispatch(label string) core.Handler {
	if h, ok := p.handlers[label]; ok {
		return h
	}
	return p.handlers[core.LabelGeneral]
}

// Labels returns the registered handler names.
func (p *Pool) Labels() []string {
	labels := make([]string, 0, len(p.handlers))
	for name := range p.handlers {
		labels = append(labels, name)
	}
	return labels
}
