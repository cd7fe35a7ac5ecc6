package world

import "github.com/pixil98/go-tileworld/internal/resource"

type EngineOpt func(*Engine)

// WithEvents publishes save/load lifecycle events to the given sink.
func WithEvents(pub resource.Publisher) EngineOpt {
	return func(e *Engine) {
		e.events = pub
	}
}
