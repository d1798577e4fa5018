package gfactory

import (
	"sync"
)

// handler applies a component's lifestyle around its activator.
type handler struct {
	model     *ComponentModel
	activator ComponentActivator
	kernel    *Container

	mu       sync.RWMutex
	instance any
	created  bool
}

func newHandler(model *ComponentModel, kernel *Container) *handler {
	return &handler{
		model:     model,
		activator: model.Activator(model, kernel),
		kernel:    kernel,
	}
}

func (h *handler) ComponentModel() *ComponentModel { return h.model }

// Resolve returns an instance of the component within cc.
func (h *handler) Resolve(cc *CreationContext) (any, error) {
	switch h.model.Lifestyle {
	case Transient:
		return h.resolveTransient(cc)
	case Scoped:
		scope := h.kernel.ActiveScope()
		if scope == nil {
			// No active scope, behave like Transient
			return h.resolveTransient(cc)
		}
		if instance, ok := scope.get(h.model); ok {
			return instance, nil
		}
		instance, err := h.activator.Create(cc)
		if err != nil {
			return nil, err
		}
		return scope.set(h.model, instance, h.activator), nil
	}
	return h.resolveSingleton(cc)
}

func (h *handler) resolveTransient(cc *CreationContext) (any, error) {
	instance, err := h.activator.Create(cc)
	if err != nil {
		return nil, err
	}
	h.kernel.track(instance, h)
	return instance, nil
}

// resolveSingleton never holds the lock while the activator runs: a factory may
// resolve further components, and a cycle must surface as an error, not a deadlock.
func (h *handler) resolveSingleton(cc *CreationContext) (any, error) {
	h.mu.RLock()
	if h.created {
		instance := h.instance
		h.mu.RUnlock()
		return instance, nil
	}
	h.mu.RUnlock()

	instance, err := h.activator.Create(cc)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Check again after acquiring write lock
	if h.created {
		return h.instance, nil
	}
	h.instance = instance
	h.created = true
	return instance, nil
}
