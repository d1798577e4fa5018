package gfactory

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Scope holds the instances of Scoped components for one unit of work,
// e.g. one request.
type Scope struct {
	id        uuid.UUID
	instances map[*ComponentModel]scopedInstance
	mu        sync.RWMutex
}

type scopedInstance struct {
	value     any
	activator ComponentActivator
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{
		id:        uuid.New(),
		instances: make(map[*ComponentModel]scopedInstance),
	}
}

// ID returns the scope identifier.
func (s *Scope) ID() uuid.UUID { return s.id }

// Len returns the number of instances held by the scope.
func (s *Scope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

func (s *Scope) get(model *ComponentModel) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, exists := s.instances[model]
	return instance.value, exists
}

// set stores value for model unless an instance is already stored, and returns
// the stored instance.
func (s *Scope) set(model *ComponentModel, value any, activator ComponentActivator) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, exists := s.instances[model]; exists {
		return existing.value
	}
	s.instances[model] = scopedInstance{value: value, activator: activator}
	return value
}

// Cleanup destroys every instance in the scope and empties it.
func (s *Scope) Cleanup() error {
	s.mu.Lock()
	instances := s.instances
	s.instances = make(map[*ComponentModel]scopedInstance)
	s.mu.Unlock()

	var errs []error
	for _, instance := range instances {
		if err := instance.activator.Destroy(instance.value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
