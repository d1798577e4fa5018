package gfactory

import (
	"github.com/google/uuid"
)

// CreationContext is the state shared by one top-level resolve call and every
// nested resolution it triggers. It is not safe for concurrent use; each top-level
// request gets its own context.
type CreationContext struct {
	id           uuid.UUID
	handler      Handler
	dependencies *DependencyLedger
	properties   map[any]any
}

// NewCreationContext creates a context for a top-level request made through handler.
// handler may be nil when the request does not originate from a registered component.
func NewCreationContext(handler Handler) *CreationContext {
	return &CreationContext{
		id:           uuid.New(),
		handler:      handler,
		dependencies: newDependencyLedger(),
		properties:   make(map[any]any),
	}
}

// ID returns the context identifier.
func (c *CreationContext) ID() uuid.UUID { return c.id }

// Handler returns the handler that started the request.
func (c *CreationContext) Handler() Handler { return c.handler }

// Dependencies returns the cycle ledger.
func (c *CreationContext) Dependencies() *DependencyLedger { return c.dependencies }

// AddContextualProperty stores value under key for the rest of the request.
func (c *CreationContext) AddContextualProperty(key, value any) {
	c.properties[key] = value
}

// ContextualProperty returns the value stored under key.
func (c *CreationContext) ContextualProperty(key any) (any, bool) {
	v, ok := c.properties[key]
	return v, ok
}

// DependencyLedger is the ordered set of dependency edges currently being resolved.
type DependencyLedger struct {
	keys  []trackingKey
	edges []Edge
	index map[trackingKey]struct{}
}

func newDependencyLedger() *DependencyLedger {
	return &DependencyLedger{index: make(map[trackingKey]struct{})}
}

// Len returns the number of in-flight edges.
func (l *DependencyLedger) Len() int { return len(l.keys) }

// Edges returns the in-flight edges in the order they were entered.
func (l *DependencyLedger) Edges() []Edge {
	return append([]Edge(nil), l.edges...)
}

func (l *DependencyLedger) contains(key trackingKey) bool {
	_, ok := l.index[key]
	return ok
}

func (l *DependencyLedger) add(key trackingKey, edge Edge) {
	l.index[key] = struct{}{}
	l.keys = append(l.keys, key)
	l.edges = append(l.edges, edge)
}

func (l *DependencyLedger) remove(key trackingKey) {
	if _, ok := l.index[key]; !ok {
		return
	}
	delete(l.index, key)
	// Removal is LIFO in practice, so search from the end.
	for i := len(l.keys) - 1; i >= 0; i-- {
		if l.keys[i] == key {
			l.keys = append(l.keys[:i], l.keys[i+1:]...)
			l.edges = append(l.edges[:i], l.edges[i+1:]...)
			return
		}
	}
}
