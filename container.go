// Package gfactory provides an Inversion of Control (IoC) container for Go whose
// components are built by named factory functions instead of constructors.
//
// Factory functions are grouped on a FactoryType, the way static methods are
// grouped on a type. Every parameter of the selected function is resolved from the
// container, and circular dependency chains are reported as errors with the full
// chain of in-flight dependencies instead of recursing forever.
//
// Example:
//
//	type DGetIntegers func() []int
//	type DGetStrings func() []string
//
//	func GetIntegersAsStrings(input DGetIntegers) DGetStrings {
//	    return func() []string { ... }
//	}
//
//	func main() {
//	    sources := gfactory.NewFactoryType("StringSources").
//	        Func("GetIntegersAsStrings", GetIntegersAsStrings)
//
//	    c := gfactory.New()
//	    err := c.Register(
//	        gfactory.Component[DGetIntegers]().Instance(DGetIntegers(GetOneToTen)),
//	        gfactory.Component[DGetStrings]().ImplementedBy(sources).Named("GetIntegersAsStrings"),
//	    )
//	    getStrings, err := gfactory.Resolve[DGetStrings](c)
//	    defer c.Release(getStrings)
//	}
package gfactory

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/go-logr/logr"
)

// Container registers components and resolves them. It is safe for concurrent use;
// every top-level resolve call gets its own CreationContext.
type Container struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]*handler
	named    map[string]*handler
	order    []*handler

	resolver DependencyResolver
	log      logr.Logger

	// burden tracks transient instances until they are released
	burdenMu sync.Mutex
	burden   map[uintptr][]*handler

	// Current active scope
	scopeMu      sync.RWMutex
	currentScope *Scope
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		handlers: make(map[reflect.Type]*handler, 16),
		named:    make(map[string]*handler, 16),
		burden:   make(map[uintptr][]*handler),
		log:      logr.Discard(),
	}
	c.resolver = &defaultResolver{kernel: c}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger sets the logger used by the container and its activators.
func WithLogger(log logr.Logger) Option {
	return func(c *Container) {
		c.log = log
	}
}

// WithResolver replaces the resolver used for factory method parameters.
func WithResolver(r DependencyResolver) Option {
	return func(c *Container) {
		c.resolver = r
	}
}

// Register adds components to the container. Nothing is registered if any
// registration is invalid or conflicts with an existing one.
func (c *Container) Register(regs ...*Registration) error {
	models := make([]*ComponentModel, 0, len(regs))
	for _, reg := range regs {
		model, err := reg.model()
		if err != nil {
			return err
		}
		models = append(models, model)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seenTypes := make(map[reflect.Type]bool)
	seenNames := make(map[string]bool)
	for _, model := range models {
		if _, exists := c.named[model.Name]; exists || seenNames[model.Name] {
			return fmt.Errorf("%w: name %q", ErrDuplicateComponent, model.Name)
		}
		seenNames[model.Name] = true
		for _, s := range model.Services {
			if _, exists := c.handlers[s]; exists || seenTypes[s] {
				return fmt.Errorf("%w: service %s", ErrDuplicateComponent, s)
			}
			seenTypes[s] = true
		}
	}

	for _, model := range models {
		h := newHandler(model, c)
		for _, s := range model.Services {
			c.handlers[s] = h
		}
		c.named[model.Name] = h
		c.order = append(c.order, h)
		c.log.V(1).Info("Registered component", "name", model.Name, "lifestyle", model.Lifestyle.String())
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Container) MustRegister(regs ...*Registration) {
	if err := c.Register(regs...); err != nil {
		panic(err)
	}
}

// Resolve returns an instance of the service T.
//
// Example:
//
//	getStrings, err := gfactory.Resolve[DGetStrings](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	instance, err := c.ResolveType(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("type assertion failed: expected %T, got %T", zero, instance)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container) T {
	instance, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return instance
}

// ResolveType returns an instance of service in a new creation context.
func (c *Container) ResolveType(service reflect.Type) (any, error) {
	h, ok := c.handlerFor(service)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoComponent, service)
	}
	return c.resolveTopLevel(h)
}

// ResolveNamed returns an instance of the component registered under name.
func (c *Container) ResolveNamed(name string) (any, error) {
	c.mu.RLock()
	h, ok := c.named[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: name %q", ErrNoComponent, name)
	}
	return c.resolveTopLevel(h)
}

// ResolveWith returns an instance of service within an existing creation context.
// The context must not be shared with another goroutine.
func (c *Container) ResolveWith(cc *CreationContext, service reflect.Type) (any, error) {
	h, ok := c.handlerFor(service)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoComponent, service)
	}
	return h.Resolve(cc)
}

func (c *Container) resolveTopLevel(h *handler) (any, error) {
	cc := NewCreationContext(h)
	instance, err := h.Resolve(cc)
	if err != nil {
		c.log.V(1).Info("Resolution failed", "component", h.model.Name, "context", cc.ID(), "error", err.Error())
		return nil, err
	}
	return instance, nil
}

// Release hands an instance back to the container. Transient instances are
// destroyed through their activator; it reports whether the instance was tracked.
func (c *Container) Release(instance any) bool {
	return c.ReleaseComponent(instance)
}

// Resolver implements Kernel.
func (c *Container) Resolver() DependencyResolver { return c.resolver }

// Logger implements Kernel.
func (c *Container) Logger() logr.Logger { return c.log }

// ReleaseComponent implements Kernel.
func (c *Container) ReleaseComponent(instance any) bool {
	key, ok := instanceKey(instance)
	if !ok {
		return false
	}

	c.burdenMu.Lock()
	tracked := c.burden[key]
	if len(tracked) == 0 {
		c.burdenMu.Unlock()
		return false
	}
	h := tracked[len(tracked)-1]
	if len(tracked) == 1 {
		delete(c.burden, key)
	} else {
		c.burden[key] = tracked[:len(tracked)-1]
	}
	c.burdenMu.Unlock()

	if err := h.activator.Destroy(instance); err != nil {
		c.log.Error(err, "Destroy failed", "component", h.model.Name)
	}
	c.log.V(1).Info("Released component", "component", h.model.Name)
	return true
}

// track records a transient instance. Only pointers, maps and channels are
// tracked. Functions share a key with every closure of the same code and slices
// with any slice starting at the same element, so neither is told apart reliably.
func (c *Container) track(instance any, h *handler) {
	key, ok := instanceKey(instance)
	if !ok {
		return
	}
	c.burdenMu.Lock()
	c.burden[key] = append(c.burden[key], h)
	c.burdenMu.Unlock()
}

func instanceKey(instance any) (uintptr, bool) {
	if instance == nil {
		return 0, false
	}
	v := reflect.ValueOf(instance)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if p := v.Pointer(); p != 0 {
			return p, true
		}
	}
	return 0, false
}

// TrackedCount returns the number of transient instances awaiting release.
func (c *Container) TrackedCount() int {
	c.burdenMu.Lock()
	defer c.burdenMu.Unlock()
	n := 0
	for _, tracked := range c.burden {
		n += len(tracked)
	}
	return n
}

func (c *Container) handlerFor(service reflect.Type) (*handler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[service]
	return h, ok
}

// BeginScope creates and activates a new scope.
// Scoped components resolved afterwards are shared within this scope.
//
// Returns a cleanup function that destroys the scope's instances and restores the
// previous scope.
//
// Example:
//
//	func handleRequest(w http.ResponseWriter, r *http.Request) {
//	    cleanup := c.BeginScope()
//	    defer cleanup()
//
//	    svc, err := gfactory.Resolve[*RequestService](c)
//	    // Use svc...
//	}
func (c *Container) BeginScope() func() {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()

	previous := c.currentScope
	scope := NewScope()
	c.currentScope = scope
	c.log.V(1).Info("Scope started", "scope", scope.ID())

	return func() {
		c.scopeMu.Lock()
		c.currentScope = previous
		c.scopeMu.Unlock()

		if err := scope.Cleanup(); err != nil {
			c.log.Error(err, "Scope cleanup failed", "scope", scope.ID())
		}
		c.log.V(1).Info("Scope ended", "scope", scope.ID())
	}
}

// WithScope executes fn within a new scope and cleans the scope up afterwards,
// even if fn panics.
func (c *Container) WithScope(fn func()) {
	cleanup := c.BeginScope()
	defer cleanup()

	fn()
}

// ActiveScope returns the current scope, or nil.
func (c *Container) ActiveScope() *Scope {
	c.scopeMu.RLock()
	defer c.scopeMu.RUnlock()
	return c.currentScope
}

// ComponentCount returns the number of registered components.
func (c *Container) ComponentCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// ListComponents logs every registered component in registration order.
// This is useful for debugging.
func (c *Container) ListComponents() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.log.Info("Registered components", "count", len(c.order))
	for _, h := range c.order {
		c.log.Info("Component",
			"name", h.model.Name,
			"services", h.model.String(),
			"implementation", h.model.Implementation.Name(),
			"lifestyle", h.model.Lifestyle.String(),
			"dependencies", len(h.model.Dependencies),
		)
	}
}
