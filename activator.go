package gfactory

import (
	"reflect"

	"github.com/go-logr/logr"
)

// Kernel is the part of the container an activator works against.
type Kernel interface {
	// Resolver returns the resolver used for factory method parameters.
	Resolver() DependencyResolver
	// ReleaseComponent hands an instance back to the container. It reports whether
	// the container was tracking the instance.
	ReleaseComponent(instance any) bool
	Logger() logr.Logger
}

// Handler resolves instances of one registered component.
type Handler interface {
	ComponentModel() *ComponentModel
	Resolve(cc *CreationContext) (any, error)
}

// DependencyResolver produces a value for a dependency within a creation context.
// Resolving may re-enter an activator for a nested component with the same context.
type DependencyResolver interface {
	Resolve(cc *CreationContext, handler Handler, model *ComponentModel, dep *DependencyModel) (any, error)
}

// ComponentActivator creates and destroys instances of one component.
type ComponentActivator interface {
	Create(cc *CreationContext) (any, error)
	Destroy(instance any) error
}

// FactoryActivator creates a component by calling the factory method named after
// the component on its factory type. Each parameter is resolved through the
// kernel's resolver with cycle tracking.
//
// Example:
//
//	c.Register(gfactory.Component[DGetStrings]().
//	    ImplementedBy(stringSources).
//	    Named("GetIntegersAsStrings").
//	    Activator(gfactory.NewFactoryComponentActivator))
type FactoryActivator struct {
	model         *ComponentModel
	kernel        Kernel
	onCreation    InstanceFunc
	onDestruction InstanceFunc
	log           logr.Logger
}

// NewFactoryActivator creates a factory activator bound to model.
func NewFactoryActivator(model *ComponentModel, kernel Kernel, opts ...ActivatorOption) *FactoryActivator {
	a := &FactoryActivator{
		model:  model,
		kernel: kernel,
		log:    kernel.Logger().WithName("factory-activator").WithValues("component", model.Name),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFactoryComponentActivator adapts NewFactoryActivator to ActivatorFunc.
func NewFactoryComponentActivator(model *ComponentModel, kernel Kernel) ComponentActivator {
	return NewFactoryActivator(model, kernel)
}

// WithOnCreation sets a hook called with every created instance.
func WithOnCreation(fn InstanceFunc) ActivatorOption {
	return func(a *FactoryActivator) {
		a.onCreation = fn
	}
}

// WithOnDestruction sets a hook called when an instance is destroyed.
func WithOnDestruction(fn InstanceFunc) ActivatorOption {
	return func(a *FactoryActivator) {
		a.onDestruction = fn
	}
}

// Model returns the component model the activator is bound to.
func (a *FactoryActivator) Model() *ComponentModel { return a.model }

// Create calls the factory method and records the instance as a contextual
// property of cc keyed by the activator.
func (a *FactoryActivator) Create(cc *CreationContext) (any, error) {
	a.log.V(1).Info("Activating component", "context", cc.ID())

	instance, err := a.instantiate(cc)
	if err != nil {
		return nil, err
	}
	cc.AddContextualProperty(a, instance)

	if a.onCreation != nil {
		a.onCreation(a.model, instance)
	}
	return instance, nil
}

// Destroy does nothing to the instance: whatever the factory returned is owned by
// the factory.
func (a *FactoryActivator) Destroy(instance any) error {
	if a.onDestruction != nil {
		a.onDestruction(a.model, instance)
	}
	return nil
}

func (a *FactoryActivator) instantiate(cc *CreationContext) (any, error) {
	method := a.model.Implementation.Method(a.model.Name)

	arguments, signature, err := a.createMethodArguments(method, cc)
	if err != nil {
		return nil, err
	}
	return a.callMethod(method, arguments, signature)
}

func (a *FactoryActivator) callMethod(method *Method, arguments []any, signature []reflect.Type) (any, error) {
	instance, err := method.Invoke(arguments)
	if err == nil {
		return instance, nil
	}

	for _, argument := range arguments {
		if argument != nil {
			a.kernel.ReleaseComponent(argument)
		}
	}
	a.log.Error(err, "Factory method failed", "method", a.model.Name, "type", a.model.Implementation.Name())

	return nil, &ActivatorError{
		Method:    a.model.Name,
		Type:      a.model.Implementation.Name(),
		Signature: signature,
		Err:       err,
	}
}

// instanceActivator returns an externally created instance.
type instanceActivator struct {
	model *ComponentModel
}

func newInstanceActivator(model *ComponentModel, _ Kernel) ComponentActivator {
	return &instanceActivator{model: model}
}

func (a *instanceActivator) Create(*CreationContext) (any, error) {
	return a.model.Instance, nil
}

func (a *instanceActivator) Destroy(any) error { return nil }
