package gfactory

import (
	"fmt"
	"reflect"
)

// Registration describes one component to register with a Container.
//
// Example:
//
//	c.Register(
//	    gfactory.Component[DGetIntegers]().Instance(DGetIntegers(GetOneToTen)),
//	    gfactory.Component[DGetStrings]().ImplementedBy(stringSources).Named("GetIntegersAsStrings"),
//	)
type Registration struct {
	services    []reflect.Type
	name        string
	impl        *FactoryType
	instance    any
	hasInstance bool
	lifestyle   Lifestyle
	activator   ActivatorFunc
	parameters  map[string]any
}

// Component starts a registration for the service type T.
func Component[T any]() *Registration {
	return ComponentFor(reflect.TypeOf((*T)(nil)).Elem())
}

// ComponentFor starts a registration for the given service types.
func ComponentFor(services ...reflect.Type) *Registration {
	return &Registration{services: services}
}

// Instance registers an already created value.
func (r *Registration) Instance(instance any) *Registration {
	r.instance = instance
	r.hasInstance = true
	return r
}

// ImplementedBy sets the factory type whose method creates the component.
func (r *Registration) ImplementedBy(impl *FactoryType) *Registration {
	r.impl = impl
	return r
}

// Named sets the component name, which is also the factory method name.
func (r *Registration) Named(name string) *Registration {
	r.name = name
	return r
}

// LifestyleSingleton shares one instance for the container lifetime.
func (r *Registration) LifestyleSingleton() *Registration { return r.WithLifestyle(Singleton) }

// LifestyleTransient creates a new instance on every resolve.
func (r *Registration) LifestyleTransient() *Registration { return r.WithLifestyle(Transient) }

// LifestyleScoped shares one instance per active scope.
func (r *Registration) LifestyleScoped() *Registration { return r.WithLifestyle(Scoped) }

// WithLifestyle sets the lifestyle.
func (r *Registration) WithLifestyle(l Lifestyle) *Registration {
	r.lifestyle = l
	return r
}

// Activator overrides the activation strategy.
func (r *Registration) Activator(fn ActivatorFunc) *Registration {
	r.activator = fn
	return r
}

// DependsOn supplies the value for the factory parameter called name.
func (r *Registration) DependsOn(name string, value any) *Registration {
	if r.parameters == nil {
		r.parameters = make(map[string]any)
	}
	r.parameters[name] = value
	return r
}

// model validates the registration and builds its component model.
func (r *Registration) model() (*ComponentModel, error) {
	if len(r.services) == 0 {
		return nil, fmt.Errorf("%w: no service type", ErrInvalidRegistration)
	}
	if r.hasInstance == (r.impl != nil) {
		return nil, fmt.Errorf("%w: %s needs exactly one of Instance or ImplementedBy", ErrInvalidRegistration, r.services[0])
	}

	model := &ComponentModel{
		Name:           r.name,
		Services:       r.services,
		Implementation: r.impl,
		Lifestyle:      r.lifestyle,
		Parameters:     r.parameters,
		Activator:      r.activator,
	}

	if r.hasInstance {
		if r.instance == nil {
			return nil, fmt.Errorf("%w: nil instance for %s", ErrInvalidRegistration, r.services[0])
		}
		for _, s := range r.services {
			if !reflect.TypeOf(r.instance).AssignableTo(s) {
				return nil, fmt.Errorf("%w: instance %T is not assignable to %s", ErrInvalidRegistration, r.instance, s)
			}
		}
		if model.Name == "" {
			model.Name = r.services[0].String()
		}
		model.Instance = r.instance
		if model.Activator == nil {
			model.Activator = newInstanceActivator
		}
		return model, nil
	}

	if model.Name == "" {
		if methods := r.impl.Methods(); len(methods) == 1 {
			model.Name = methods[0].Name()
		}
	}
	method := r.impl.Method(model.Name)
	if method == nil {
		return nil, fmt.Errorf("%w: %s: %q on %s", ErrInvalidRegistration, ErrMethodNotFound, model.Name, r.impl.Name())
	}
	for _, s := range r.services {
		if !method.ReturnType().AssignableTo(s) {
			return nil, fmt.Errorf("%w: %s.%s returns %s, not assignable to %s",
				ErrInvalidRegistration, r.impl.Name(), method.Name(), method.ReturnType(), s)
		}
	}
	for _, p := range method.params {
		model.Dependencies = append(model.Dependencies, NewDependencyModel(p))
	}
	if model.Activator == nil {
		model.Activator = NewFactoryComponentActivator
	}
	return model, nil
}
