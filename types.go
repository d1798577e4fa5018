package gfactory

import (
	"reflect"
	"strings"
)

// Lifestyle represents the lifetime of a component in the container
type Lifestyle int

const (
	// Singleton lifestyle (default): one instance per container lifetime
	Singleton Lifestyle = iota
	// Transient lifestyle: new instance each time, tracked until released
	Transient
	// Scoped lifestyle: one instance per active scope
	Scoped
)

// String returns the lifestyle name as used in manifests.
func (l Lifestyle) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	default:
		return "singleton"
	}
}

// DependencyType identifies what kind of value a dependency asks for.
type DependencyType int

const (
	// ServiceDependency is resolved from the container by type.
	ServiceDependency DependencyType = iota
)

func (d DependencyType) String() string {
	return "Service"
}

// ActivatorFunc builds the activation strategy for a component.
type ActivatorFunc func(model *ComponentModel, kernel Kernel) ComponentActivator

// ComponentModel describes a registered component. It is built once at registration
// time and is read-only afterwards.
type ComponentModel struct {
	// Name is the component name. For factory components it is also the name of the
	// factory method looked up on Implementation.
	Name string

	// Services are the contracts the component is registered for.
	Services []reflect.Type

	// Implementation declares the factory methods.
	Implementation *FactoryType

	// Instance is set for externally created components.
	Instance any

	Lifestyle Lifestyle

	// Parameters holds inline dependency values keyed by parameter name.
	Parameters map[string]any

	// Dependencies are the dependency hints computed from the factory method.
	Dependencies []*DependencyModel

	// Activator overrides the default activation strategy.
	Activator ActivatorFunc
}

// String returns the component name followed by its contracts.
func (m *ComponentModel) String() string {
	if m == nil {
		return "<nil>"
	}
	names := make([]string, 0, len(m.Services))
	for _, s := range m.Services {
		names = append(names, s.String())
	}
	return m.Name + " (" + strings.Join(names, ", ") + ")"
}

// Option configures a Container
type Option func(*Container)

// MethodOption configures how a factory method's parameters are described
type MethodOption func(*methodOptions)

type methodOptions struct {
	names    []string
	optional map[string]bool
	defaults map[string]any
}

// ActivatorOption configures a FactoryActivator
type ActivatorOption func(*FactoryActivator)

// InstanceFunc is called with a component model and one of its instances.
type InstanceFunc func(model *ComponentModel, instance any)
