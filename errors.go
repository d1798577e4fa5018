package gfactory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrMethodNotFound is returned when the factory type declares no method with the
	// component's name.
	ErrMethodNotFound = errors.New("gfactory: factory method not found")

	// ErrNoComponent is returned when no component is registered for a service.
	ErrNoComponent = errors.New("gfactory: no component registered")

	// ErrDuplicateComponent is returned when a service or name is registered twice.
	ErrDuplicateComponent = errors.New("gfactory: duplicate component")

	// ErrInvalidRegistration is returned for incomplete registrations.
	ErrInvalidRegistration = errors.New("gfactory: invalid registration")

	// ErrInvalidManifest is returned when a manifest cannot be installed.
	ErrInvalidManifest = errors.New("gfactory: invalid manifest")
)

// ActivatorError is returned when a factory method could not be called or failed.
// The underlying failure is kept as the cause.
type ActivatorError struct {
	Method    string
	Type      string
	Signature []reflect.Type
	Err       error
}

func (e *ActivatorError) Error() string {
	var sb strings.Builder
	sb.WriteString("gfactory: could not call method ")
	sb.WriteString(e.Method)
	if e.Signature != nil {
		names := make([]string, len(e.Signature))
		for i, t := range e.Signature {
			names[i] = typeName(t)
		}
		sb.WriteString("(" + strings.Join(names, ", ") + ")")
	}
	sb.WriteString(" of type ")
	sb.WriteString(e.Type)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ActivatorError) Unwrap() error { return e.Err }

// CircularDependencyError is returned when a dependency edge is resolved again
// while it is still being resolved. Trace lists the in-flight edges in the order
// they were entered; Closing is the edge that would have closed the cycle.
type CircularDependencyError struct {
	Trace   []Edge
	Closing Edge
}

func (e *CircularDependencyError) Error() string {
	var sb strings.Builder
	sb.WriteString("gfactory: a cycle was detected when trying to resolve a dependency. ")
	sb.WriteString("The dependency graph that resulted in a cycle is:")
	for _, edge := range e.Trace {
		sb.WriteString("\n - ")
		sb.WriteString(edge.String())
	}
	fmt.Fprintf(&sb, "\n + %s for %s in %s\n", e.Closing.Dependency, e.Closing.Member, e.Closing.Member.DeclaringType())
	return sb.String()
}

// IsCircularDependency reports whether err (or any error in its chain) is a
// CircularDependencyError.
func IsCircularDependency(err error) bool {
	var ce *CircularDependencyError
	return errors.As(err, &ce)
}

// DependencyResolverError is returned when a dependency cannot be resolved at all.
type DependencyResolverError struct {
	Consumer   *ComponentModel
	Dependency *DependencyModel
	Err        error
}

func (e *DependencyResolverError) Error() string {
	msg := fmt.Sprintf("gfactory: could not resolve %s for component %s", e.Dependency, e.Consumer)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DependencyResolverError) Unwrap() error { return e.Err }
