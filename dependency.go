package gfactory

import (
	"fmt"
	"reflect"
)

// DependencyModel describes one value a factory method needs.
// A fresh model is built for every parameter on every activation attempt.
type DependencyModel struct {
	DependencyType  DependencyType
	DependencyKey   string
	TargetType      reflect.Type
	IsOptional      bool
	HasDefaultValue bool
	DefaultValue    any
}

// NewDependencyModel builds a service dependency for a factory method parameter.
func NewDependencyModel(p Parameter) *DependencyModel {
	return &DependencyModel{
		DependencyType:  ServiceDependency,
		DependencyKey:   p.Name,
		TargetType:      p.Type,
		IsOptional:      p.Optional,
		HasDefaultValue: p.HasDefault,
		DefaultValue:    p.Default,
	}
}

// String renders the dependency for diagnostics.
func (d *DependencyModel) String() string {
	if d == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s dependency '%s' type '%s'", d.DependencyType, d.DependencyKey, typeName(d.TargetType))
}

// trackingKey is the cycle ledger key. Two keys are equal iff the consumer model,
// the declaring member and the inner dependency (type, key, target, optionality)
// are all equal.
type trackingKey struct {
	model    *ComponentModel
	member   *Method
	depType  DependencyType
	key      string
	target   reflect.Type
	optional bool
}

func newTrackingKey(model *ComponentModel, member *Method, dep *DependencyModel) trackingKey {
	return trackingKey{
		model:    model,
		member:   member,
		depType:  dep.DependencyType,
		key:      dep.DependencyKey,
		target:   dep.TargetType,
		optional: dep.IsOptional,
	}
}

// Edge is one in-flight dependency resolution: a consumer asking, through one of
// its factory methods, for one dependency.
type Edge struct {
	Consumer   *ComponentModel
	Member     *Method
	Dependency *DependencyModel
}

// String renders the edge as "<dependency> for <member> in type <declaring type>".
func (e Edge) String() string {
	return fmt.Sprintf("%s for %s in type %s", e.Dependency, e.Member, e.Member.DeclaringType())
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
