package gfactory

import (
	"reflect"
)

// KernelType is the dependency type that is never tracked for cycles: asking for
// the container itself cannot recurse.
var KernelType = reflect.TypeOf((*Kernel)(nil)).Elem()

// trackingScope keeps one dependency edge in the context's ledger while it is being
// resolved. close is only called once resolution succeeded; after a failure the
// edge stays in the ledger and the context is discarded with the failed request.
type trackingScope struct {
	ledger *DependencyLedger
	key    *trackingKey
}

func openTrackingScope(cc *CreationContext, model *ComponentModel, member *Method, dep *DependencyModel) (*trackingScope, error) {
	scope := &trackingScope{}
	if dep.TargetType == KernelType {
		return scope, nil
	}

	scope.ledger = cc.Dependencies()
	key := newTrackingKey(model, member, dep)
	edge := Edge{Consumer: model, Member: member, Dependency: dep}

	if scope.ledger.contains(key) {
		return nil, &CircularDependencyError{
			Trace:   scope.ledger.Edges(),
			Closing: edge,
		}
	}

	scope.ledger.add(key, edge)
	scope.key = &key
	return scope, nil
}

func (s *trackingScope) close() {
	if s.ledger != nil && s.key != nil {
		s.ledger.remove(*s.key)
	}
}
