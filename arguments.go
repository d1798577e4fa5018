package gfactory

import (
	"reflect"
)

// createMethodArguments resolves every parameter of method. It returns nil
// arguments, not an empty slice, when there is nothing to pass.
func (a *FactoryActivator) createMethodArguments(method *Method, cc *CreationContext) ([]any, []reflect.Type, error) {
	if method == nil || len(method.params) == 0 {
		return nil, nil, nil
	}

	arguments := make([]any, len(method.params))
	signature := make([]reflect.Type, len(method.params))

	if err := a.createMethodArgumentsCore(method, arguments, signature, cc); err != nil {
		for _, argument := range arguments {
			// nil marks the first position nothing was assigned to
			if argument == nil {
				break
			}
			a.kernel.ReleaseComponent(argument)
		}
		return nil, nil, err
	}
	return arguments, signature, nil
}

func (a *FactoryActivator) createMethodArgumentsCore(method *Method, arguments []any, signature []reflect.Type, cc *CreationContext) error {
	resolver := a.kernel.Resolver()

	for i, parameter := range method.params {
		dependency := NewDependencyModel(parameter)

		scope, err := openTrackingScope(cc, a.model, method, dependency)
		if err != nil {
			a.log.Error(err, "Circular dependency detected", "method", method.Name(), "parameter", parameter.Name)
			return err
		}

		value, err := resolver.Resolve(cc, cc.Handler(), a.model, dependency)
		if err != nil {
			return err
		}
		scope.close()

		arguments[i] = value
		if value != nil {
			signature[i] = reflect.TypeOf(value)
		} else {
			signature[i] = dependency.TargetType
		}
	}
	return nil
}
