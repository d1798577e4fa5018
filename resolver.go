package gfactory

// defaultResolver resolves factory parameters against the container's registrations.
//
// Lookup order: the container itself for KernelType, then inline parameters of the
// consumer, then the component registered for the target type, then the declared
// default, then the zero value for optional parameters.
type defaultResolver struct {
	kernel *Container
}

func (r *defaultResolver) Resolve(cc *CreationContext, _ Handler, model *ComponentModel, dep *DependencyModel) (any, error) {
	if dep.TargetType == KernelType {
		return r.kernel, nil
	}
	if model != nil {
		if value, ok := model.Parameters[dep.DependencyKey]; ok {
			return value, nil
		}
	}
	if h, ok := r.kernel.handlerFor(dep.TargetType); ok {
		return h.Resolve(cc)
	}
	if dep.HasDefaultValue {
		return dep.DefaultValue, nil
	}
	if dep.IsOptional {
		return nil, nil
	}
	return nil, &DependencyResolverError{Consumer: model, Dependency: dep, Err: ErrNoComponent}
}
