package gfactory

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// FactoryType groups named factory functions the way a type groups static methods.
//
// Example:
//
//	sources := gfactory.NewFactoryType("IntegerSources").
//	    Func("GetOneToTen", GetOneToTen).
//	    Func("GetOnePlusEach", GetOnePlusEach, gfactory.WithParamNames("input"))
type FactoryType struct {
	name    string
	methods map[string]*Method
	order   []string
}

// NewFactoryType creates an empty factory type with the given name.
func NewFactoryType(name string) *FactoryType {
	return &FactoryType{name: name, methods: make(map[string]*Method)}
}

// Name returns the factory type name.
func (f *FactoryType) Name() string {
	if f == nil {
		return "<nil>"
	}
	return f.name
}

func (f *FactoryType) String() string { return f.Name() }

// Func declares a factory method. fn must be a function returning either one value
// or a value and an error. Func panics on any other shape, or when name is already
// declared on f.
func (f *FactoryType) Func(name string, fn any, opts ...MethodOption) *FactoryType {
	fnValue := reflect.ValueOf(fn)
	if fnValue.Kind() != reflect.Func {
		panic(fmt.Sprintf("factory %s.%s must be a function, got %T", f.name, name, fn))
	}
	fnType := fnValue.Type()
	switch {
	case fnType.NumOut() == 1 && fnType.Out(0) != errorType:
	case fnType.NumOut() == 2 && fnType.Out(1) == errorType:
	default:
		panic(fmt.Sprintf("factory %s.%s must return a value, or a value and an error", f.name, name))
	}
	if _, exists := f.methods[name]; exists {
		panic(fmt.Sprintf("factory %s.%s is already declared", f.name, name))
	}

	options := &methodOptions{
		optional: make(map[string]bool),
		defaults: make(map[string]any),
	}
	for _, opt := range opts {
		opt(options)
	}

	m := &Method{
		name:          name,
		declaringType: f,
		fn:            fnValue,
		returnsError:  fnType.NumOut() == 2,
	}
	m.params = describeParameters(fn, fnType, options)
	f.methods[name] = m
	f.order = append(f.order, name)
	return f
}

// Method returns the factory method declared under name, or nil.
func (f *FactoryType) Method(name string) *Method {
	if f == nil {
		return nil
	}
	return f.methods[name]
}

// Methods returns the declared methods in declaration order.
func (f *FactoryType) Methods() []*Method {
	methods := make([]*Method, 0, len(f.order))
	for _, name := range f.order {
		methods = append(methods, f.methods[name])
	}
	return methods
}

// Parameter describes one factory method parameter.
type Parameter struct {
	Name       string
	Type       reflect.Type
	Optional   bool
	HasDefault bool
	Default    any
}

// Method is a factory function declared on a FactoryType. It has no receiver.
type Method struct {
	name          string
	declaringType *FactoryType
	fn            reflect.Value
	params        []Parameter
	returnsError  bool
}

// Name returns the method name.
func (m *Method) Name() string {
	if m == nil {
		return "<nil>"
	}
	return m.name
}

// DeclaringType returns the factory type the method is declared on.
func (m *Method) DeclaringType() *FactoryType {
	if m == nil {
		return nil
	}
	return m.declaringType
}

// Parameters returns a copy of the method's parameter descriptions.
func (m *Method) Parameters() []Parameter {
	if m == nil {
		return nil
	}
	return append([]Parameter(nil), m.params...)
}

// ReturnType returns the type of the value the method produces.
func (m *Method) ReturnType() reflect.Type {
	return m.fn.Type().Out(0)
}

// String renders the method as Name(T1, T2).
func (m *Method) String() string {
	if m == nil {
		return "<nil>"
	}
	types := make([]string, len(m.params))
	for i, p := range m.params {
		types[i] = p.Type.String()
	}
	return m.name + "(" + strings.Join(types, ", ") + ")"
}

// Invoke calls the method with args. A nil argument is passed as the zero value of
// its parameter type. A panic inside the factory and a returned error are both
// reported as the returned error.
func (m *Method) Invoke(args []any) (result any, err error) {
	if m == nil {
		return nil, ErrMethodNotFound
	}
	if len(args) != len(m.params) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(m.params), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := argumentValue(arg, m.params[i])
		if err != nil {
			return nil, err
		}
		in[i] = v
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			if recErr, ok := rec.(error); ok {
				err = fmt.Errorf("factory panicked: %w", recErr)
				return
			}
			err = fmt.Errorf("factory panicked: %v", rec)
		}
	}()

	var out []reflect.Value
	if m.fn.Type().IsVariadic() {
		out = m.fn.CallSlice(in)
	} else {
		out = m.fn.Call(in)
	}

	if m.returnsError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

func argumentValue(arg any, p Parameter) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(p.Type), nil
	}
	v := reflect.ValueOf(arg)
	switch {
	case v.Type().AssignableTo(p.Type):
		return v, nil
	case p.Type.Kind() == reflect.String && v.Kind() != reflect.String:
		// int to string conversion yields a rune, never what a manifest meant
	case isNumber(v.Kind()) && isNumber(p.Type.Kind()):
		if !fitsNumber(v, p.Type) {
			return reflect.Value{}, fmt.Errorf("argument %q: %v does not fit in %s", p.Name, arg, p.Type)
		}
		return v.Convert(p.Type), nil
	case v.Type().ConvertibleTo(p.Type):
		return v.Convert(p.Type), nil
	}
	return reflect.Value{}, fmt.Errorf("argument %q: %s is not assignable to %s", p.Name, v.Type(), p.Type)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// fitsNumber reports whether v converts to target without wrapping, truncation or
// a dropped fraction.
func fitsNumber(v reflect.Value, target reflect.Type) bool {
	zero := reflect.Zero(target)
	switch {
	case v.CanInt():
		i := v.Int()
		switch {
		case zero.CanInt():
			return !zero.OverflowInt(i)
		case zero.CanUint():
			return i >= 0 && !zero.OverflowUint(uint64(i))
		default:
			return !zero.OverflowFloat(float64(i))
		}
	case v.CanUint():
		u := v.Uint()
		switch {
		case zero.CanInt():
			return u <= math.MaxInt64 && !zero.OverflowInt(int64(u))
		case zero.CanUint():
			return !zero.OverflowUint(u)
		default:
			return !zero.OverflowFloat(float64(u))
		}
	}

	f := v.Float()
	if zero.CanFloat() {
		return !zero.OverflowFloat(f)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	if zero.CanInt() {
		return f >= math.MinInt64 && f < math.MaxInt64 && !zero.OverflowInt(int64(f))
	}
	return f >= 0 && f < math.MaxUint64 && !zero.OverflowUint(uint64(f))
}

// describeParameters names each parameter from the options, then from source, then
// by position.
func describeParameters(fn any, fnType reflect.Type, options *methodOptions) []Parameter {
	numIn := fnType.NumIn()
	if numIn == 0 {
		return nil
	}

	names := options.names
	if len(names) < numIn {
		names = sourceParamNames(reflect.ValueOf(fn).Pointer())
	}

	params := make([]Parameter, numIn)
	for i := 0; i < numIn; i++ {
		name := fmt.Sprintf("param%d", i)
		if i < len(options.names) {
			name = options.names[i]
		} else if i < len(names) && names[i] != "" && names[i] != "_" {
			name = names[i]
		}

		p := Parameter{Name: name, Type: fnType.In(i)}
		if options.optional[name] {
			p.Optional = true
		}
		if def, ok := options.defaults[name]; ok {
			p.Optional = true
			p.HasDefault = true
			p.Default = def
		}
		if fnType.IsVariadic() && i == numIn-1 {
			p.Optional = true
		}
		params[i] = p
	}
	return params
}

// WithParamNames names the factory parameters in declaration order.
func WithParamNames(names ...string) MethodOption {
	return func(o *methodOptions) {
		o.names = names
	}
}

// WithOptional marks a parameter optional. Unresolvable optional parameters are
// passed as their zero value.
func WithOptional(name string) MethodOption {
	return func(o *methodOptions) {
		o.optional[name] = true
	}
}

// WithDefault marks a parameter optional with a default value.
func WithDefault(name string, value any) MethodOption {
	return func(o *methodOptions) {
		o.defaults[name] = value
	}
}
