package bridge

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/emberhq/ember/runtime"
)

// ---------------------------------------------------------------------------
// Class: the registration facade
// ---------------------------------------------------------------------------

// Class assembles the binding for one native type in one runtime instance:
// constructor signature, base declarations, methods, statics, field
// accessors, computed properties, and constants. Every mutating call
// returns the facade for chaining. Registration is configuration-time
// surface; it must complete before wrap/unwrap traffic begins.
type Class[T any] struct {
	s *singleton
}

// NewClass resolves (or creates) the binding for T in rt.
func NewClass[T any](rt *runtime.Runtime) *Class[T] {
	return &Class[T]{s: singletonFor(rt, reflect.TypeOf((*T)(nil)).Elem())}
}

// Template exposes the script-side template, for installing the
// constructor into the global scope or constructing from native code.
func (c *Class[T]) Template() *runtime.Template { return c.s.template }

// Runtime returns the runtime instance this binding belongs to.
func (c *Class[T]) Runtime() *runtime.Runtime { return c.s.rt }

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Ctor declares the construction factory. fn's parameters define the
// script constructor signature; it must return *T or (*T, error).
// Instances constructed from script are wrapped as owned.
func (c *Class[T]) Ctor(fn any) *Class[T] {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	ptrT := reflect.TypeOf((**T)(nil)).Elem()
	if ft.Kind() != reflect.Func || ft.IsVariadic() {
		panic(fmt.Sprintf("bridge: ctor for %s must be a non-variadic func, got %T", c.s.info.gotype, fn))
	}
	switch ft.NumOut() {
	case 1:
		if ft.Out(0) != ptrT {
			panic(fmt.Sprintf("bridge: ctor for %s must return %s, returns %s", c.s.info.gotype, ptrT, ft.Out(0)))
		}
	case 2:
		if ft.Out(0) != ptrT || ft.Out(1) != errType {
			panic(fmt.Sprintf("bridge: ctor for %s must return (%s, error)", c.s.info.gotype, ptrT))
		}
	default:
		panic(fmt.Sprintf("bridge: ctor for %s must return %s or (%s, error)", c.s.info.gotype, ptrT, ptrT))
	}

	conv := c.s.conv
	c.s.ctor = func(args []runtime.Value) (any, error) {
		if len(args) != ft.NumIn() {
			return nil, runtime.NewScriptError("wrong number of arguments: want %d, got %d", ft.NumIn(), len(args))
		}
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			av, err := conv.FromValue(arg, ft.In(i))
			if err != nil {
				return nil, runtime.WrapScriptError(err, "argument %d: %s", i, err)
			}
			in[i] = av
		}
		out := fv.Call(in)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
	return c
}

// Finalizer declares the native destructor run when an owned object is
// destroyed, explicitly or by the collector.
func (c *Class[T]) Finalizer(fn func(*T)) *Class[T] {
	c.s.finalize = func(ptr any) { fn(ptr.(*T)) }
	return c
}

// Inherit declares that T derives from U via struct embedding: U must be
// an embedded field of T (the compile-time base relation), and the cast
// function is derived from the embedding offset. Pointer arithmetic rather
// than reflect field access, so unexported embedded fields work too. The
// base binding is resolved in the same runtime, creating it if needed.
func Inherit[T, U any](c *Class[T]) *Class[T] {
	tt := reflect.TypeOf((*T)(nil)).Elem()
	ut := reflect.TypeOf((*U)(nil)).Elem()

	var field reflect.StructField
	found := false
	if tt.Kind() == reflect.Struct {
		for i := 0; i < tt.NumField(); i++ {
			if f := tt.Field(i); f.Anonymous && f.Type == ut {
				field, found = f, true
				break
			}
		}
	}
	if !found {
		panic(fmt.Sprintf("bridge: %s does not embed %s", tt, ut))
	}

	off := field.Offset
	return InheritWithCast(c, func(ptr *T) *U {
		return (*U)(unsafe.Add(unsafe.Pointer(ptr), off))
	})
}

// InheritWithCast declares a base with an explicit cast function, for
// layouts the embedding rule cannot express.
func InheritWithCast[T, U any](c *Class[T], cast func(*T) *U) *Class[T] {
	base := singletonFor(c.s.rt, reflect.TypeOf((*U)(nil)).Elem())
	c.s.inherit(base, func(ptr any) any { return cast(ptr.(*T)) })
	return c
}

// Method binds a native function as an instance method. fn's first
// parameter must be *T (a method expression like (*T).Name fits);
// remaining parameters are marshaled from script arguments, and the
// receiver is recovered through the hierarchy-aware unwrap, so methods
// bound on a base dispatch on derived instances.
func (c *Class[T]) Method(name string, fn any) *Class[T] {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	ptrT := reflect.TypeOf((**T)(nil)).Elem()
	if ft.Kind() != reflect.Func || ft.NumIn() == 0 || ft.In(0) != ptrT {
		panic(fmt.Sprintf("bridge: method %q for %s must be func(%s, ...)", name, c.s.info.gotype, ptrT))
	}

	s := c.s
	s.template.SetMethod(name, func(this *runtime.Object, args []runtime.Value) (runtime.Value, error) {
		ptr, ok := s.unwrap(this)
		if !ok {
			return nil, runtime.NewScriptError("%s.%s called on incompatible receiver", s.info.gotype, name)
		}
		return s.conv.Call(fv, []reflect.Value{reflect.ValueOf(ptr)}, args)
	})
	return c
}

// Static binds a native function on the constructor-function object.
func (c *Class[T]) Static(name string, fn any) *Class[T] {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		panic(fmt.Sprintf("bridge: static %q for %s must be a func, got %T", name, c.s.info.gotype, fn))
	}
	s := c.s
	s.template.SetStatic(name, runtime.NewFunction(name, func(_ *runtime.Object, args []runtime.Value) (runtime.Value, error) {
		return s.conv.Call(fv, nil, args)
	}))
	return c
}

// Field binds a struct field of T as a member data accessor. goField names
// the Go field; readonly omits the setter.
func (c *Class[T]) Field(name, goField string, readonly bool) *Class[T] {
	tt := reflect.TypeOf((*T)(nil)).Elem()
	field, ok := tt.FieldByName(goField)
	if !ok || !field.IsExported() {
		panic(fmt.Sprintf("bridge: %s has no exported field %q", tt, goField))
	}

	s := c.s
	idx := field.Index
	getter := func(this *runtime.Object) (runtime.Value, error) {
		ptr, ok := s.unwrap(this)
		if !ok {
			return nil, runtime.NewScriptError("%s.%s read on incompatible receiver", s.info.gotype, name)
		}
		fv := reflect.ValueOf(ptr).Elem().FieldByIndex(idx)
		return s.conv.ToValue(fv.Interface()), nil
	}

	var setter runtime.AccessorSetter
	if !readonly {
		setter = func(this *runtime.Object, v runtime.Value) error {
			ptr, ok := s.unwrap(this)
			if !ok {
				return runtime.NewScriptError("%s.%s write on incompatible receiver", s.info.gotype, name)
			}
			av, err := s.conv.FromValue(v, field.Type)
			if err != nil {
				return runtime.WrapScriptError(err, "%s.%s: %s", s.info.gotype, name, err)
			}
			reflect.ValueOf(ptr).Elem().FieldByIndex(idx).Set(av)
			return nil
		}
	}

	s.template.SetAccessor(name, getter, setter)
	return c
}

// Property binds a computed property from a getter/setter pair. getter is
// func(*T) R or func(*T) (R, error); setter is func(*T, A) or
// func(*T, A) error, or nil for a read-only property.
func (c *Class[T]) Property(name string, getter, setter any) *Class[T] {
	s := c.s
	ptrT := reflect.TypeOf((**T)(nil)).Elem()

	gv := reflect.ValueOf(getter)
	if gt := gv.Type(); gt.Kind() != reflect.Func || gt.NumIn() != 1 || gt.In(0) != ptrT {
		panic(fmt.Sprintf("bridge: property %q getter for %s must be func(%s) ...", name, s.info.gotype, ptrT))
	}
	get := func(this *runtime.Object) (runtime.Value, error) {
		ptr, ok := s.unwrap(this)
		if !ok {
			return nil, runtime.NewScriptError("%s.%s read on incompatible receiver", s.info.gotype, name)
		}
		return s.conv.Call(gv, []reflect.Value{reflect.ValueOf(ptr)}, nil)
	}

	var set runtime.AccessorSetter
	if setter != nil {
		sv := reflect.ValueOf(setter)
		if st := sv.Type(); st.Kind() != reflect.Func || st.NumIn() != 2 || st.In(0) != ptrT {
			panic(fmt.Sprintf("bridge: property %q setter for %s must be func(%s, value)", name, s.info.gotype, ptrT))
		}
		set = func(this *runtime.Object, v runtime.Value) error {
			ptr, ok := s.unwrap(this)
			if !ok {
				return runtime.NewScriptError("%s.%s write on incompatible receiver", s.info.gotype, name)
			}
			_, err := s.conv.Call(sv, []reflect.Value{reflect.ValueOf(ptr)}, []runtime.Value{v})
			return err
		}
	}

	s.template.SetAccessor(name, get, set)
	return c
}

// Const places a read-only, non-deletable value on the prototype.
func (c *Class[T]) Const(name string, v any) *Class[T] {
	c.s.template.SetConst(name, c.s.conv.ToValue(v))
	return c
}

// Global installs a native function into the runtime's global scope.
// Arguments and results marshal the same way as Static bindings.
func Global(rt *runtime.Runtime, name string, fn any) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		panic(fmt.Sprintf("bridge: global %q must be a func, got %T", name, fn))
	}
	conv := registryFor(rt).conv
	rt.Globals[name] = runtime.NewFunction(name, func(_ *runtime.Object, args []runtime.Value) (runtime.Value, error) {
		return conv.Call(fv, nil, args)
	})
}

// ---------------------------------------------------------------------------
// Wrap / unwrap / destroy entry points
// ---------------------------------------------------------------------------

// ReferenceExternal wraps a natively owned object: script references it
// but its lifetime stays with the caller. Wrapping the same pointer twice
// is a defect.
func ReferenceExternal[T any](rt *runtime.Runtime, ext *T) *runtime.Object {
	return singletonFor(rt, reflect.TypeOf((*T)(nil)).Elem()).wrapExternal(ext)
}

// ImportExternal wraps an object whose ownership transfers to the bridge:
// it is destroyed exactly once, by explicit destroy, collection of the
// handle, or runtime teardown.
func ImportExternal[T any](rt *runtime.Runtime, ext *T) *runtime.Object {
	return singletonFor(rt, reflect.TypeOf((*T)(nil)).Elem()).wrapOwned(ext)
}

// Unwrap recovers a *T from an arbitrary script value, walking the
// prototype chain and the native hierarchy. A miss is (nil, false).
func Unwrap[T any](rt *runtime.Runtime, v runtime.Value) (*T, bool) {
	ptr, ok := singletonFor(rt, reflect.TypeOf((*T)(nil)).Elem()).unwrap(v)
	if !ok {
		return nil, false
	}
	return ptr.(*T), true
}

// FindObject returns the script handle for a wrapped native object,
// searching derived descriptors when the object was wrapped under a more
// derived type.
func FindObject[T any](rt *runtime.Runtime, obj *T) (*runtime.Object, bool) {
	return singletonFor(rt, reflect.TypeOf((*T)(nil)).Elem()).info.FindObject(obj)
}

// DestroyObject destroys one wrapped object now. Owned objects run their
// finalizer; destroying an untracked pointer is a defect.
func DestroyObject[T any](rt *runtime.Runtime, obj *T) {
	singletonFor(rt, reflect.TypeOf((*T)(nil)).Elem()).destroy(obj)
}

// DestroyObjects destroys every remaining wrapped object of type T in rt.
func DestroyObjects[T any](rt *runtime.Runtime) {
	singletonFor(rt, reflect.TypeOf((*T)(nil)).Elem()).destroyAll()
}
