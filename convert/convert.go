// Package convert marshals values across the native/script boundary: Go
// values into script values and back, and Go functions into script-callable
// dispatch. The bridge plugs wrap/unwrap hooks in so registered native
// types round-trip as wrapped objects rather than plain data.
package convert

import (
	"fmt"
	"reflect"

	"github.com/emberhq/ember/runtime"
)

// WrapHook wraps a registered native value as a script object. It reports
// false when the value's type is not registered.
type WrapHook func(goVal any) (runtime.Value, bool)

// UnwrapHook recovers a native pointer of the wanted type from a script
// value. It reports false on a cast miss.
type UnwrapHook func(v runtime.Value, want reflect.Type) (any, bool)

// Converter marshals between Go values and the script values of one
// runtime instance.
type Converter struct {
	rt     *runtime.Runtime
	wrap   WrapHook
	unwrap UnwrapHook
}

// New creates a converter for rt with no object hooks: only primitive
// kinds, slices, and string-keyed maps convert.
func New(rt *runtime.Runtime) *Converter {
	return &Converter{rt: rt}
}

// SetObjectHooks installs the bridge's wrap/unwrap hooks.
func (c *Converter) SetObjectHooks(wrap WrapHook, unwrap UnwrapHook) {
	c.wrap = wrap
	c.unwrap = unwrap
}

// Runtime returns the runtime this converter marshals for.
func (c *Converter) Runtime() *runtime.Runtime { return c.rt }

// ToValue converts a Go value to a script value. Unconvertible values
// become Undefined.
func (c *Converter) ToValue(goVal any) runtime.Value {
	if goVal == nil {
		return runtime.Undefined
	}
	if v, ok := goVal.(runtime.Value); ok {
		return v
	}

	rv := reflect.ValueOf(goVal)
	switch rv.Kind() {
	case reflect.Bool:
		return runtime.Boolean(rv.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return runtime.Int(rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return runtime.Int(int64(rv.Uint()))

	case reflect.Float32, reflect.Float64:
		return runtime.Float(rv.Float())

	case reflect.String:
		return runtime.String(rv.String())

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte → string
			return runtime.String(rv.Bytes())
		}
		// []T → object with indexed properties and a length
		obj := c.rt.NewObject()
		for i := 0; i < rv.Len(); i++ {
			obj.DefineProperty(fmt.Sprintf("%d", i), c.ToValue(rv.Index(i).Interface()), 0)
		}
		obj.DefineProperty("length", runtime.Int(rv.Len()), runtime.ReadOnly)
		return obj

	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			obj := c.rt.NewObject()
			iter := rv.MapRange()
			for iter.Next() {
				obj.DefineProperty(iter.Key().String(), c.ToValue(iter.Value().Interface()), 0)
			}
			return obj
		}

	case reflect.Ptr, reflect.Struct:
		if c.wrap != nil {
			if v, ok := c.wrap(goVal); ok {
				return v
			}
		}
	}

	return runtime.Undefined
}

// FromValue converts a script value to a Go value of the wanted type.
func (c *Converter) FromValue(v runtime.Value, want reflect.Type) (reflect.Value, error) {
	// Pass-through for code that wants the raw script value.
	if want == reflect.TypeOf((*runtime.Value)(nil)).Elem() {
		return reflect.ValueOf(v), nil
	}

	switch v := v.(type) {
	case runtime.Boolean:
		if want.Kind() == reflect.Bool {
			return reflect.ValueOf(bool(v)).Convert(want), nil
		}

	case runtime.Int:
		switch want.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Float32, reflect.Float64:
			return reflect.ValueOf(int64(v)).Convert(want), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if v < 0 {
				return reflect.Value{}, fmt.Errorf("cannot convert negative value %d to %s", int64(v), want)
			}
			return reflect.ValueOf(int64(v)).Convert(want), nil
		}

	case runtime.Float:
		switch want.Kind() {
		case reflect.Float32, reflect.Float64:
			return reflect.ValueOf(float64(v)).Convert(want), nil
		case reflect.Int, reflect.Int64:
			return reflect.ValueOf(int64(v)).Convert(want), nil
		}

	case runtime.String:
		switch {
		case want.Kind() == reflect.String:
			return reflect.ValueOf(string(v)).Convert(want), nil
		case want.Kind() == reflect.Slice && want.Elem().Kind() == reflect.Uint8:
			return reflect.ValueOf([]byte(v)).Convert(want), nil
		}

	case *runtime.Object:
		if c.unwrap != nil && want.Kind() == reflect.Ptr {
			if ptr, ok := c.unwrap(v, want); ok {
				return reflect.ValueOf(ptr), nil
			}
		}

	case nil:
	default:
		if v.Kind() == runtime.KindUndefined && isNilable(want) {
			return reflect.Zero(want), nil
		}
	}

	if want.Kind() == reflect.Interface && want.NumMethod() == 0 {
		return reflect.ValueOf(c.toAny(v)), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s value to %s", kindOf(v), want)
}

// toAny converts a script value to its natural Go representation.
func (c *Converter) toAny(v runtime.Value) any {
	switch v := v.(type) {
	case runtime.Boolean:
		return bool(v)
	case runtime.Int:
		return int64(v)
	case runtime.Float:
		return float64(v)
	case runtime.String:
		return string(v)
	default:
		return nil
	}
}

func kindOf(v runtime.Value) runtime.Kind {
	if v == nil {
		return runtime.KindUndefined
	}
	return v.Kind()
}

func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	}
	return false
}
