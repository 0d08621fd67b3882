package convert

import (
	"fmt"
	"reflect"

	"github.com/emberhq/ember/runtime"
)

// Call invokes a native function with script-side arguments. prefix holds
// already-native leading arguments (typically the receiver); the remaining
// parameters are marshaled from args in order. Arity or conversion
// failures, and a non-nil trailing error result, come back as catchable
// script errors.
func (c *Converter) Call(fn reflect.Value, prefix []reflect.Value, args []runtime.Value) (runtime.Value, error) {
	ft := fn.Type()
	if ft.IsVariadic() {
		panic("convert: variadic functions are not supported")
	}

	want := ft.NumIn() - len(prefix)
	if len(args) != want {
		return nil, runtime.NewScriptError("wrong number of arguments: want %d, got %d", want, len(args))
	}

	in := make([]reflect.Value, 0, ft.NumIn())
	in = append(in, prefix...)
	for i, arg := range args {
		av, err := c.FromValue(arg, ft.In(len(prefix)+i))
		if err != nil {
			return nil, runtime.WrapScriptError(err, "argument %d: %s", i, err)
		}
		in = append(in, av)
	}

	return c.results(fn.Call(in))
}

// results folds a native call's results into (value, error): a trailing
// error result becomes a catchable script error, at most one remaining
// result becomes the script value.
func (c *Converter) results(out []reflect.Value) (runtime.Value, error) {
	n := len(out)
	if n > 0 && out[n-1].Type() == reflect.TypeOf((*error)(nil)).Elem() {
		if errv := out[n-1]; !errv.IsNil() {
			err := errv.Interface().(error)
			return nil, runtime.WrapScriptError(err, "%s", err.Error())
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return runtime.Undefined, nil
	case 1:
		return c.ToValue(out[0].Interface()), nil
	default:
		return nil, fmt.Errorf("native function returns %d values; at most one plus error is supported", len(out))
	}
}
