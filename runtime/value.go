package runtime

// ---------------------------------------------------------------------------
// Value: script-visible values
// ---------------------------------------------------------------------------

// Value is any value visible to script code. Primitive kinds are immutable;
// objects and functions are heap references owned by a Runtime.
type Value interface {
	Kind() Kind
}

// Kind discriminates the script value kinds.
type Kind int

const (
	KindUndefined Kind = iota
	KindBoolean
	KindInt
	KindFloat
	KindString
	KindObject
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindBoolean:
		return "boolean"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	}
	return "unknown"
}

type undefined struct{}

func (undefined) Kind() Kind { return KindUndefined }

// Undefined is the absent value.
var Undefined Value = undefined{}

// Boolean is a script boolean.
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }

// True and False are the two Boolean values.
const (
	True  = Boolean(true)
	False = Boolean(false)
)

// Int is a script integer.
type Int int64

func (Int) Kind() Kind { return KindInt }

// Float is a script float.
type Float float64

func (Float) Kind() Kind { return KindFloat }

// String is a script string.
type String string

func (String) Kind() Kind { return KindString }

// AsObject returns v as an *Object, or nil if v is not an object.
func AsObject(v Value) *Object {
	if obj, ok := v.(*Object); ok {
		return obj
	}
	return nil
}

// ---------------------------------------------------------------------------
// Function: a callable script value
// ---------------------------------------------------------------------------

// NativeFunc is the Go implementation behind a script-callable Function.
// this is the receiver the function was looked up on (nil for statics).
type NativeFunc func(this *Object, args []Value) (Value, error)

// Function is a callable value backed by native Go code. Functions placed
// on a template's prototype become methods of the template's instances.
type Function struct {
	name string
	fn   NativeFunc
}

// NewFunction creates a named callable value.
func NewFunction(name string, fn NativeFunc) *Function {
	return &Function{name: name, fn: fn}
}

func (*Function) Kind() Kind { return KindFunction }

// Name returns the name the function was registered under.
func (f *Function) Name() string { return f.name }

// Call invokes the function with the given receiver and arguments.
func (f *Function) Call(this *Object, args ...Value) (Value, error) {
	return f.fn(this, args)
}
