package runtime

// ---------------------------------------------------------------------------
// Template: shape of a constructible class of objects
// ---------------------------------------------------------------------------

// ConstructCallback runs when script constructs an instance from the
// template. It returns the fully initialized instance object or a catchable
// error.
type ConstructCallback func(args []Value) (Value, error)

// Template describes a class of script objects: a construct callback, a
// prototype carrying shared methods and constants, a per-instance internal
// field count, and an optional parent template whose prototype becomes the
// prototype's prototype. Inherit mirrors a native base/derived relation
// into the script-level chain.
type Template struct {
	rt        *Runtime
	construct ConstructCallback
	parent    *Template

	internalFields int

	proto   *Object // lazily materialized prototype object
	statics *Object // lazily materialized constructor-function object
}

// NewTemplate creates an empty template.
func (rt *Runtime) NewTemplate() *Template {
	return &Template{rt: rt}
}

// SetConstruct installs the construct callback.
func (t *Template) SetConstruct(cb ConstructCallback) { t.construct = cb }

// SetInternalFieldCount sets how many internal fields instances carry.
func (t *Template) SetInternalFieldCount(n int) { t.internalFields = n }

// Inherit links this template under base: instances of this template see
// base's prototype properties through the chain.
func (t *Template) Inherit(base *Template) {
	t.parent = base
	// Relink an already materialized prototype; instances share it.
	if t.proto != nil {
		t.proto.SetPrototype(base.PrototypeObject())
	}
}

// PrototypeObject returns the template's prototype object, materializing it
// on first use. Its prototype is the parent template's prototype object.
func (t *Template) PrototypeObject() *Object {
	if t.proto == nil {
		t.proto = t.rt.NewObject()
		if t.parent != nil {
			t.proto.SetPrototype(t.parent.PrototypeObject())
		}
	}
	return t.proto
}

// FunctionObject returns the object representing the constructor function,
// which carries static properties.
func (t *Template) FunctionObject() *Object {
	if t.statics == nil {
		t.statics = t.rt.NewObject()
	}
	return t.statics
}

// SetMethod places a named callable on the prototype.
func (t *Template) SetMethod(name string, fn NativeFunc) {
	t.PrototypeObject().DefineProperty(name, NewFunction(name, fn), DontDelete)
}

// SetStatic places a named value on the constructor-function object.
func (t *Template) SetStatic(name string, v Value) {
	t.FunctionObject().DefineProperty(name, v, DontDelete)
}

// SetAccessor installs an accessor pair on the prototype. A nil setter
// makes the property read-only.
func (t *Template) SetAccessor(name string, getter AccessorGetter, setter AccessorSetter) {
	attrs := DontDelete
	if setter == nil {
		attrs |= ReadOnly
	}
	t.PrototypeObject().SetAccessor(name, getter, setter, attrs)
}

// SetConst places a read-only, non-deletable value on the prototype.
func (t *Template) SetConst(name string, v Value) {
	t.PrototypeObject().DefineProperty(name, v, ReadOnly|DontDelete)
}

// NewInstance creates an uninitialized instance: internal fields allocated,
// prototype linked, construct callback not run.
func (t *Template) NewInstance() *Object {
	obj := t.rt.NewObject()
	obj.SetPrototype(t.PrototypeObject())
	if t.internalFields > 0 {
		obj.internal = make([]any, t.internalFields)
	}
	return obj
}

// Construct runs the construct callback with the given arguments. Templates
// without a callback are not constructible.
func (t *Template) Construct(args ...Value) (Value, error) {
	if t.construct == nil {
		return nil, NewScriptError("template is not constructible")
	}
	return t.construct(args)
}
