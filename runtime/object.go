package runtime

import "fmt"

// ---------------------------------------------------------------------------
// Object: a script object with a prototype chain and internal fields
// ---------------------------------------------------------------------------

// PropertyAttr controls how a property behaves.
type PropertyAttr uint8

const (
	// ReadOnly properties reject writes.
	ReadOnly PropertyAttr = 1 << iota
	// DontDelete properties survive Delete.
	DontDelete
)

// AccessorGetter reads a computed property. this is the receiver the lookup
// started on, which may be an instance when the accessor lives on a prototype.
type AccessorGetter func(this *Object) (Value, error)

// AccessorSetter writes a computed property.
type AccessorSetter func(this *Object, v Value) error

// property is either a data property (value) or an accessor pair.
type property struct {
	value    Value
	getter   AccessorGetter
	setter   AccessorSetter
	accessor bool
	attrs    PropertyAttr
}

// Object is a script object. Objects created from a template with an
// internal field count carry fixed-purpose internal fields that are
// invisible to script (the bridge stores the native pointer in field 0 and
// its descriptor in field 1).
type Object struct {
	rt       *Runtime
	proto    *Object
	props    map[string]*property
	internal []any
}

// NewObject creates a plain object with no prototype.
func (rt *Runtime) NewObject() *Object {
	rt.noteAllocation()
	return &Object{rt: rt, props: make(map[string]*property)}
}

func (*Object) Kind() Kind { return KindObject }

// Runtime returns the runtime instance that owns this object.
func (o *Object) Runtime() *Runtime { return o.rt }

// Prototype returns the object's prototype, or nil at the end of the chain.
func (o *Object) Prototype() *Object { return o.proto }

// SetPrototype replaces the object's prototype.
func (o *Object) SetPrototype(p *Object) { o.proto = p }

// InternalFieldCount returns the number of internal fields.
func (o *Object) InternalFieldCount() int { return len(o.internal) }

// InternalField returns the value stored in internal field i.
func (o *Object) InternalField(i int) any { return o.internal[i] }

// SetInternalField stores a value in internal field i.
func (o *Object) SetInternalField(i int, v any) { o.internal[i] = v }

// Has reports whether the property exists on the object or its prototypes.
func (o *Object) Has(name string) bool {
	for cur := o; cur != nil; cur = cur.proto {
		if _, ok := cur.props[name]; ok {
			return true
		}
	}
	return false
}

// Get looks the property up along the prototype chain. Accessors run with
// the original receiver. Missing properties yield Undefined.
func (o *Object) Get(name string) (Value, error) {
	for cur := o; cur != nil; cur = cur.proto {
		p, ok := cur.props[name]
		if !ok {
			continue
		}
		if p.accessor {
			if p.getter == nil {
				return Undefined, nil
			}
			return p.getter(o)
		}
		return p.value, nil
	}
	return Undefined, nil
}

// Set writes the property. A read-only property anywhere on the chain
// rejects the write; an accessor with a setter on the chain receives it
// with the original receiver. Otherwise the write creates or updates an
// own property.
func (o *Object) Set(name string, v Value) error {
	for cur := o; cur != nil; cur = cur.proto {
		p, ok := cur.props[name]
		if !ok {
			continue
		}
		if p.accessor {
			if p.setter == nil {
				return fmt.Errorf("property %q is read-only", name)
			}
			return p.setter(o, v)
		}
		if p.attrs&ReadOnly != 0 {
			return fmt.Errorf("property %q is read-only", name)
		}
		if cur == o {
			p.value = v
			return nil
		}
		break
	}
	o.props[name] = &property{value: v}
	return nil
}

// Delete removes an own property. Returns false for DontDelete properties
// and for properties that do not exist on the object itself.
func (o *Object) Delete(name string) bool {
	p, ok := o.props[name]
	if !ok {
		return false
	}
	if p.attrs&DontDelete != 0 {
		return false
	}
	delete(o.props, name)
	return true
}

// DefineProperty creates or replaces an own data property with attributes.
func (o *Object) DefineProperty(name string, v Value, attrs PropertyAttr) {
	o.props[name] = &property{value: v, attrs: attrs}
}

// SetAccessor installs a getter/setter pair as an own property. A nil
// setter makes the property read-only.
func (o *Object) SetAccessor(name string, getter AccessorGetter, setter AccessorSetter, attrs PropertyAttr) {
	o.props[name] = &property{getter: getter, setter: setter, accessor: true, attrs: attrs}
}

// PropertyNames returns the names of the object's own properties.
func (o *Object) PropertyNames() []string {
	names := make([]string, 0, len(o.props))
	for name := range o.props {
		names = append(names, name)
	}
	return names
}
