package bridge

import (
	"reflect"

	"github.com/tliron/commonlog"

	"github.com/emberhq/ember/convert"
	"github.com/emberhq/ember/runtime"
)

var log = commonlog.GetLogger("ember.bridge")

// registryDataSlot is the runtime data slot holding the per-runtime
// singleton table.
const registryDataSlot = 0

// ---------------------------------------------------------------------------
// registry: per-runtime singleton table
// ---------------------------------------------------------------------------

// registry maps global type identities to this runtime's singletons. It is
// append-only and lazily populated: the slice grows as higher identities
// are first bound, and a slot is filled exactly once per runtime lifetime.
type registry struct {
	rt         *runtime.Runtime
	singletons []*singleton
	conv       *convert.Converter
}

// registryFor returns the runtime's registry, creating it and hooking
// teardown on first use.
func registryFor(rt *runtime.Runtime) *registry {
	if r, ok := rt.Data(registryDataSlot).(*registry); ok {
		return r
	}
	r := &registry{rt: rt, conv: convert.New(rt)}
	r.conv.SetObjectHooks(r.wrapHook, r.unwrapHook)
	rt.SetData(registryDataSlot, r)
	rt.AddTeardown(r.destroyAll)
	return r
}

// at returns the singleton stored for id, or nil.
func (r *registry) at(id TypeID) *singleton {
	if int(id) < len(r.singletons) {
		return r.singletons[id]
	}
	return nil
}

// put stores a singleton at its identity, growing the table as needed.
func (r *registry) put(id TypeID, s *singleton) {
	for int(id) >= len(r.singletons) {
		r.singletons = append(r.singletons, nil)
	}
	r.singletons[id] = s
}

// byNativeType resolves the singleton bound for a native (non-pointer)
// type in this runtime, or nil if the type was never bound here.
func (r *registry) byNativeType(t reflect.Type) *singleton {
	return r.at(TypeIDOf(t))
}

// destroyAll destroys every remaining wrapped object of every bound type,
// in registry order. Runs once, at runtime teardown.
func (r *registry) destroyAll() {
	for _, s := range r.singletons {
		if s != nil {
			s.destroyAll()
		}
	}
}

// wrapHook lets the converter wrap returned native pointers of registered
// types: an already wrapped pointer resolves to its existing handle,
// otherwise it is wrapped as referenced.
func (r *registry) wrapHook(goVal any) (runtime.Value, bool) {
	t := reflect.TypeOf(goVal)
	if t.Kind() != reflect.Ptr {
		return nil, false
	}
	s := r.byNativeType(t.Elem())
	if s == nil {
		return nil, false
	}
	if obj, ok := s.info.FindObject(goVal); ok {
		return obj, true
	}
	return s.wrapExternal(goVal), true
}

// unwrapHook lets the converter recover native pointers for declared
// parameter types.
func (r *registry) unwrapHook(v runtime.Value, want reflect.Type) (any, bool) {
	s := r.byNativeType(want.Elem())
	if s == nil {
		return nil, false
	}
	return s.unwrap(v)
}

// ---------------------------------------------------------------------------
// singleton: per-(runtime, type) object bridge
// ---------------------------------------------------------------------------

// singleton owns one type's bridging state inside one runtime instance:
// the descriptor with its identity map, the script-side template, the
// declared constructor, and the native destructor for owned objects.
type singleton struct {
	rt       *runtime.Runtime
	info     *ClassInfo
	template *runtime.Template
	conv     *convert.Converter

	ctor     func(args []runtime.Value) (any, error)
	finalize func(ptr any)
}

// singletonFor resolves the singleton for a native type, constructing it
// on the runtime's first touch of that type. Exactly one singleton exists
// per (runtime, type) pair for the runtime's lifetime.
func singletonFor(rt *runtime.Runtime, gotype reflect.Type) *singleton {
	r := registryFor(rt)
	id := TypeIDOf(gotype)
	if s := r.at(id); s != nil {
		return s
	}

	s := &singleton{
		rt:   rt,
		info: newClassInfo(id, gotype),
		conv: r.conv,
	}
	s.template = rt.NewTemplate()
	// Each instance has 2 internal fields:
	//  0 - the wrapped native pointer
	//  1 - the owning *ClassInfo
	s.template.SetInternalFieldCount(2)
	s.template.SetConstruct(s.construct)

	r.put(id, s)
	log.Debugf("bound %s as type %d", gotype, id)
	return s
}

// construct is the script-side construction dispatch: marshal arguments,
// run the declared factory, wrap the result owned. Failures are catchable
// and leave no identity-map entry behind.
func (s *singleton) construct(args []runtime.Value) (runtime.Value, error) {
	if s.ctor == nil {
		return nil, runtime.WrapScriptError(runtime.ErrConstructionNotAllowed,
			"construction of %s is not allowed", s.info.gotype)
	}
	ptr, err := s.ctor(args)
	if err != nil {
		if runtime.IsScriptError(err) {
			return nil, err
		}
		return nil, runtime.WrapScriptError(err, "constructing %s: %s", s.info.gotype, err.Error())
	}
	return s.wrapOwned(ptr), nil
}

// inherit declares base as an immediate base: the descriptors get the edge
// and the templates are linked so prototype chains follow the native
// hierarchy. Must run before objects of this type are wrapped.
func (s *singleton) inherit(base *singleton, cast CastFunc) {
	s.info.AddBase(base.info, cast)
	s.template.Inherit(base.template)
}

// wrapExternal wraps a native pointer the bridge does not own. The handle
// is weak: when script drops it, the identity-map entry is removed but the
// native object is never destroyed.
func (s *singleton) wrapExternal(ptr any) *runtime.Object {
	obj := s.template.NewInstance()
	obj.SetInternalField(0, ptr)
	obj.SetInternalField(1, s.info)

	h := s.rt.NewPersistent(obj)
	h.SetWeak(ptr, func(param any) {
		s.info.removeObject(param)
	})
	s.info.addObject(ptr, referencedEntry{h: h})
	return obj
}

// wrapOwned wraps a native pointer the bridge owns: when the collector
// reclaims the handle, the object is destroyed exactly once.
func (s *singleton) wrapOwned(ptr any) *runtime.Object {
	obj := s.template.NewInstance()
	obj.SetInternalField(0, ptr)
	obj.SetInternalField(1, s.info)

	h := s.rt.NewPersistent(obj)
	h.SetWeak(ptr, func(param any) {
		s.destroy(param)
	})
	s.info.addObject(ptr, ownedEntry{h: h, destroy: s.finalize})
	return obj
}

// unwrap recovers this type's native pointer from an arbitrary script
// value. It walks the prototype chain: at each object carrying the two
// internal fields it attempts a hierarchy cast from the object's own
// descriptor to this type; otherwise it advances to the prototype, so
// script-level subclasses of a wrapped type still resolve. A miss is a
// checkable (nil, false), not an error.
func (s *singleton) unwrap(v runtime.Value) (any, bool) {
	obj := runtime.AsObject(v)
	for obj != nil {
		if obj.InternalFieldCount() == 2 {
			ptr := obj.InternalField(0)
			if info, ok := obj.InternalField(1).(*ClassInfo); ok && info != nil {
				if p, ok := info.Cast(ptr, s.info.id); ok {
					return p, true
				}
			}
		}
		obj = obj.Prototype()
	}
	return nil, false
}

// destroy removes one identity-map entry, running the native destructor
// for owned objects.
func (s *singleton) destroy(ptr any) {
	s.info.removeObject(ptr)
}

// destroyAll destroys every remaining wrapped object of this type.
func (s *singleton) destroyAll() {
	if n := s.info.liveCount(); n > 0 {
		log.Debugf("destroying %d remaining %s objects", n, s.info.gotype)
	}
	s.info.removeObjects()
}
