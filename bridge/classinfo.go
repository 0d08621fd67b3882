package bridge

import (
	"fmt"
	"reflect"

	"github.com/emberhq/ember/runtime"
)

// ---------------------------------------------------------------------------
// ClassInfo: per-type descriptor with inheritance edges and identity map
// ---------------------------------------------------------------------------

// CastFunc adjusts a native pointer from a derived layout to a base layout.
// Under struct embedding the base lives at a non-zero offset, so the
// adjusted pointer is a different address of a different type.
type CastFunc func(ptr any) any

// baseClass is one declared immediate base of a descriptor.
type baseClass struct {
	info *ClassInfo
	cast CastFunc
}

// ClassInfo is the per-type, per-runtime descriptor: the type's global
// identity, its declared bases with their cast functions, back-references
// from types that derive from it, and the identity map of currently
// wrapped objects of exactly this type.
//
// bases and derivatives form a DAG. Registration must complete before
// wrap/unwrap traffic begins; nothing here locks.
type ClassInfo struct {
	id          TypeID
	gotype      reflect.Type
	bases       []baseClass
	derivatives []*ClassInfo
	objects     map[any]wrapEntry
}

func newClassInfo(id TypeID, gotype reflect.Type) *ClassInfo {
	return &ClassInfo{
		id:      id,
		gotype:  gotype,
		objects: make(map[any]wrapEntry),
	}
}

// ID returns the type's global identity.
func (ci *ClassInfo) ID() TypeID { return ci.id }

// GoType returns the native Go type this descriptor describes.
func (ci *ClassInfo) GoType() reflect.Type { return ci.gotype }

// AddBase registers base as an immediate base of this descriptor and links
// the back-reference. Declaring the same base twice is a defect: duplicate
// inheritance paths are not supported.
func (ci *ClassInfo) AddBase(base *ClassInfo, cast CastFunc) {
	for _, b := range ci.bases {
		if b.info == base {
			panic(fmt.Sprintf("bridge: duplicate base %s for %s (type %d)", base.gotype, ci.gotype, ci.id))
		}
	}
	ci.bases = append(ci.bases, baseClass{info: base, cast: cast})
	base.derivatives = append(base.derivatives, ci)
}

// Cast adjusts ptr, known to be of this descriptor's type, to the layout
// of the ancestor named by target. The search walks from the concrete type
// toward declared ancestors only (a downcast-safe upcast), first trying
// the immediate bases, then recursing depth-first in declaration order.
// With diamond shapes the first declared base wins; equal bases reached
// through two paths are not deduplicated and the result is undefined.
func (ci *ClassInfo) Cast(ptr any, target TypeID) (any, bool) {
	if target == ci.id {
		return ptr, true
	}

	// Direct parent first.
	for _, base := range ci.bases {
		if base.info.id == target {
			return base.cast(ptr), true
		}
	}

	// Walk the hierarchy.
	for _, base := range ci.bases {
		if p, ok := base.info.Cast(base.cast(ptr), target); ok {
			return p, true
		}
	}

	return nil, false
}

// addObject records a wrapped object in the identity map. Wrapping the
// same pointer twice under one descriptor is a defect.
func (ci *ClassInfo) addObject(ptr any, e wrapEntry) {
	if _, ok := ci.objects[ptr]; ok {
		panic(fmt.Sprintf("bridge: duplicate object %p for %s (type %d)", ptr, ci.gotype, ci.id))
	}
	ci.objects[ptr] = e
}

// removeObject erases one identity-map entry, disposing it first (owned
// entries run their destroy callback). Removing an untracked pointer is a
// defect.
func (ci *ClassInfo) removeObject(ptr any) {
	e, ok := ci.objects[ptr]
	if !ok {
		panic(fmt.Sprintf("bridge: no object %p for %s (type %d)", ptr, ci.gotype, ci.id))
	}
	delete(ci.objects, ptr)
	e.dispose(ptr)
}

// removeObjects destroys every remaining live object of this descriptor's
// type, in unspecified order. Used at runtime teardown.
func (ci *ClassInfo) removeObjects() {
	objects := ci.objects
	ci.objects = make(map[any]wrapEntry)
	for ptr, e := range objects {
		e.dispose(ptr)
	}
}

// FindObject returns the handle for a wrapped native pointer. The object
// may have been wrapped under a more-derived descriptor, so on a miss the
// search recurses depth-first through derivatives, casting each
// derivative's keys toward this type before comparing, which stays correct when
// the embedding offset is non-zero. First hit wins.
func (ci *ClassInfo) FindObject(ptr any) (*runtime.Object, bool) {
	if e, ok := ci.objects[ptr]; ok {
		if obj := e.handle().Get(); obj != nil {
			return obj, true
		}
	}
	for _, d := range ci.derivatives {
		if obj, ok := d.findAs(ptr, ci.id); ok {
			return obj, true
		}
	}
	return nil, false
}

// findAs searches this descriptor's map for an entry whose pointer, cast
// to the ancestor identity as, equals ptr, then recurses into derivatives.
func (ci *ClassInfo) findAs(ptr any, as TypeID) (*runtime.Object, bool) {
	for key, e := range ci.objects {
		if p, ok := ci.Cast(key, as); ok && p == ptr {
			if obj := e.handle().Get(); obj != nil {
				return obj, true
			}
		}
	}
	for _, d := range ci.derivatives {
		if obj, ok := d.findAs(ptr, as); ok {
			return obj, true
		}
	}
	return nil, false
}

// liveCount returns the number of currently wrapped objects of exactly
// this descriptor's type.
func (ci *ClassInfo) liveCount() int { return len(ci.objects) }
