package bridge

import "github.com/emberhq/ember/runtime"

// wrapEntry is one identity-map entry. The two variants encode the
// ownership mode in the type system: only owned entries can run a native
// destructor.
type wrapEntry interface {
	handle() *runtime.Persistent
	// dispose releases the entry's handle and, for owned entries, destroys
	// the native object. Called exactly once, when the entry leaves the map.
	dispose(ptr any)
}

// referencedEntry wraps a native object the bridge does not own. Disposal
// never touches native memory.
type referencedEntry struct {
	h *runtime.Persistent
}

func (e referencedEntry) handle() *runtime.Persistent { return e.h }

func (e referencedEntry) dispose(any) {
	e.h.Reset()
}

// ownedEntry wraps a native object the bridge owns: disposal runs the
// declared destructor after releasing the handle.
type ownedEntry struct {
	h       *runtime.Persistent
	destroy func(ptr any)
}

func (e ownedEntry) handle() *runtime.Persistent { return e.h }

func (e ownedEntry) dispose(ptr any) {
	e.h.Reset()
	if e.destroy != nil {
		e.destroy(ptr)
	}
}
