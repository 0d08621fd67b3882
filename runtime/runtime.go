// Package runtime implements the embedded script runtime's object model:
// values, objects with prototype chains and internal fields, templates,
// persistent handles, and a cooperative mark-and-sweep collector. It is the
// host side of the bridge: a single logical thread of control owns each
// Runtime instance, and nothing here locks on the hot path.
package runtime

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("ember.runtime")

// Options configures a Runtime instance.
type Options struct {
	// GCThreshold triggers a collection pass after this many object
	// allocations. Zero disables automatic collection; CollectGarbage can
	// always be called explicitly.
	GCThreshold int
}

// Runtime is one runtime instance: the unit of isolation. Bridged type
// registries, identity maps, and all objects belong to exactly one Runtime
// and die with it. Runtimes share nothing.
type Runtime struct {
	// Globals is the script-visible global scope and a GC root.
	Globals map[string]Value

	opts        Options
	data        map[int]any
	retained    map[*Object]struct{}
	persistents map[*Persistent]struct{}
	teardowns   []func()
	allocs      int
	collecting  bool
	closed      bool
}

// New creates a runtime instance with default options.
func New() *Runtime {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a runtime instance.
func NewWithOptions(opts Options) *Runtime {
	return &Runtime{
		Globals:     make(map[string]Value),
		opts:        opts,
		data:        make(map[int]any),
		retained:    make(map[*Object]struct{}),
		persistents: make(map[*Persistent]struct{}),
	}
}

// SetData stores instance-local state in a numbered slot. Slot 0 is
// reserved for the bridge's type registry.
func (rt *Runtime) SetData(slot int, v any) { rt.data[slot] = v }

// Data returns the value stored in a numbered slot, or nil.
func (rt *Runtime) Data(slot int) any { return rt.data[slot] }

// Retain pins an object as a GC root until Release.
func (rt *Runtime) Retain(obj *Object) { rt.retained[obj] = struct{}{} }

// Release unpins an object retained with Retain.
func (rt *Runtime) Release(obj *Object) { delete(rt.retained, obj) }

// AddTeardown registers a hook to run, in registration order, when the
// runtime is closed.
func (rt *Runtime) AddTeardown(fn func()) { rt.teardowns = append(rt.teardowns, fn) }

// noteAllocation counts object allocations and triggers a collection pass
// when the configured threshold is reached.
func (rt *Runtime) noteAllocation() {
	rt.allocs++
	if rt.opts.GCThreshold > 0 && rt.allocs >= rt.opts.GCThreshold && !rt.collecting {
		rt.CollectGarbage()
	}
}

// CollectGarbage runs one mark-and-sweep pass: mark everything reachable
// from the globals, retained objects, and strong persistent handles, then
// clear weak handles whose targets are unmarked and fire their finalizers.
// Finalizers run after the sweep, on this same thread; they are the only
// externally triggered reentry into the bridge. Returns the number of weak
// handles cleared.
func (rt *Runtime) CollectGarbage() int {
	rt.collecting = true
	defer func() { rt.collecting = false }()
	rt.allocs = 0

	marked := make(map[*Object]struct{})
	for _, v := range rt.Globals {
		markValue(marked, v)
	}
	for obj := range rt.retained {
		markObject(marked, obj)
	}
	for p := range rt.persistents {
		if !p.weak {
			markObject(marked, p.obj)
		}
	}

	// Collect first, fire after: finalizers mutate the persistent set.
	var dead []*Persistent
	for p := range rt.persistents {
		if p.weak && p.obj != nil {
			if _, ok := marked[p.obj]; !ok {
				dead = append(dead, p)
			}
		}
	}
	for _, p := range dead {
		p.obj = nil
		delete(rt.persistents, p)
	}
	for _, p := range dead {
		p.fire()
	}

	if len(dead) > 0 {
		log.Debugf("collected %d weak handles", len(dead))
	}
	return len(dead)
}

func markValue(marked map[*Object]struct{}, v Value) {
	if obj, ok := v.(*Object); ok {
		markObject(marked, obj)
	}
}

func markObject(marked map[*Object]struct{}, obj *Object) {
	for ; obj != nil; obj = obj.proto {
		if _, ok := marked[obj]; ok {
			return
		}
		marked[obj] = struct{}{}
		for _, p := range obj.props {
			if !p.accessor && p.value != nil {
				markValue(marked, p.value)
			}
		}
	}
}

// Close tears the runtime down: teardown hooks run in registration order
// (the bridge uses one to destroy every remaining wrapped object), then all
// state is dropped. The runtime must not be used afterwards.
func (rt *Runtime) Close() {
	if rt.closed {
		return
	}
	rt.closed = true
	for _, fn := range rt.teardowns {
		fn()
	}
	rt.teardowns = nil
	rt.Globals = nil
	rt.retained = nil
	rt.persistents = make(map[*Persistent]struct{})
	rt.data = nil
}
