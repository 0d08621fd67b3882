package runtime

// ---------------------------------------------------------------------------
// Persistent: a handle that outlives individual script operations
// ---------------------------------------------------------------------------

// WeakCallback is a single-shot finalizer attached to a weak persistent
// handle. It receives the parameter given to SetWeak (for the bridge, the
// wrapped native pointer) and runs on the runtime's thread during a
// collection pass, never concurrently with other runtime operations.
type WeakCallback func(param any)

// Persistent is a long-lived reference to a script object. Strong handles
// act as GC roots; weak handles do not keep their target alive and instead
// fire their callback at most once when the target is collected.
type Persistent struct {
	rt        *Runtime
	obj       *Object
	weak      bool
	param     any
	finalizer WeakCallback
	fired     bool
}

// NewPersistent creates a strong handle to obj.
func (rt *Runtime) NewPersistent(obj *Object) *Persistent {
	p := &Persistent{rt: rt, obj: obj}
	rt.persistents[p] = struct{}{}
	return p
}

// Get returns the referenced object, or nil for an empty handle.
func (p *Persistent) Get() *Object { return p.obj }

// IsEmpty reports whether the handle no longer references an object.
func (p *Persistent) IsEmpty() bool { return p.obj == nil }

// Reset drops the reference and detaches the handle from the runtime. A
// reset handle's weak callback never fires.
func (p *Persistent) Reset() {
	p.obj = nil
	p.finalizer = nil
	delete(p.rt.persistents, p)
}

// SetWeak turns the handle weak: it stops acting as a GC root and arranges
// for fn(param) to be invoked at most once when the target becomes
// unreachable from script.
func (p *Persistent) SetWeak(param any, fn WeakCallback) {
	p.weak = true
	p.param = param
	p.finalizer = fn
}

// fire invokes the weak callback exactly once.
func (p *Persistent) fire() {
	if p.fired || p.finalizer == nil {
		return
	}
	p.fired = true
	fn, param := p.finalizer, p.param
	p.finalizer = nil
	fn(param)
}
