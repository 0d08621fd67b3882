// Package bridge binds native Go types into an embedded script runtime
// while keeping a correct, inheritance-aware identity and lifetime mapping
// between native pointers and script handles.
//
// Each bound type gets a process-wide TypeID and, per runtime instance, a
// descriptor recording its declared bases (with pointer-adjusting cast
// functions), back-references from derived types, and the identity map of
// currently wrapped objects. Wrapped objects are either referenced (the
// bridge never destroys them) or owned (destroyed exactly once, by
// explicit destroy, by the collector reclaiming the handle, or at runtime
// teardown).
//
// Registration is single-threaded configuration surface and must complete
// before wrap/unwrap traffic begins; the hot path takes no locks. Binding
// mistakes (duplicate bases, wrapping the same pointer twice, destroying
// an untracked pointer) are defects and panic with the type identity and
// pointer; only construction failures and disallowed construction surface
// to script, as catchable errors.
package bridge
