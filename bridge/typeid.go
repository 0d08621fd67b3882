package bridge

import (
	"reflect"
	"sync"
)

// TypeID names a native type across every runtime instance in the process.
// Identities are assigned once per distinct Go type, monotonically, and
// never reused: the same type always maps to the same TypeID no matter how
// many runtimes it is bound into.
type TypeID uint32

var typeIDs = struct {
	sync.Mutex
	next   TypeID
	byType map[reflect.Type]TypeID
}{
	byType: make(map[reflect.Type]TypeID),
}

// TypeIDOf returns the process-wide identity for a native type, assigning
// one on first use. Touched at registration time only, never per object.
func TypeIDOf(t reflect.Type) TypeID {
	typeIDs.Lock()
	defer typeIDs.Unlock()

	if id, ok := typeIDs.byType[t]; ok {
		return id
	}
	id := typeIDs.next
	typeIDs.next++
	typeIDs.byType[t] = id
	return id
}

// typeIDFor is the generic shorthand for TypeIDOf.
func typeIDFor[T any]() TypeID {
	return TypeIDOf(reflect.TypeOf((*T)(nil)).Elem())
}
