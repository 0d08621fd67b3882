// Package snapshot captures a runtime's binding registry as a compact,
// deterministic diagnostic record: which native types are bound, their
// identities and inheritance edges, and how many objects each holds. The
// encoding is canonical CBOR so equal registries produce equal bytes, and
// a sha256 digest over those bytes names the registry state.
package snapshot

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/emberhq/ember/bridge"
	"github.com/emberhq/ember/runtime"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// ClassRecord is one bound type's registry state.
type ClassRecord struct {
	GoType        string   `cbor:"goType"`
	TypeID        uint32   `cbor:"typeId"`
	Bases         []uint32 `cbor:"bases,omitempty"`
	Derivatives   []uint32 `cbor:"derivatives,omitempty"`
	LiveObjects   int      `cbor:"liveObjects"`
	Constructible bool     `cbor:"constructible"`
}

// Snapshot is the full registry state of one runtime instance.
type Snapshot struct {
	Classes []ClassRecord `cbor:"classes"`
}

// Capture records the binding registry of rt. Classes are ordered by type
// identity; derivative lists are sorted so equal registries capture
// identically regardless of registration interleaving.
func Capture(rt *runtime.Runtime) *Snapshot {
	stats := bridge.Inspect(rt)
	snap := &Snapshot{Classes: make([]ClassRecord, 0, len(stats))}
	for _, st := range stats {
		rec := ClassRecord{
			GoType:        st.GoType,
			TypeID:        uint32(st.TypeID),
			LiveObjects:   st.LiveObjects,
			Constructible: st.Constructible,
		}
		for _, b := range st.Bases {
			rec.Bases = append(rec.Bases, uint32(b))
		}
		for _, d := range st.Derivatives {
			rec.Derivatives = append(rec.Derivatives, uint32(d))
		}
		sort.Slice(rec.Derivatives, func(i, j int) bool { return rec.Derivatives[i] < rec.Derivatives[j] })
		snap.Classes = append(snap.Classes, rec)
	}
	sort.Slice(snap.Classes, func(i, j int) bool { return snap.Classes[i].TypeID < snap.Classes[j].TypeID })
	return snap
}

// Marshal serializes a Snapshot to canonical CBOR bytes.
func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal deserializes a Snapshot from CBOR bytes.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}

// Digest returns the sha256 of the snapshot's canonical encoding.
func Digest(s *Snapshot) ([32]byte, error) {
	data, err := Marshal(s)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}
