package bridge

import "github.com/emberhq/ember/runtime"

// ClassStat is one bound type's registry state, for diagnostics.
type ClassStat struct {
	TypeID        TypeID
	GoType        string
	Bases         []TypeID
	Derivatives   []TypeID
	LiveObjects   int
	Constructible bool
}

// Inspect reports every type bound in rt, in registry order. Unbound
// identity gaps are skipped.
func Inspect(rt *runtime.Runtime) []ClassStat {
	r := registryFor(rt)
	stats := make([]ClassStat, 0, len(r.singletons))
	for _, s := range r.singletons {
		if s == nil {
			continue
		}
		stat := ClassStat{
			TypeID:        s.info.id,
			GoType:        s.info.gotype.String(),
			LiveObjects:   s.info.liveCount(),
			Constructible: s.ctor != nil,
		}
		for _, b := range s.info.bases {
			stat.Bases = append(stat.Bases, b.info.id)
		}
		for _, d := range s.info.derivatives {
			stat.Derivatives = append(stat.Derivatives, d.id)
		}
		stats = append(stats, stat)
	}
	return stats
}

// LiveObjectCount returns the number of wrapped objects across every type
// bound in rt.
func LiveObjectCount(rt *runtime.Runtime) int {
	total := 0
	for _, s := range registryFor(rt).singletons {
		if s != nil {
			total += s.info.liveCount()
		}
	}
	return total
}
