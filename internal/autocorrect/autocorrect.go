// Package autocorrect applies a pass's worth of Corrections to a source
// buffer. It performs exactly one apply pass; the pipeline
// drives the re-parse/re-run fixed-point loop around it.
package autocorrect

import (
	"sort"

	"github.com/fastcop/fastcop/internal/diagnostic"
)

// MaxIterations bounds the pipeline's fixed-point loop: iterate to a
// fixed point or this bounded iteration cap, whichever comes first.
const MaxIterations = 10

// Result is the outcome of one Apply pass.
type Result struct {
	// Source is the buffer after applying every accepted correction.
	Source []byte
	// Applied lists the corrections that were accepted and applied, in
	// the order they were applied (reverse offset order).
	Applied []diagnostic.Correction
	// Deferred lists corrections that overlapped an already-accepted one
	// and were skipped this pass. A non-empty Deferred alongside a
	// non-empty Applied means another pass may make further progress.
	Deferred []diagnostic.Correction
}

// Apply runs one pass:
//  1. Sort corrections by (start_offset, -end_offset, cop_name).
//  2. Scan in that order, accepting a correction only if its range does
//     not overlap any previously accepted correction this pass.
//  3. Apply the accepted corrections to source in reverse offset order.
func Apply(source []byte, corrections []diagnostic.Correction) Result {
	ordered := sortedCorrections(corrections)

	accepted := make([]diagnostic.Correction, 0, len(ordered))
	deferred := make([]diagnostic.Correction, 0)
	for _, c := range ordered {
		if overlapsAny(c, accepted) {
			deferred = append(deferred, c)
			continue
		}
		accepted = append(accepted, c)
	}

	applyOrder := make([]diagnostic.Correction, len(accepted))
	copy(applyOrder, accepted)
	sort.SliceStable(applyOrder, func(i, j int) bool {
		return applyOrder[i].Range.Start > applyOrder[j].Range.Start
	})

	buf := source
	for _, c := range applyOrder {
		buf = applyOne(buf, c)
	}

	return Result{Source: buf, Applied: accepted, Deferred: deferred}
}

// sortedCorrections returns corrections ordered by (start_offset,
// -end_offset, cop_name) without mutating the input slice.
func sortedCorrections(corrections []diagnostic.Correction) []diagnostic.Correction {
	ordered := make([]diagnostic.Correction, len(corrections))
	copy(ordered, corrections)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Range.Start != b.Range.Start {
			return a.Range.Start < b.Range.Start
		}
		if a.Range.End != b.Range.End {
			return a.Range.End > b.Range.End // -end_offset ascending
		}
		return a.OriginCop < b.OriginCop
	})
	return ordered
}

func overlapsAny(c diagnostic.Correction, accepted []diagnostic.Correction) bool {
	for _, a := range accepted {
		if c.Range.Overlaps(a.Range) {
			return true
		}
	}
	return false
}

// applyOne returns a fresh buffer with c's replacement spliced in. It
// never mutates src, since later iterations of the reverse-offset loop
// still read from the offsets computed against the pre-edit buffer.
func applyOne(src []byte, c diagnostic.Correction) []byte {
	out := make([]byte, 0, len(src)-c.Range.Len()+len(c.Replacement))
	out = append(out, src[:c.Range.Start]...)
	out = append(out, c.Replacement...)
	out = append(out, src[c.Range.End:]...)
	return out
}
