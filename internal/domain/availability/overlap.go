package availability

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange = errors.New("end time must be after start time")
	ErrSlotOverlap  = errors.New("time slots cannot overlap")
)

// Range is a half-open interval [Start, End) within one day.
type Range struct {
	Start Clock
	End   Clock
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Valid reports whether the range is non-empty.
func (r Range) Valid() bool {
	return r.End > r.Start
}

// Overlaps reports whether a and b share at least one minute. Ranges that only
// touch (a.End == b.Start) do not overlap.
func Overlaps(a, b Range) bool {
	return a.Start < b.End && b.Start < a.End
}

// OverlapError describes the first conflict found in a batch.
type OverlapError struct {
	Index    int   // candidate position in the batch
	Range    Range // the candidate
	Conflict Range // the range it collides with
	Stored   bool  // Conflict is already stored rather than part of the batch
}

func (e *OverlapError) Error() string {
	where := "another slot in the batch"
	if e.Stored {
		where = "existing availability"
	}
	return fmt.Sprintf("slot %d (%s) overlaps %s %s", e.Index+1, e.Range, where, e.Conflict)
}

func (e *OverlapError) Unwrap() error { return ErrSlotOverlap }

// CheckBatch validates every candidate against the rest of the batch and
// against the ranges already stored for the same doctor and day. It never
// mutates its arguments; a nil result means the whole batch may be committed.
func CheckBatch(candidates, existing []Range) error {
	for i, c := range candidates {
		if !c.Valid() {
			return fmt.Errorf("slot %d (%s): %w", i+1, c, ErrInvalidRange)
		}
		for j, other := range candidates {
			if i == j || !other.Valid() {
				continue
			}
			if Overlaps(c, other) {
				return &OverlapError{Index: i, Range: c, Conflict: other}
			}
		}
		for _, stored := range existing {
			if Overlaps(c, stored) {
				return &OverlapError{Index: i, Range: c, Conflict: stored, Stored: true}
			}
		}
	}
	return nil
}
