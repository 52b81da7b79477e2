package availability

import (
	"github.com/google/uuid"
)

// TimeSlot is one contiguous stretch of a day during which a doctor is available.
type TimeSlot struct {
	ID    uuid.UUID `json:"id"`
	Start Clock     `json:"startTime"`
	End   Clock     `json:"endTime"`
}

// Range returns the slot's interval.
func (s TimeSlot) Range() Range {
	return Range{Start: s.Start, End: s.End}
}

// Availability groups the slots created by one submission for a doctor and day.
// Several records may exist for the same doctor and day.
type Availability struct {
	ID        uuid.UUID  `json:"id"`
	DoctorID  uuid.UUID  `json:"doctorId"`
	Day       Weekday    `json:"dayOfWeek"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// Slot returns the slot with the given id.
func (a Availability) Slot(id uuid.UUID) (TimeSlot, bool) {
	for _, s := range a.TimeSlots {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}

func (a Availability) clone() Availability {
	a.TimeSlots = append([]TimeSlot(nil), a.TimeSlots...)
	return a
}

// AvailabilityPatch holds the fields to merge into a record. Nil fields are
// left unchanged.
type AvailabilityPatch struct {
	DoctorID  *uuid.UUID
	Day       *Weekday
	TimeSlots []TimeSlot
}
