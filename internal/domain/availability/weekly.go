package availability

import (
	"github.com/google/uuid"
)

// Entry is one slot placed in the weekly view, with the record that owns it.
type Entry struct {
	AvailabilityID uuid.UUID `json:"availabilityId"`
	Slot           TimeSlot  `json:"slot"`
}

// DaySchedule is one day bucket of the weekly view.
type DaySchedule struct {
	Day     Weekday `json:"day"`
	Entries []Entry `json:"entries"`
}

// WeeklyView is a doctor's availability grouped Monday to Sunday.
type WeeklyView struct {
	DoctorID uuid.UUID      `json:"doctorId"`
	Days     [7]DaySchedule `json:"days"`
}

// Empty reports whether the doctor has no slots at all.
func (w WeeklyView) Empty() bool {
	for _, d := range w.Days {
		if len(d.Entries) > 0 {
			return false
		}
	}
	return true
}

// Day returns the bucket for d.
func (w WeeklyView) Day(d Weekday) DaySchedule {
	return w.Days[d-Monday]
}

// groupByDay places every slot of records into its day bucket, keeping record
// order and then slot order within a day.
func groupByDay(doctorID uuid.UUID, records []Availability) WeeklyView {
	view := WeeklyView{DoctorID: doctorID}
	for i, d := range Week {
		view.Days[i].Day = d
	}
	for _, rec := range records {
		if !rec.Day.Valid() {
			continue
		}
		bucket := &view.Days[rec.Day-Monday]
		for _, slot := range rec.TimeSlots {
			bucket.Entries = append(bucket.Entries, Entry{AvailabilityID: rec.ID, Slot: slot})
		}
	}
	return view
}
