package availability

import (
	"github.com/go-playground/validator/v10"

	"github.com/ehr/staffconsole/internal/platform/validation"
)

// AvailabilityInput is the raw "Add Availability" form.
type AvailabilityInput struct {
	DoctorID  string          `json:"doctorId" validate:"required,uuid"`
	Day       string          `json:"dayOfWeek" validate:"required,weekday"`
	TimeSlots []TimeSlotInput `json:"timeSlots" validate:"min=1,dive"`
}

// TimeSlotInput is one start/end pair of the form.
type TimeSlotInput struct {
	Start string `json:"startTime" validate:"required,hhmm"`
	End   string `json:"endTime" validate:"required,hhmm"`
}

var inputMessages = validation.Messages{
	"doctorId.required":             "Doctor selection is required",
	"doctorId.uuid":                 "Doctor selection is invalid",
	"dayOfWeek.required":            "Day of week is required",
	"dayOfWeek.weekday":             "Day of week must be Monday to Sunday",
	"timeSlots.min":                 "At least one time slot is required",
	"timeSlots.startTime.required":  "Start time is required",
	"timeSlots.startTime.hhmm":      "Start time must be HH:MM",
	"timeSlots.endTime.required":    "End time is required",
	"timeSlots.endTime.hhmm":        "End time must be HH:MM",
	"timeSlots.endTime.after_start": "End time must be after start time",
}

// RegisterRules adds the availability form rules to v.
func RegisterRules(v *validation.Validator) error {
	if err := v.RegisterRule("weekday", func(s string) bool {
		_, err := ParseWeekday(s)
		return err == nil
	}); err != nil {
		return err
	}
	v.RegisterStructRule(slotOrder, TimeSlotInput{})
	return nil
}

func slotOrder(sl validator.StructLevel) {
	in := sl.Current().Interface().(TimeSlotInput)
	start, err := ParseClock(in.Start)
	if err != nil {
		return
	}
	end, err := ParseClock(in.End)
	if err != nil {
		return
	}
	if end <= start {
		sl.ReportError(in.End, "endTime", "End", "after_start", "")
	}
}

func (in TimeSlotInput) rangeOf() Range {
	start, _ := ParseClock(in.Start)
	end, _ := ParseClock(in.End)
	return Range{Start: start, End: end}
}
