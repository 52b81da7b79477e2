package availability

import (
	"github.com/google/uuid"
)

// Repository holds availability records. Unknown ids are silent no-ops that
// report false; implementations never fail.
type Repository interface {
	Add(doctorID uuid.UUID, day Weekday, slots []TimeSlot) Availability
	Get(id uuid.UUID) (Availability, bool)
	Update(id uuid.UUID, patch AvailabilityPatch) bool
	Delete(id uuid.UUID) bool
	// DeleteTimeSlot removes one slot and keeps the record even when it becomes
	// empty. Callers that must not leave empty records use Service.RemoveSlot.
	DeleteTimeSlot(availabilityID, slotID uuid.UUID) bool
	ForDoctor(doctorID uuid.UUID) []Availability
	List() []Availability
}
