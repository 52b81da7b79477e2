package availability

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/staffconsole/internal/platform/validation"
)

var (
	ErrUnknownDoctor        = errors.New("doctor not found")
	ErrAvailabilityNotFound = errors.New("availability not found")
	ErrSlotNotFound         = errors.New("time slot not found")
)

// DoctorDirectory answers whether an id belongs to a registered doctor.
type DoctorDirectory interface {
	IsDoctor(id uuid.UUID) bool
}

// RemoveResult tells which deletion path RemoveSlot took.
type RemoveResult int

const (
	// RemovedSlot means the record kept its other slots.
	RemovedSlot RemoveResult = iota + 1
	// RemovedDay means the slot was the last one and the record is gone.
	RemovedDay
)

type Service struct {
	store   Repository
	doctors DoctorDirectory
	forms   *validation.Validator
	log     zerolog.Logger
}

func NewService(store Repository, doctors DoctorDirectory, forms *validation.Validator, log zerolog.Logger) *Service {
	if err := RegisterRules(forms); err != nil {
		panic(fmt.Sprintf("availability: register form rules: %v", err))
	}
	return &Service{
		store:   store,
		doctors: doctors,
		forms:   forms,
		log:     log.With().Str("component", "availability").Logger(),
	}
}

// Submit validates the form, checks every candidate slot against the batch and
// against the doctor's stored slots for that day, and commits the whole batch
// as one new record. Nothing is stored unless every check passes.
func (s *Service) Submit(in AvailabilityInput) (Availability, error) {
	if errs := s.forms.Validate(in, inputMessages); errs != nil {
		return Availability{}, errs
	}

	doctorID, err := uuid.Parse(in.DoctorID)
	if err != nil {
		return Availability{}, validation.Errors{{Field: "doctorId", Message: inputMessages["doctorId.uuid"]}}
	}
	if !s.doctors.IsDoctor(doctorID) {
		return Availability{}, fmt.Errorf("%w: %s", ErrUnknownDoctor, doctorID)
	}
	day, err := ParseWeekday(in.Day)
	if err != nil {
		return Availability{}, validation.Errors{{Field: "dayOfWeek", Message: inputMessages["dayOfWeek.weekday"]}}
	}

	candidates := make([]Range, len(in.TimeSlots))
	for i, ts := range in.TimeSlots {
		candidates[i] = ts.rangeOf()
	}
	if err := CheckBatch(candidates, s.ExistingRanges(doctorID, day)); err != nil {
		s.log.Warn().Err(err).
			Str("doctor_id", doctorID.String()).
			Stringer("day", day).
			Int("slots", len(candidates)).
			Msg("availability rejected")
		return Availability{}, err
	}

	slots := make([]TimeSlot, len(candidates))
	for i, r := range candidates {
		slots[i] = TimeSlot{ID: uuid.New(), Start: r.Start, End: r.End}
	}
	a := s.store.Add(doctorID, day, slots)

	s.log.Info().
		Str("availability_id", a.ID.String()).
		Str("doctor_id", doctorID.String()).
		Stringer("day", day).
		Int("slots", len(slots)).
		Msg("availability added")
	return a, nil
}

// ExistingRanges returns every stored slot for the doctor and day, across all
// records for that pair.
func (s *Service) ExistingRanges(doctorID uuid.UUID, day Weekday) []Range {
	var out []Range
	for _, rec := range s.store.ForDoctor(doctorID) {
		if rec.Day != day {
			continue
		}
		for _, slot := range rec.TimeSlots {
			out = append(out, slot.Range())
		}
	}
	return out
}

// RemoveSlot deletes one slot. When it is the record's last slot the whole
// record is deleted instead, so this path never leaves an empty record.
func (s *Service) RemoveSlot(availabilityID, slotID uuid.UUID) (RemoveResult, error) {
	rec, ok := s.store.Get(availabilityID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrAvailabilityNotFound, availabilityID)
	}
	if _, ok := rec.Slot(slotID); !ok {
		return 0, fmt.Errorf("%w: %s", ErrSlotNotFound, slotID)
	}

	logger := s.log.With().
		Str("availability_id", availabilityID.String()).
		Str("slot_id", slotID.String()).
		Logger()

	if len(rec.TimeSlots) == 1 {
		s.store.Delete(availabilityID)
		logger.Info().Stringer("day", rec.Day).Msg("last slot removed, availability deleted")
		return RemovedDay, nil
	}
	s.store.DeleteTimeSlot(availabilityID, slotID)
	logger.Info().Msg("time slot removed")
	return RemovedSlot, nil
}

// Get returns a record by id.
func (s *Service) Get(id uuid.UUID) (Availability, bool) {
	return s.store.Get(id)
}

// DeleteAvailability removes a whole record; unknown ids are ignored.
func (s *Service) DeleteAvailability(id uuid.UUID) bool {
	return s.store.Delete(id)
}

// UpdateAvailability merges patch into a record; unknown ids are ignored. The
// patch is not checked for overlaps.
func (s *Service) UpdateAvailability(id uuid.UUID, patch AvailabilityPatch) bool {
	return s.store.Update(id, patch)
}

// ForDoctor lists a doctor's records in insertion order.
func (s *Service) ForDoctor(doctorID uuid.UUID) []Availability {
	return s.store.ForDoctor(doctorID)
}

// List returns every record.
func (s *Service) List() []Availability {
	return s.store.List()
}

// WeeklyView groups the doctor's slots Monday to Sunday. It is recomputed from
// the store on every call.
func (s *Service) WeeklyView(doctorID uuid.UUID) WeeklyView {
	return groupByDay(doctorID, s.store.ForDoctor(doctorID))
}
