package availability

import (
	"sync"

	"github.com/google/uuid"
)

// Store is the in-memory Repository. Records keep insertion order. Values
// handed out are copies, so callers cannot change stored slots behind the
// store's back.
type Store struct {
	mu      sync.RWMutex
	records []Availability
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a new record with a fresh id. It does not look for overlaps;
// Service.Submit runs CheckBatch before calling it.
func (s *Store) Add(doctorID uuid.UUID, day Weekday, slots []TimeSlot) Availability {
	a := Availability{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Day:       day,
		TimeSlots: append([]TimeSlot(nil), slots...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, a)
	return a.clone()
}

func (s *Store) Get(id uuid.UUID) (Availability, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.records[i].clone(), true
	}
	return Availability{}, false
}

func (s *Store) Update(id uuid.UUID, patch AvailabilityPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	rec := &s.records[i]
	if patch.DoctorID != nil {
		rec.DoctorID = *patch.DoctorID
	}
	if patch.Day != nil {
		rec.Day = *patch.Day
	}
	if patch.TimeSlots != nil {
		rec.TimeSlots = append([]TimeSlot(nil), patch.TimeSlots...)
	}
	return true
}

func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i], s.records[i+1:]...)
	return true
}

func (s *Store) DeleteTimeSlot(availabilityID, slotID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(availabilityID)
	if i < 0 {
		return false
	}
	rec := &s.records[i]
	kept := make([]TimeSlot, 0, len(rec.TimeSlots))
	for _, slot := range rec.TimeSlots {
		if slot.ID != slotID {
			kept = append(kept, slot)
		}
	}
	removed := len(kept) != len(rec.TimeSlots)
	rec.TimeSlots = kept
	return removed
}

func (s *Store) ForDoctor(doctorID uuid.UUID) []Availability {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Availability
	for _, rec := range s.records {
		if rec.DoctorID == doctorID {
			out = append(out, rec.clone())
		}
	}
	return out
}

func (s *Store) List() []Availability {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Availability, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.clone())
	}
	return out
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, rec := range s.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}
