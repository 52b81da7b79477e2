package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ehr/staffconsole/internal/domain/availability"
	"github.com/ehr/staffconsole/internal/domain/staff"
)

var (
	ErrNoMatch   = errors.New("no match")
	ErrAmbiguous = errors.New("ambiguous id")
)

// matchID returns the single id that equals ref or starts with it. Dashes are
// optional in ref.
func matchID(kind, ref string, ids []uuid.UUID) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		for _, candidate := range ids {
			if candidate == id {
				return id, nil
			}
		}
		return uuid.Nil, fmt.Errorf("%w: %s %s", ErrNoMatch, kind, ref)
	}

	prefix := strings.ToLower(strings.ReplaceAll(ref, "-", ""))
	if prefix == "" {
		return uuid.Nil, fmt.Errorf("%w: empty %s id", ErrNoMatch, kind)
	}
	var found []uuid.UUID
	for _, id := range ids {
		if strings.HasPrefix(strings.ReplaceAll(id.String(), "-", ""), prefix) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %s %s", ErrNoMatch, kind, ref)
	case 1:
		return found[0], nil
	default:
		return uuid.Nil, fmt.Errorf("%w: %s %s matches %d records", ErrAmbiguous, kind, ref, len(found))
	}
}

func (s *Session) resolveUser(ref string) (staff.User, error) {
	users := s.staff.List()
	id, err := matchID("user", ref, userIDs(users))
	if err != nil {
		return staff.User{}, err
	}
	u, _ := s.staff.Get(id)
	return u, nil
}

func (s *Session) resolveDoctor(ref string) (staff.User, error) {
	id, err := matchID("doctor", ref, userIDs(s.staff.Doctors()))
	if err != nil {
		return staff.User{}, err
	}
	u, _ := s.staff.Get(id)
	return u, nil
}

func (s *Session) resolveAvailability(ref string) (availability.Availability, error) {
	records := s.avail.List()
	ids := make([]uuid.UUID, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	id, err := matchID("availability", ref, ids)
	if err != nil {
		return availability.Availability{}, err
	}
	rec, _ := s.avail.Get(id)
	return rec, nil
}

func resolveSlot(rec availability.Availability, ref string) (availability.TimeSlot, error) {
	ids := make([]uuid.UUID, len(rec.TimeSlots))
	for i, slot := range rec.TimeSlots {
		ids[i] = slot.ID
	}
	id, err := matchID("time slot", ref, ids)
	if err != nil {
		return availability.TimeSlot{}, err
	}
	slot, _ := rec.Slot(id)
	return slot, nil
}

func userIDs(users []staff.User) []uuid.UUID {
	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

// shortID is the abbreviated form shown in tables.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
