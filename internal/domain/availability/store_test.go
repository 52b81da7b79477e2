package availability

import (
	"testing"

	"github.com/google/uuid"
)

func slot(start, end string) TimeSlot {
	return TimeSlot{ID: uuid.New(), Start: MustClock(start), End: MustClock(end)}
}

func TestStore_AddAndForDoctor(t *testing.T) {
	s := NewStore()
	docA, docB := uuid.New(), uuid.New()

	first := s.Add(docA, Monday, []TimeSlot{slot("09:00", "10:00")})
	s.Add(docB, Monday, []TimeSlot{slot("09:00", "10:00")})
	second := s.Add(docA, Monday, []TimeSlot{slot("11:00", "12:00")})

	if first.ID == uuid.Nil || first.ID == second.ID {
		t.Fatalf("expected distinct fresh ids, got %s and %s", first.ID, second.ID)
	}

	got := s.ForDoctor(docA)
	if len(got) != 2 {
		t.Fatalf("expected 2 records for doctor A, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Error("records not returned in insertion order")
	}
	if len(s.List()) != 3 {
		t.Errorf("List() = %d records, want 3", len(s.List()))
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	a := s.Add(uuid.New(), Friday, []TimeSlot{slot("09:00", "10:00")})

	a.TimeSlots[0].Start = MustClock("05:00")
	got, _ := s.Get(a.ID)
	if got.TimeSlots[0].Start != MustClock("09:00") {
		t.Fatal("caller modified stored slot through returned value")
	}
}

func TestStore_Update(t *testing.T) {
	s := NewStore()
	a := s.Add(uuid.New(), Monday, []TimeSlot{slot("09:00", "10:00")})

	day := Tuesday
	if !s.Update(a.ID, AvailabilityPatch{Day: &day}) {
		t.Fatal("Update returned false for existing record")
	}
	got, _ := s.Get(a.ID)
	if got.Day != Tuesday {
		t.Errorf("Day = %s, want Tuesday", got.Day)
	}
	if len(got.TimeSlots) != 1 {
		t.Errorf("nil TimeSlots in patch should keep slots, got %d", len(got.TimeSlots))
	}
}

func TestStore_DeleteTimeSlot_KeepsEmptyRecord(t *testing.T) {
	s := NewStore()
	only := slot("09:00", "10:00")
	a := s.Add(uuid.New(), Monday, []TimeSlot{only})

	if !s.DeleteTimeSlot(a.ID, only.ID) {
		t.Fatal("DeleteTimeSlot returned false")
	}
	got, ok := s.Get(a.ID)
	if !ok {
		t.Fatal("low-level DeleteTimeSlot must not delete the record")
	}
	if len(got.TimeSlots) != 0 {
		t.Errorf("expected empty slot list, got %d", len(got.TimeSlots))
	}
}

func TestStore_NotFoundIsNoOp(t *testing.T) {
	s := NewStore()
	a := s.Add(uuid.New(), Monday, []TimeSlot{slot("09:00", "10:00")})
	before := s.List()

	day := Sunday
	if s.Delete(uuid.New()) {
		t.Error("Delete(unknown) = true")
	}
	if s.Update(uuid.New(), AvailabilityPatch{Day: &day}) {
		t.Error("Update(unknown) = true")
	}
	if s.DeleteTimeSlot(uuid.New(), uuid.New()) {
		t.Error("DeleteTimeSlot(unknown record) = true")
	}
	if s.DeleteTimeSlot(a.ID, uuid.New()) {
		t.Error("DeleteTimeSlot(unknown slot) = true")
	}
	if _, ok := s.Get(uuid.New()); ok {
		t.Error("Get(unknown) found a record")
	}

	after := s.List()
	if len(after) != len(before) || after[0].Day != before[0].Day || len(after[0].TimeSlots) != 1 {
		t.Fatalf("store changed: before=%+v after=%+v", before, after)
	}
}

func TestStore_Delete(t *testing.T) {
	s := NewStore()
	doc := uuid.New()
	a := s.Add(doc, Monday, []TimeSlot{slot("09:00", "10:00")})
	b := s.Add(doc, Monday, []TimeSlot{slot("10:00", "11:00")})

	if !s.Delete(a.ID) {
		t.Fatal("Delete returned false")
	}
	got := s.ForDoctor(doc)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected only record %s, got %+v", b.ID, got)
	}
}
