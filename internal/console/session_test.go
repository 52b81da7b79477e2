package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ehr/staffconsole/internal/domain/availability"
	"github.com/ehr/staffconsole/internal/platform/confirm"
	"github.com/ehr/staffconsole/internal/platform/notification"
)

const addDoctor = `user add --first-name Ana --username ana.k --gender Female --contact 555-123-4567 ` +
	`--email ana@example.com --password Secret1! --role Doctor ` +
	`--speciality Cardiology --qualification MD --registration-no REG-1 --experience 5`

func newTestSession(t *testing.T) (*Session, *bytes.Buffer, *notification.Recorder) {
	t.Helper()
	var out bytes.Buffer
	rec := &notification.Recorder{}
	s := NewSession(Options{
		Out:          &out,
		Logger:       zerolog.Nop(),
		Notifier:     rec,
		PasswordCost: bcrypt.MinCost,
	})
	s.readFile = func(string) ([]byte, error) { return nil, os.ErrNotExist }
	return s, &out, rec
}

func mustExec(t *testing.T, s *Session, line string) {
	t.Helper()
	if err := s.Exec(context.Background(), line); err != nil {
		t.Fatalf("%s: %v", line, err)
	}
}

func lastMessage(t *testing.T, rec *notification.Recorder) notification.Notification {
	t.Helper()
	n, ok := rec.Last()
	if !ok {
		t.Fatal("expected a notification")
	}
	return n
}

func TestSession_RegisterAndList(t *testing.T) {
	s, out, rec := newTestSession(t)

	mustExec(t, s, addDoctor)
	if n := lastMessage(t, rec); n.Level != notification.LevelSuccess || n.Message != "User registered successfully!" {
		t.Errorf("unexpected notification: %+v", n)
	}
	mustExec(t, s, `user add --first-name "Lee Ann" --username leeann --gender Other --contact 555-987-6543 `+
		`--email lee@example.com --password Secret1! --role "Lab tech"`)

	out.Reset()
	mustExec(t, s, `user list --role "Lab tech"`)
	if !strings.Contains(out.String(), "Lee Ann") || strings.Contains(out.String(), "ana.k") {
		t.Errorf("role filter output:\n%s", out.String())
	}

	out.Reset()
	mustExec(t, s, "user list -q ana")
	if !strings.Contains(out.String(), "ana.k") || strings.Contains(out.String(), "leeann") {
		t.Errorf("query filter output:\n%s", out.String())
	}

	out.Reset()
	mustExec(t, s, "user list -q nobody")
	if !strings.Contains(out.String(), "No users found") {
		t.Errorf("expected empty table message, got:\n%s", out.String())
	}
}

func TestSession_RegisterDoctorWithoutDetails(t *testing.T) {
	s, out, _ := newTestSession(t)

	err := s.Exec(context.Background(), `user add --first-name Bo --username bobby --gender Male --contact 555-123-4567 `+
		`--email bo@example.com --password Secret1! --role Doctor`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(out.String(), "doctorDetails: Doctor details are required") {
		t.Errorf("output:\n%s", out.String())
	}
	if len(s.users.List()) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestSession_EditUser(t *testing.T) {
	s, _, rec := newTestSession(t)
	mustExec(t, s, addDoctor)
	u := s.users.List()[0]

	mustExec(t, s, "user edit "+shortID(u.ID)+" --first-name Anna --role Nurse")
	got, _ := s.users.Get(u.ID)
	if got.FirstName != "Anna" || got.Role != "Nurse" || got.DoctorDetails != nil {
		t.Errorf("unexpected user after edit: %+v", got)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Error("edit without --password changed the hash")
	}
	if n := lastMessage(t, rec); n.Message != "User updated successfully!" {
		t.Errorf("notification = %q", n.Message)
	}
}

func TestSession_PhotoUpload(t *testing.T) {
	s, _, _ := newTestSession(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	s.readFile = func(name string) ([]byte, error) {
		if name != "me.png" {
			return nil, os.ErrNotExist
		}
		return png, nil
	}

	mustExec(t, s, addDoctor+" --photo me.png")
	u := s.users.List()[0]
	if !strings.HasPrefix(u.ProfilePhoto, "data:image/png;base64,") {
		t.Errorf("ProfilePhoto = %q", u.ProfilePhoto)
	}

	if err := s.Exec(context.Background(), "user edit "+shortID(u.ID)+" --photo missing.png"); err == nil {
		t.Error("expected an error for an unreadable photo")
	}
}

func TestSession_AvailabilityFlow(t *testing.T) {
	s, out, rec := newTestSession(t)
	mustExec(t, s, addDoctor)
	doc := s.users.List()[0]

	mustExec(t, s, "doctor select "+shortID(doc.ID))
	if s.selected != doc.ID {
		t.Fatalf("selected = %s, want %s", s.selected, doc.ID)
	}

	mustExec(t, s, "avail add --day Monday --slot 09:00-10:00 --slot 10:00-11:00")
	if n := lastMessage(t, rec); n.Message != "Availability added successfully!" {
		t.Errorf("notification = %q", n.Message)
	}

	err := s.Exec(context.Background(), "avail add --day monday --slot 09:30-10:30")
	if !errors.Is(err, availability.ErrSlotOverlap) {
		t.Fatalf("expected overlap error, got %v", err)
	}
	if n := lastMessage(t, rec); n.Level != notification.LevelError || n.Message != "Time slots cannot overlap" {
		t.Errorf("unexpected notification: %+v", n)
	}
	if len(s.slots.List()) != 1 {
		t.Fatalf("expected 1 record, got %d", len(s.slots.List()))
	}

	out.Reset()
	mustExec(t, s, "avail week")
	week := out.String()
	for _, want := range []string{"Weekly schedule for Dr. Ana", "Monday", "09:00-10:00", "10:00-11:00", "Sunday"} {
		if !strings.Contains(week, want) {
			t.Errorf("week view missing %q:\n%s", want, week)
		}
	}
}

func TestSession_AvailabilityFormErrors(t *testing.T) {
	s, out, _ := newTestSession(t)

	if err := s.Exec(context.Background(), "avail add --day Monday --slot 09:00-10:00"); err == nil {
		t.Fatal("expected an error without a doctor")
	}
	if !strings.Contains(out.String(), "doctorId: Doctor selection is required") {
		t.Errorf("output:\n%s", out.String())
	}

	mustExec(t, s, addDoctor)
	mustExec(t, s, "doctor select "+shortID(s.users.List()[0].ID))
	out.Reset()
	if err := s.Exec(context.Background(), "avail add --day Monday --slot 11:00-10:00 --slot 12:00"); err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{
		"timeSlots[0].endTime: End time must be after start time",
		"timeSlots[1].endTime: End time is required",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in:\n%s", want, out.String())
		}
	}
}

func TestSession_RemoveSlotCascade(t *testing.T) {
	s, _, rec := newTestSession(t)
	mustExec(t, s, addDoctor)
	doc := s.users.List()[0]
	mustExec(t, s, "avail add --doctor "+shortID(doc.ID)+" --day Wednesday --slot 09:00-10:00 --slot 11:00-12:00")

	a := s.slots.List()[0]
	mustExec(t, s, "avail remove "+shortID(a.ID)+" "+shortID(a.TimeSlots[0].ID))
	if n := lastMessage(t, rec); n.Message != "Time slot deleted" {
		t.Errorf("notification = %q", n.Message)
	}
	mustExec(t, s, "avail remove "+shortID(a.ID)+" "+shortID(a.TimeSlots[1].ID))
	if n := lastMessage(t, rec); n.Message != "Removed all slots for Wednesday" {
		t.Errorf("notification = %q", n.Message)
	}
	if len(s.slots.List()) != 0 {
		t.Fatalf("expected the record to be gone, got %+v", s.slots.List())
	}
}

func TestSession_DropAvailability(t *testing.T) {
	s, _, rec := newTestSession(t)
	mustExec(t, s, addDoctor)
	mustExec(t, s, "avail add --doctor "+shortID(s.users.List()[0].ID)+" --day Friday --slot 08:00-09:00")

	mustExec(t, s, "avail drop "+shortID(s.slots.List()[0].ID))
	if len(s.slots.List()) != 0 {
		t.Fatal("record not dropped")
	}
	if n := lastMessage(t, rec); n.Message != "Removed all slots for Friday" {
		t.Errorf("notification = %q", n.Message)
	}
}

func TestSession_DeleteNeedsConfirmation(t *testing.T) {
	s, out, rec := newTestSession(t)
	mustExec(t, s, addDoctor)
	u := s.users.List()[0]
	mustExec(t, s, "doctor select "+shortID(u.ID))

	mustExec(t, s, "user delete "+shortID(u.ID))
	if !strings.Contains(out.String(), "Are you sure you want to delete this user?") {
		t.Errorf("output:\n%s", out.String())
	}
	if s.dialog.State() != confirm.Open {
		t.Fatalf("dialog state = %s", s.dialog.State())
	}
	if len(s.users.List()) != 1 {
		t.Fatal("user deleted before confirmation")
	}

	mustExec(t, s, "cancel")
	if len(s.users.List()) != 1 || s.dialog.State() != confirm.Closed {
		t.Fatal("cancel must keep the user and close the dialog")
	}

	mustExec(t, s, "user delete "+shortID(u.ID))
	mustExec(t, s, "confirm")
	if len(s.users.List()) != 0 {
		t.Fatal("user not deleted after confirm")
	}
	if s.selected != uuid.Nil {
		t.Error("deleting the selected doctor must clear the selection")
	}
	if n := lastMessage(t, rec); n.Message != "User deleted successfully" {
		t.Errorf("notification = %q", n.Message)
	}
	if s.dialog.State() != confirm.Closed {
		t.Errorf("dialog state = %s after confirm", s.dialog.State())
	}
}

func TestSession_FailedConfirmKeepsDialogOpen(t *testing.T) {
	s, _, rec := newTestSession(t)
	mustExec(t, s, addDoctor)
	u := s.users.List()[0]

	mustExec(t, s, "user delete "+shortID(u.ID))
	s.users.Delete(u.ID)
	mustExec(t, s, "confirm")

	if n := lastMessage(t, rec); n.Level != notification.LevelError || n.Message != "Failed to delete user" {
		t.Errorf("unexpected notification: %+v", n)
	}
	if s.dialog.State() != confirm.Failed || s.pending == nil {
		t.Errorf("dialog state = %s, pending = %v", s.dialog.State(), s.pending != nil)
	}
	mustExec(t, s, "cancel")
	if s.dialog.State() != confirm.Closed {
		t.Errorf("dialog state = %s after cancel", s.dialog.State())
	}
}

func TestSession_ConfirmWithoutRequest(t *testing.T) {
	s, _, rec := newTestSession(t)
	if err := s.Exec(context.Background(), "confirm"); !errors.Is(err, errNothingPending) {
		t.Fatalf("expected errNothingPending, got %v", err)
	}
	if n := lastMessage(t, rec); n.Level != notification.LevelError {
		t.Errorf("unexpected notification: %+v", n)
	}
}

func TestSession_WeekWithoutDoctor(t *testing.T) {
	s, _, _ := newTestSession(t)
	if err := s.Exec(context.Background(), "avail week"); !errors.Is(err, errNoDoctor) {
		t.Fatalf("expected errNoDoctor, got %v", err)
	}
}

func TestSession_ParseAndUnknownCommand(t *testing.T) {
	s, _, rec := newTestSession(t)

	if err := s.Exec(context.Background(), `user list -q "unterminated`); err == nil {
		t.Error("expected a parse error")
	}
	if err := s.Exec(context.Background(), "launch rockets"); err == nil {
		t.Error("expected an unknown command error")
	}
	if len(rec.Notifications()) != 2 {
		t.Errorf("expected 2 error notifications, got %+v", rec.Notifications())
	}
	if err := s.Exec(context.Background(), "   # comment"); err != nil {
		t.Errorf("comment line: %v", err)
	}
}

func TestSession_Run(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(Options{Out: &out, Prompt: "staff> ", Logger: zerolog.Nop(), PasswordCost: bcrypt.MinCost})

	script := strings.Join([]string{
		"user list",
		"bogus",
		"quit",
		"user list",
	}, "\n")
	if err := s.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := strings.Count(out.String(), "No users found"); n != 1 {
		t.Errorf("commands after quit were executed (%d lists):\n%s", n, out.String())
	}
	if !strings.Contains(out.String(), "✗ unknown command") {
		t.Errorf("expected the console notifier to report the unknown command:\n%s", out.String())
	}
	if !strings.HasPrefix(out.String(), "staff> ") {
		t.Errorf("prompt missing:\n%s", out.String())
	}
}

func TestSession_RunCancelled(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, strings.NewReader("user list\n")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSession_ListPaging(t *testing.T) {
	s, out, _ := newTestSession(t)
	for i := 0; i < 3; i++ {
		mustExec(t, s, addDoctor)
	}

	out.Reset()
	mustExec(t, s, "user list --limit 2")
	if !strings.Contains(out.String(), "Showing 1-2 of 3") || !strings.Contains(out.String(), "Next page: --offset 2") {
		t.Errorf("first page:\n%s", out.String())
	}

	out.Reset()
	mustExec(t, s, "user list --limit 2 --offset 2")
	if !strings.Contains(out.String(), "Showing 3-3 of 3") || strings.Contains(out.String(), "Next page") {
		t.Errorf("last page:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Previous page: --offset 0") {
		t.Errorf("last page should point back:\n%s", out.String())
	}

	out.Reset()
	mustExec(t, s, "user list")
	if strings.Contains(out.String(), "Showing") {
		t.Errorf("single page should have no footer:\n%s", out.String())
	}
}

func TestSession_RegisterFailureReportedOnce(t *testing.T) {
	s, _, rec := newTestSession(t)

	// bcrypt refuses passwords longer than 72 bytes.
	long := strings.Repeat("Secret1!", 10)
	err := s.Exec(context.Background(), strings.Replace(addDoctor, "Secret1!", long, 1))
	if err == nil {
		t.Fatal("expected registration to fail")
	}
	sent := rec.Notifications()
	if len(sent) != 1 {
		t.Fatalf("got %d notifications, want 1: %+v", len(sent), sent)
	}
	if sent[0].Level != notification.LevelError || !strings.HasPrefix(sent[0].Message, "Failed to register user: ") {
		t.Errorf("unexpected notification: %+v", sent[0])
	}
	if len(s.staff.List()) != 0 {
		t.Error("failed registration stored a user")
	}
}

func TestSession_AbbreviatedDayRejected(t *testing.T) {
	s, out, _ := newTestSession(t)
	mustExec(t, s, addDoctor)
	d := s.staff.Doctors()[0]

	out.Reset()
	err := s.Exec(context.Background(), "avail add --doctor "+d.ID.String()+" --day mon --slot 13:00-14:00")
	if err == nil {
		t.Fatal("expected an abbreviated day to be rejected")
	}
	if !strings.Contains(out.String(), "dayOfWeek") {
		t.Errorf("expected a day field error, got:\n%s", out.String())
	}
	if got := s.avail.ForDoctor(d.ID); len(got) != 0 {
		t.Errorf("nothing should be stored, got %d records", len(got))
	}
}
