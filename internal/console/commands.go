package console

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ehr/staffconsole/internal/domain/availability"
	"github.com/ehr/staffconsole/internal/domain/staff"
	"github.com/ehr/staffconsole/internal/platform/notification"
	"github.com/ehr/staffconsole/internal/platform/validation"
	"github.com/ehr/staffconsole/pkg/pagination"
)

var errNoDoctor = errors.New("no doctor selected (use: doctor select <id>)")

// commands builds a fresh command tree so no flag value leaks between lines.
func (s *Session) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "staff-console",
		Short:         "Clinical staff administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(s.out)
	root.SetErr(s.out)

	root.AddCommand(s.userCmd())
	root.AddCommand(s.doctorCmd())
	root.AddCommand(s.availCmd())
	root.AddCommand(s.confirmCmd())
	root.AddCommand(s.cancelCmd())
	root.AddCommand(&cobra.Command{
		Use:     "exit",
		Aliases: []string{"quit"},
		Short:   "Leave the console",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ErrExit
		},
	})
	return root
}

// ---------------------------------------------------------------------------
// user
// ---------------------------------------------------------------------------

// userFlags holds the registration form as command-line flags.
type userFlags struct {
	firstName      string
	username       string
	gender         string
	contact        string
	email          string
	password       string
	role           string
	speciality     string
	qualification  string
	registrationNo string
	experience     int
	photo          string
}

func (f *userFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.firstName, "first-name", "", "First name")
	fl.StringVar(&f.username, "username", "", "Username")
	fl.StringVar(&f.gender, "gender", "", "Male, Female or Other")
	fl.StringVar(&f.contact, "contact", "", "Phone number")
	fl.StringVar(&f.email, "email", "", "Email address")
	fl.StringVar(&f.password, "password", "", "Password")
	fl.StringVar(&f.role, "role", "", "Admin, Front-desk, Doctor, Nurse, Lab tech or Scan tech")
	fl.StringVar(&f.speciality, "speciality", "", "Doctor speciality")
	fl.StringVar(&f.qualification, "qualification", "", "Doctor qualification")
	fl.StringVar(&f.registrationNo, "registration-no", "", "Doctor registration number")
	fl.IntVar(&f.experience, "experience", 0, "Doctor years of experience")
	fl.StringVar(&f.photo, "photo", "", "Path to a JPG or PNG profile photo")
}

// apply copies the flags the user actually passed into in.
func (f *userFlags) apply(cmd *cobra.Command, in *staff.RegistrationInput, readFile func(string) ([]byte, error)) error {
	fl := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	set("first-name", &in.FirstName, f.firstName)
	set("username", &in.Username, f.username)
	set("gender", &in.Gender, f.gender)
	set("contact", &in.Contact, f.contact)
	set("email", &in.Email, f.email)
	set("password", &in.Password, f.password)
	set("role", &in.Role, f.role)

	if fl.Changed("speciality") || fl.Changed("qualification") || fl.Changed("registration-no") || fl.Changed("experience") {
		if in.DoctorDetails == nil {
			in.DoctorDetails = &staff.DoctorDetailsInput{}
		}
		set("speciality", &in.DoctorDetails.Speciality, f.speciality)
		set("qualification", &in.DoctorDetails.Qualification, f.qualification)
		set("registration-no", &in.DoctorDetails.RegistrationNo, f.registrationNo)
		if fl.Changed("experience") {
			in.DoctorDetails.YearsOfExperience = f.experience
		}
	}

	if fl.Changed("photo") {
		data, err := readFile(f.photo)
		if err != nil {
			return fmt.Errorf("read photo: %w", err)
		}
		in.Photo = &staff.PhotoUpload{Name: filepath.Base(f.photo), Data: data}
	}
	return nil
}

func (s *Session) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff users",
	}

	var addFlags userFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in staff.RegistrationInput
			if err := addFlags.apply(cmd, &in, s.readFile); err != nil {
				return err
			}
			u, err := s.staff.Register(in)
			if err != nil {
				return s.formFailure(notification.UserRegisterFailed, err)
			}
			s.notify.Success(s.messages.Text(notification.UserRegistered, nil))
			fmt.Fprintf(s.out, "%s %s (%s)\n", shortID(u.ID), u.FirstName, u.Role)
			return nil
		},
	}
	addFlags.bind(add)

	var editFlags userFlags
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing user; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := s.resolveUser(args[0])
			if err != nil {
				return err
			}
			in := staff.InputFromUser(u)
			if err := editFlags.apply(cmd, &in, s.readFile); err != nil {
				return err
			}
			updated, err := s.staff.Edit(u.ID, in)
			if err != nil {
				return s.formFailure(notification.UserUpdateFailed, err)
			}
			if s.selected == u.ID && !updated.IsDoctor() {
				s.selected = uuid.Nil
			}
			s.notify.Success(s.messages.Text(notification.UserUpdated, nil))
			return nil
		},
	}
	editFlags.bind(edit)

	var filter struct {
		query, role   string
		limit, offset int
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := staff.Filter{Query: filter.query}
			if filter.role != "" && !strings.EqualFold(filter.role, "all") {
				f.Role = staff.Role(filter.role)
			}
			users := f.Apply(s.staff.List())
			page := pagination.New(filter.limit, filter.offset)
			renderUsers(s.out, pagination.Page(users, page))
			if page.HasNext(len(users)) || page.HasPrevious() {
				fmt.Fprintln(s.out, page.Summary(len(users)))
			}
			if page.HasPrevious() {
				fmt.Fprintf(s.out, "Previous page: --offset %d\n", page.PreviousOffset())
			}
			if page.HasNext(len(users)) {
				fmt.Fprintf(s.out, "Next page: --offset %d\n", page.NextOffset())
			}
			return nil
		},
	}
	list.Flags().StringVarP(&filter.query, "query", "q", "", "Search first name, username or role")
	list.Flags().StringVar(&filter.role, "role", "", "Only show this role")
	list.Flags().IntVar(&filter.limit, "limit", pagination.DefaultLimit, "Rows per page")
	list.Flags().IntVar(&filter.offset, "offset", 0, "Rows to skip")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := s.resolveUser(args[0])
			if err != nil {
				return err
			}
			renderUser(s.out, u)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := s.resolveUser(args[0])
			if err != nil {
				return err
			}
			if err := s.dialog.Request(fmt.Sprintf("user %s (%s)", u.FirstName, shortID(u.ID))); err != nil {
				return err
			}
			id := u.ID
			s.pending = &pendingAction{
				run: func(context.Context) error {
					if err := s.staff.Delete(id); err != nil {
						return err
					}
					if s.selected == id {
						s.selected = uuid.Nil
					}
					return nil
				},
				succeeded: notification.UserDeleted,
				failed:    notification.UserDeleteFailed,
			}
			fmt.Fprintf(s.out, "Are you sure you want to delete this user? %s\n", s.dialog.Subject())
			fmt.Fprintln(s.out, `Type "confirm" to delete or "cancel" to keep it.`)
			return nil
		},
	}

	cmd.AddCommand(add, edit, list, show, del)
	return cmd
}

// formFailure leaves field errors as they are and prefixes anything else
// with the catalog message for key. Exec reports the result once.
func (s *Session) formFailure(key string, err error) error {
	var fields validation.Errors
	if errors.As(err, &fields) {
		return err
	}
	return fmt.Errorf("%s: %w", s.messages.Text(key, nil), err)
}

// ---------------------------------------------------------------------------
// confirm / cancel
// ---------------------------------------------------------------------------

func (s *Session) confirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm",
		Short: "Carry out the pending destructive action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.pending == nil {
				return errNothingPending
			}
			p := s.pending
			h, err := s.dialog.Confirm(cmd.Context(), p.run)
			if err != nil {
				return err
			}
			if err := h.Wait(cmd.Context()); err != nil {
				s.log.Warn().Err(err).Msg("confirmed action failed")
				s.notify.Error(s.messages.Text(p.failed, nil))
				return nil
			}
			s.pending = nil
			s.notify.Success(s.messages.Text(p.succeeded, nil))
			return nil
		},
	}
}

var errNothingPending = errors.New("nothing to confirm")

func (s *Session) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Dismiss the pending destructive action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.dialog.Cancel(); err != nil {
				return err
			}
			if s.pending != nil {
				s.pending = nil
				fmt.Fprintln(s.out, "Cancelled")
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// doctor
// ---------------------------------------------------------------------------

func (s *Session) doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "List and select doctors",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List doctors; the selected one is marked with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderDoctors(s.out, s.staff.Doctors(), s.selected)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "select <id>",
		Short: "Select the doctor whose schedule is managed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := s.resolveDoctor(args[0])
			if err != nil {
				return err
			}
			s.selected = d.ID
			fmt.Fprintf(s.out, "Selected %s (%s)\n", doctorName(d), shortID(d.ID))
			return nil
		},
	})
	return cmd
}

// ---------------------------------------------------------------------------
// avail
// ---------------------------------------------------------------------------

func (s *Session) availCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avail",
		Short: "Manage doctor availability",
	}

	var addOpts struct {
		doctor string
		day    string
		slots  []string
	}
	add := &cobra.Command{
		Use:   "add",
		Short: "Add one day of availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := availability.AvailabilityInput{Day: addOpts.day}
			switch {
			case addOpts.doctor != "":
				u, err := s.resolveUser(addOpts.doctor)
				if err != nil {
					return err
				}
				in.DoctorID = u.ID.String()
			case s.selected != uuid.Nil:
				in.DoctorID = s.selected.String()
			}
			for _, raw := range addOpts.slots {
				start, end, _ := strings.Cut(raw, "-")
				in.TimeSlots = append(in.TimeSlots, availability.TimeSlotInput{
					Start: strings.TrimSpace(start),
					End:   strings.TrimSpace(end),
				})
			}

			a, err := s.avail.Submit(in)
			if err != nil {
				return err
			}
			s.notify.Success(s.messages.Text(notification.AvailabilityAdded, nil))
			fmt.Fprintf(s.out, "%s %s, %d slot(s)\n", shortID(a.ID), a.Day, len(a.TimeSlots))
			return nil
		},
	}
	add.Flags().StringVar(&addOpts.doctor, "doctor", "", "Doctor id; defaults to the selected doctor")
	add.Flags().StringVar(&addOpts.day, "day", "", "Day of week, e.g. Monday")
	add.Flags().StringArrayVar(&addOpts.slots, "slot", nil, "Time slot as HH:MM-HH:MM; repeatable")

	var weekDoctor string
	week := &cobra.Command{
		Use:   "week",
		Short: "Show the weekly schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := s.targetDoctor(weekDoctor)
			if err != nil {
				return err
			}
			renderWeek(s.out, d, s.avail.WeeklyView(d.ID))
			return nil
		},
	}
	week.Flags().StringVar(&weekDoctor, "doctor", "", "Doctor id; defaults to the selected doctor")

	remove := &cobra.Command{
		Use:   "remove <availability-id> <slot-id>",
		Short: "Remove one time slot; the last slot removes the whole day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := s.resolveAvailability(args[0])
			if err != nil {
				return err
			}
			slot, err := resolveSlot(rec, args[1])
			if err != nil {
				return err
			}
			res, err := s.avail.RemoveSlot(rec.ID, slot.ID)
			if err != nil {
				return err
			}
			if res == availability.RemovedDay {
				s.notify.Success(s.messages.Text(notification.DayCleared, map[string]string{"day": rec.Day.String()}))
				return nil
			}
			s.notify.Success(s.messages.Text(notification.SlotDeleted, nil))
			return nil
		},
	}

	drop := &cobra.Command{
		Use:   "drop <availability-id>",
		Short: "Remove a whole availability record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := s.resolveAvailability(args[0])
			if err != nil {
				return err
			}
			s.avail.DeleteAvailability(rec.ID)
			s.notify.Success(s.messages.Text(notification.DayCleared, map[string]string{"day": rec.Day.String()}))
			return nil
		},
	}

	cmd.AddCommand(add, week, remove, drop)
	return cmd
}

// targetDoctor resolves ref, or the selected doctor when ref is empty.
func (s *Session) targetDoctor(ref string) (staff.User, error) {
	if ref != "" {
		return s.resolveDoctor(ref)
	}
	if s.selected == uuid.Nil {
		return staff.User{}, errNoDoctor
	}
	u, ok := s.staff.Get(s.selected)
	if !ok {
		s.selected = uuid.Nil
		return staff.User{}, errNoDoctor
	}
	return u, nil
}
