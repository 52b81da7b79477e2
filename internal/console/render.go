package console

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/ehr/staffconsole/internal/domain/availability"
	"github.com/ehr/staffconsole/internal/domain/staff"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderUsers(w io.Writer, users []staff.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tROLE\tCONTACT\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(u.ID), u.FirstName, u.Username, u.Role, u.Contact, u.Email)
	}
	tw.Flush()
}

func renderUser(w io.Writer, u staff.User) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "First name:\t%s\n", u.FirstName)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Gender:\t%s\n", u.Gender)
	fmt.Fprintf(tw, "Contact:\t%s\n", u.Contact)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	photo := "none"
	if u.ProfilePhoto != "" {
		photo = fmt.Sprintf("%d bytes (data URL)", len(u.ProfilePhoto))
	}
	fmt.Fprintf(tw, "Photo:\t%s\n", photo)
	if d := u.DoctorDetails; d != nil {
		fmt.Fprintf(tw, "Speciality:\t%s\n", d.Speciality)
		fmt.Fprintf(tw, "Qualification:\t%s\n", d.Qualification)
		fmt.Fprintf(tw, "Registration no:\t%s\n", d.RegistrationNo)
		fmt.Fprintf(tw, "Experience:\t%d years\n", d.YearsOfExperience)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", u.CreatedAt.Format("2006-01-02 15:04"))
	tw.Flush()
}

func renderDoctors(w io.Writer, doctors []staff.User, selected uuid.UUID) {
	if len(doctors) == 0 {
		fmt.Fprintln(w, "No doctors registered")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, " \tID\tNAME\tSPECIALITY\tQUALIFICATION\tEXPERIENCE")
	for _, d := range doctors {
		mark := " "
		if d.ID == selected {
			mark = "*"
		}
		var speciality, qualification, experience string
		if d.DoctorDetails != nil {
			speciality = d.DoctorDetails.Speciality
			qualification = d.DoctorDetails.Qualification
			experience = strconv.Itoa(d.DoctorDetails.YearsOfExperience) + "y"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, shortID(d.ID), doctorName(d), speciality, qualification, experience)
	}
	tw.Flush()
}

// renderWeek prints every weekday Monday to Sunday with its slots, or a single
// line when the doctor has no availability at all.
func renderWeek(w io.Writer, doctor staff.User, view availability.WeeklyView) {
	if view.Empty() {
		fmt.Fprintf(w, "No availability set for %s\n", doctorName(doctor))
		return
	}
	fmt.Fprintf(w, "Weekly schedule for %s\n", doctorName(doctor))
	tw := newTable(w)
	for _, day := range view.Days {
		if len(day.Entries) == 0 {
			fmt.Fprintf(tw, "%s\t-\t\t\n", day.Day)
			continue
		}
		for i, e := range day.Entries {
			label := ""
			if i == 0 {
				label = day.Day.String()
			}
			fmt.Fprintf(tw, "%s\t%s\tavail %s\tslot %s\n",
				label, e.Slot.Range(), shortID(e.AvailabilityID), shortID(e.Slot.ID))
		}
	}
	tw.Flush()
}
