package staff

import (
	"time"

	"github.com/google/uuid"
)

// Role is a staff member's job.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleFrontDesk Role = "Front-desk"
	RoleDoctor    Role = "Doctor"
	RoleNurse     Role = "Nurse"
	RoleLabTech   Role = "Lab tech"
	RoleScanTech  Role = "Scan tech"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleFrontDesk, RoleDoctor, RoleNurse, RoleLabTech, RoleScanTech}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Gender is the self-reported gender on the registration form.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// DoctorDetails holds the attributes that only doctors carry.
type DoctorDetails struct {
	Speciality        string `json:"speciality"`
	Qualification     string `json:"qualification"`
	RegistrationNo    string `json:"registrationNo"`
	YearsOfExperience int    `json:"yearsOfExperience"`
}

// User is a staff record. DoctorDetails is set exactly when Role is RoleDoctor;
// the registration and edit forms keep that true, the directory does not check it.
type User struct {
	ID            uuid.UUID      `json:"id"`
	FirstName     string         `json:"firstName"`
	Username      string         `json:"username"`
	Gender        Gender         `json:"gender"`
	Contact       string         `json:"contact"`
	Email         string         `json:"email"`
	PasswordHash  string         `json:"-"`
	ProfilePhoto  string         `json:"profilePhoto,omitempty"`
	Role          Role           `json:"userRole"`
	DoctorDetails *DoctorDetails `json:"doctorDetails,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// IsDoctor reports whether the user has the doctor role.
func (u User) IsDoctor() bool {
	return u.Role == RoleDoctor
}

func (u User) clone() User {
	if u.DoctorDetails != nil {
		d := *u.DoctorDetails
		u.DoctorDetails = &d
	}
	return u
}

// UserPatch holds the fields to merge into a stored user. Nil fields are left
// unchanged; ClearDoctorDetails removes the details.
type UserPatch struct {
	FirstName          *string
	Username           *string
	Gender             *Gender
	Contact            *string
	Email              *string
	PasswordHash       *string
	ProfilePhoto       *string
	Role               *Role
	DoctorDetails      *DoctorDetails
	ClearDoctorDetails bool
}
