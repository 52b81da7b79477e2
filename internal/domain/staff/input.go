package staff

import (
	"github.com/go-playground/validator/v10"

	"github.com/ehr/staffconsole/internal/platform/validation"
)

// RegistrationInput is the raw registration/edit form. DoctorDetails is only
// read when Role is "Doctor".
type RegistrationInput struct {
	FirstName     string              `json:"firstName" validate:"min=1,max=50"`
	Username      string              `json:"username" validate:"min=3,max=30"`
	Gender        string              `json:"gender" validate:"required,gender"`
	Contact       string              `json:"contact" validate:"phone"`
	Email         string              `json:"email" validate:"email,max=255"`
	Password      string              `json:"password" validate:"min=8,password"`
	Role          string              `json:"userRole" validate:"required,userrole"`
	DoctorDetails *DoctorDetailsInput `json:"doctorDetails"`
	Photo         *PhotoUpload        `json:"profilePhoto" validate:"-"`
}

// DoctorDetailsInput is the doctor-only part of the form.
type DoctorDetailsInput struct {
	Speciality        string `json:"speciality" validate:"min=1,max=100"`
	Qualification     string `json:"qualification" validate:"min=1,max=200"`
	RegistrationNo    string `json:"registrationNo" validate:"min=1,max=50"`
	YearsOfExperience int    `json:"yearsOfExperience" validate:"min=0,max=100"`
}

// PhotoUpload is a profile picture as read from disk.
type PhotoUpload struct {
	Name string
	Data []byte
}

var inputMessages = validation.Messages{
	"firstName.min":                       "First name is required",
	"firstName.max":                       "First name must be less than 50 characters",
	"username.min":                        "Username must be at least 3 characters",
	"username.max":                        "Username must be less than 30 characters",
	"gender.required":                     "Gender is required",
	"gender.gender":                       "Gender must be Male, Female or Other",
	"contact.phone":                       "Invalid phone number format",
	"email.email":                         "Invalid email address",
	"email.max":                           "Email must be less than 255 characters",
	"password.min":                        "Password must be at least 8 characters",
	"password.password":                   "Password must contain uppercase, lowercase, number and special character",
	"userRole.required":                   "User role is required",
	"userRole.userrole":                   "User role is invalid",
	"doctorDetails.doctor_required":       "Doctor details are required",
	"doctorDetails.speciality.min":        "Speciality is required",
	"doctorDetails.speciality.max":        "Speciality must be less than 100 characters",
	"doctorDetails.qualification.min":     "Qualification is required",
	"doctorDetails.qualification.max":     "Qualification must be less than 200 characters",
	"doctorDetails.registrationNo.min":    "Registration number is required",
	"doctorDetails.registrationNo.max":    "Registration number must be less than 50 characters",
	"doctorDetails.yearsOfExperience.min": "Years of experience must be 0 or more",
	"doctorDetails.yearsOfExperience.max": "Years of experience must be less than 100",
}

// RegisterRules adds the staff form rules to v.
func RegisterRules(v *validation.Validator) error {
	if err := v.RegisterRule("gender", func(s string) bool {
		return Gender(s).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterRule("userrole", func(s string) bool {
		return Role(s).Valid()
	}); err != nil {
		return err
	}
	v.RegisterStructRule(doctorDetailsRequired, RegistrationInput{})
	return nil
}

func doctorDetailsRequired(sl validator.StructLevel) {
	in := sl.Current().Interface().(RegistrationInput)
	if Role(in.Role) == RoleDoctor && in.DoctorDetails == nil {
		sl.ReportError(in.DoctorDetails, "doctorDetails", "DoctorDetails", "doctor_required", "")
	}
}

func (in DoctorDetailsInput) details() *DoctorDetails {
	return &DoctorDetails{
		Speciality:        in.Speciality,
		Qualification:     in.Qualification,
		RegistrationNo:    in.RegistrationNo,
		YearsOfExperience: in.YearsOfExperience,
	}
}

// InputFromUser pre-fills the edit form from a stored user. The password is
// left empty, which keeps the stored hash on submit.
func InputFromUser(u User) RegistrationInput {
	in := RegistrationInput{
		FirstName: u.FirstName,
		Username:  u.Username,
		Gender:    string(u.Gender),
		Contact:   u.Contact,
		Email:     u.Email,
		Role:      string(u.Role),
	}
	if u.DoctorDetails != nil {
		in.DoctorDetails = &DoctorDetailsInput{
			Speciality:        u.DoctorDetails.Speciality,
			Qualification:     u.DoctorDetails.Qualification,
			RegistrationNo:    u.DoctorDetails.RegistrationNo,
			YearsOfExperience: u.DoctorDetails.YearsOfExperience,
		}
	}
	return in
}
