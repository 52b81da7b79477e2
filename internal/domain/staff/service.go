package staff

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ehr/staffconsole/internal/platform/validation"
)

// ErrUserNotFound is returned when an edit or lookup targets a missing user.
var ErrUserNotFound = errors.New("user not found")

// DefaultMaxPhotoBytes is the largest accepted profile photo.
const DefaultMaxPhotoBytes = 1 << 20

var photoTypes = []string{"image/jpeg", "image/png"}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPasswordCost sets the bcrypt cost used for new password hashes.
func WithPasswordCost(cost int) ServiceOption {
	return func(s *Service) { s.passwordCost = cost }
}

// WithMaxPhotoBytes overrides DefaultMaxPhotoBytes.
func WithMaxPhotoBytes(n int) ServiceOption {
	return func(s *Service) { s.maxPhotoBytes = n }
}

// Service runs the registration and edit forms against a Repository.
type Service struct {
	repo          Repository
	forms         *validation.Validator
	log           zerolog.Logger
	passwordCost  int
	maxPhotoBytes int
}

func NewService(repo Repository, forms *validation.Validator, log zerolog.Logger, opts ...ServiceOption) *Service {
	if err := RegisterRules(forms); err != nil {
		panic(fmt.Sprintf("staff: register form rules: %v", err))
	}
	s := &Service{
		repo:          repo,
		forms:         forms,
		log:           log.With().Str("component", "staff").Logger(),
		passwordCost:  bcrypt.DefaultCost,
		maxPhotoBytes: DefaultMaxPhotoBytes,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register validates the form and stores a new user. A doctor must come with
// details; any other role has its details dropped.
func (s *Service) Register(in RegistrationInput) (User, error) {
	in = normalize(in)
	errs := s.forms.Validate(in, inputMessages)
	photo, photoErrs := s.encodePhoto(in.Photo)
	if errs = append(errs, photoErrs...); len(errs) > 0 {
		return User{}, errs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.passwordCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		FirstName:    in.FirstName,
		Username:     in.Username,
		Gender:       Gender(in.Gender),
		Contact:      in.Contact,
		Email:        in.Email,
		PasswordHash: string(hash),
		ProfilePhoto: photo,
		Role:         Role(in.Role),
	}
	if in.DoctorDetails != nil {
		u.DoctorDetails = in.DoctorDetails.details()
	}
	u = s.repo.Add(u)

	s.log.Info().
		Str("user_id", u.ID.String()).
		Str("role", string(u.Role)).
		Msg("user registered")
	return u, nil
}

// Edit validates the form and merges it into the stored user. An empty
// password keeps the stored hash and a nil photo keeps the stored photo.
// Switching away from the doctor role clears the stored details.
func (s *Service) Edit(id uuid.UUID, in RegistrationInput) (User, error) {
	if _, ok := s.repo.Get(id); !ok {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}

	in = normalize(in)
	var errs validation.Errors
	if in.Password == "" {
		errs = s.forms.ValidateExcept(in, inputMessages, "Password")
	} else {
		errs = s.forms.Validate(in, inputMessages)
	}
	photo, photoErrs := s.encodePhoto(in.Photo)
	if errs = append(errs, photoErrs...); len(errs) > 0 {
		return User{}, errs
	}

	gender, role := Gender(in.Gender), Role(in.Role)
	patch := UserPatch{
		FirstName: &in.FirstName,
		Username:  &in.Username,
		Gender:    &gender,
		Contact:   &in.Contact,
		Email:     &in.Email,
		Role:      &role,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.passwordCost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		patch.PasswordHash = &h
	}
	if in.Photo != nil {
		patch.ProfilePhoto = &photo
	}
	if in.DoctorDetails != nil {
		patch.DoctorDetails = in.DoctorDetails.details()
	} else {
		patch.ClearDoctorDetails = true
	}

	if !s.repo.Update(id, patch) {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	u, _ := s.repo.Get(id)

	s.log.Info().
		Str("user_id", id.String()).
		Str("role", string(u.Role)).
		Bool("password_changed", patch.PasswordHash != nil).
		Msg("user updated")
	return u, nil
}

// Get returns a user by id.
func (s *Service) Get(id uuid.UUID) (User, bool) {
	return s.repo.Get(id)
}

// Delete removes a user. Availability records that point at the user are
// left in place.
func (s *Service) Delete(id uuid.UUID) error {
	if !s.repo.Delete(id) {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	s.log.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}

func (s *Service) List() []User {
	return s.repo.List()
}

func (s *Service) Doctors() []User {
	return s.repo.Doctors()
}

// VerifyPassword reports whether plain matches the user's stored hash.
func VerifyPassword(u User, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// normalize drops doctor details for roles that do not carry them.
func normalize(in RegistrationInput) RegistrationInput {
	if Role(in.Role) != RoleDoctor {
		in.DoctorDetails = nil
	}
	return in
}

// encodePhoto checks the upload's size and sniffed type and returns it as a
// data URL. A nil upload yields "".
func (s *Service) encodePhoto(p *PhotoUpload) (string, validation.Errors) {
	if p == nil {
		return "", nil
	}
	if len(p.Data) > s.maxPhotoBytes {
		return "", validation.Errors{{
			Field:   "profilePhoto",
			Message: "File size must be less than " + formatSize(s.maxPhotoBytes),
		}}
	}
	mtype := mimetype.Detect(p.Data)
	if !mimetype.EqualsAny(mtype.String(), photoTypes...) {
		return "", validation.Errors{{Field: "profilePhoto", Message: "Only JPG and PNG files are allowed"}}
	}
	return "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(p.Data), nil
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
