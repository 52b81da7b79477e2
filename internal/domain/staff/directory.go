package staff

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Directory is the in-memory Repository. Users keep insertion order.
type Directory struct {
	mu    sync.RWMutex
	users []User
	now   func() time.Time
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{now: time.Now}
}

// Add stores u under a fresh id and creation time and returns the stored copy.
// Any ID or CreatedAt on u is ignored. Usernames and emails are not checked
// for uniqueness.
func (d *Directory) Add(u User) User {
	u = u.clone()
	u.ID = uuid.New()
	u.CreatedAt = d.now()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, u)
	return u.clone()
}

func (d *Directory) Get(id uuid.UUID) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i := d.indexOf(id); i >= 0 {
		return d.users[i].clone(), true
	}
	return User{}, false
}

// Update merges patch into the user. Role and DoctorDetails are not checked
// against each other here.
func (d *Directory) Update(id uuid.UUID, patch UserPatch) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	u := &d.users[i]
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Gender != nil {
		u.Gender = *patch.Gender
	}
	if patch.Contact != nil {
		u.Contact = *patch.Contact
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.ProfilePhoto != nil {
		u.ProfilePhoto = *patch.ProfilePhoto
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	switch {
	case patch.ClearDoctorDetails:
		u.DoctorDetails = nil
	case patch.DoctorDetails != nil:
		details := *patch.DoctorDetails
		u.DoctorDetails = &details
	}
	return true
}

func (d *Directory) Delete(id uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	d.users = append(d.users[:i], d.users[i+1:]...)
	return true
}

func (d *Directory) List() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, u.clone())
	}
	return out
}

// Doctors returns the users with the doctor role in insertion order.
func (d *Directory) Doctors() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []User
	for _, u := range d.users {
		if u.IsDoctor() {
			out = append(out, u.clone())
		}
	}
	return out
}

// IsDoctor reports whether id belongs to a stored doctor.
func (d *Directory) IsDoctor(id uuid.UUID) bool {
	u, ok := d.Get(id)
	return ok && u.IsDoctor()
}

func (d *Directory) indexOf(id uuid.UUID) int {
	for i, u := range d.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
