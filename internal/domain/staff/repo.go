package staff

import (
	"github.com/google/uuid"
)

// Repository holds staff records. Unknown ids are silent no-ops that report
// false; implementations never fail.
type Repository interface {
	Add(u User) User
	Get(id uuid.UUID) (User, bool)
	Update(id uuid.UUID, patch UserPatch) bool
	Delete(id uuid.UUID) bool
	List() []User
	Doctors() []User
}
