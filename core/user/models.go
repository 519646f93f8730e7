package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/unidigital/academia/core"
)

// Role names. Seeded at startup; kept in spanish for wire compatibility
// with existing clients.
const (
	RoleAdmin   = "Administrador"
	RoleTeacher = "Docente"
	RoleStudent = "Estudiante"
)

// DefaultRoles are created at startup when absent.
var DefaultRoles = []string{RoleAdmin, RoleTeacher, RoleStudent}

type Role struct {
	ID          int         `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description null.String `json:"description" db:"description"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// RoleSet is the explicit set of role names attached to a resolved identity.
// Membership tests are set-containment checks; no relationship traversal.
type RoleSet map[string]struct{}

func NewRoleSet(names ...string) RoleSet {
	set := make(RoleSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// HasAny reports whether the set intersects names. An empty names list
// matches everything.
func (s RoleSet) HasAny(names ...string) bool {
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if s.Has(name) {
			return true
		}
	}
	return false
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    null.Time `json:"updated_at" db:"updated_at"`

	// Roles holds the user's role names, attached when the user is loaded.
	Roles []string `json:"roles"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) RoleSet() RoleSet { return NewRoleSet(u.Roles...) }

func (u *User) HasRole(name string) bool { return u.RoleSet().Has(name) }

func (u *User) IsAdmin() bool   { return u.HasRole(RoleAdmin) }
func (u *User) IsTeacher() bool { return u.HasRole(RoleTeacher) }
func (u *User) IsStudent() bool { return u.HasRole(RoleStudent) }

// RequireRoles is the coarse-grained authorization gate: it fails unless the
// user's role set intersects the allowed names.
func RequireRoles(usr User, allowed ...string) error {
	if usr.RoleSet().HasAny(allowed...) {
		return nil
	}
	return core.Forbidden("permission denied")
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=2,max=200"`
	Password string `json:"password" validate:"required,max=128"`
	RoleIDs  []int  `json:"role_ids" validate:"omitempty,dive,min=1"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FullName = core.CleanString(nu.FullName)
	return validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=200"`
	Password *string `json:"password" validate:"omitempty,max=128"`
	IsActive *bool   `json:"is_active"`
	RoleIDs  []int   `json:"role_ids" validate:"omitempty,dive,min=1"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	if uu.FullName != nil {
		name := core.CleanString(*uu.FullName)
		uu.FullName = &name
	}
	return validate.Struct(uu)
}

// NewRole contains information needed to create a new Role.
type NewRole struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (nr *NewRole) Validate(validate *validator.Validate) error {
	nr.Name = core.CleanString(nr.Name)
	nr.Description = core.CleanString(nr.Description)
	return validate.Struct(nr)
}

// UpdateRole defines what information may be provided to modify an existing Role.
type UpdateRole struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=50"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

func (ur *UpdateRole) Validate(validate *validator.Validate) error {
	if ur.Name != nil {
		name := core.CleanString(*ur.Name)
		ur.Name = &name
	}
	return validate.Struct(ur)
}
