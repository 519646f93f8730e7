package subject

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/unidigital/academia/core"
)

// Subject is a course offering, identified by a unique upper-cased code.
type Subject struct {
	ID        int       `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Credits   int       `json:"credits" db:"credits"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Code    string `json:"code" validate:"required,max=20"`
	Name    string `json:"name" validate:"required,max=100"`
	Credits int    `json:"credits" validate:"required,min=1,max=20"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Code = core.CleanString(ns.Code)
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

// UpdateSubject defines what information may be provided to modify an
// existing Subject.
type UpdateSubject struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Credits  *int    `json:"credits" validate:"omitempty,min=1,max=20"`
	IsActive *bool   `json:"is_active"`
}

func (us *UpdateSubject) Validate(validate *validator.Validate) error {
	if us.Name != nil {
		*us.Name = core.CleanString(*us.Name)
	}
	return validate.Struct(us)
}
