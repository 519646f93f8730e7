package period

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/unidigital/academia/core"
)

// DateLayout is the wire format for period boundary dates.
const DateLayout = "2006-01-02"

// AcademicPeriod is a term window (e.g. "2025-1"), identified by a unique
// upper-cased code. EndDate is never before StartDate.
type AcademicPeriod struct {
	ID        int       `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewPeriod contains information needed to create a new AcademicPeriod.
// Dates come in as YYYY-MM-DD strings and are parsed by the service.
type NewPeriod struct {
	Code      string `json:"code" validate:"required,max=20"`
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (np *NewPeriod) Validate(validate *validator.Validate) error {
	np.Code = core.CleanString(np.Code)
	np.Name = core.CleanString(np.Name)
	return validate.Struct(np)
}

// UpdatePeriod defines what information may be provided to modify an
// existing AcademicPeriod.
type UpdatePeriod struct {
	Name      *string `json:"name" validate:"omitempty,max=100"`
	StartDate *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive  *bool   `json:"is_active"`
}

func (up *UpdatePeriod) Validate(validate *validator.Validate) error {
	if up.Name != nil {
		*up.Name = core.CleanString(*up.Name)
	}
	return validate.Struct(up)
}
