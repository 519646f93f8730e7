package grade

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
)

// Grade records a numeric score for one enrollment. Value is constrained
// to [0,100] with two decimal places at input validation.
type Grade struct {
	ID           int         `json:"id" db:"id"`
	EnrollmentID int         `json:"enrollment_id" db:"enrollment_id"`
	Value        float64     `json:"value" db:"value"`
	Note         null.String `json:"note" db:"note"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// GradeInfo is the listing projection: the grade joined with the student
// owning its enrollment. Value is nullable so listings can redact it.
type GradeInfo struct {
	ID           int          `json:"id" db:"id"`
	EnrollmentID int          `json:"enrollment_id" db:"enrollment_id"`
	Value        null.Float64 `json:"value" db:"value"`
	Note         null.String  `json:"note" db:"note"`
	StudentName  string       `json:"student_name" db:"student_name"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// NewGrade contains information needed to record a new Grade.
type NewGrade struct {
	EnrollmentID int      `json:"enrollment_id" validate:"required,min=1"`
	Value        *float64 `json:"value" validate:"required,gte=0,lte=100,decimal2"`
	Note         string   `json:"note" validate:"omitempty,max=255"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	return validate.Struct(ng)
}

// UpdateGrade defines what information may be provided to modify an
// existing Grade.
type UpdateGrade struct {
	Value *float64 `json:"value" validate:"omitempty,gte=0,lte=100,decimal2"`
	Note  *string  `json:"note" validate:"omitempty,max=255"`
}

func (ug *UpdateGrade) Validate(validate *validator.Validate) error {
	return validate.Struct(ug)
}
