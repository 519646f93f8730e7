package enrollment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
)

// Enrollment ties a student to a subject for an academic period, optionally
// with an assigned teacher. Unique per (user, subject, period).
type Enrollment struct {
	ID         int       `json:"id" db:"id"`
	UserID     int       `json:"user_id" db:"user_id"`
	SubjectID  int       `json:"subject_id" db:"subject_id"`
	PeriodID   int       `json:"period_id" db:"period_id"`
	TeacherID  null.Int  `json:"teacher_id" db:"teacher_id"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"`
}

// NewEnrollment contains information needed to create a new Enrollment.
type NewEnrollment struct {
	UserID    int  `json:"user_id" validate:"required,min=1"`
	SubjectID int  `json:"subject_id" validate:"required,min=1"`
	PeriodID  int  `json:"period_id" validate:"required,min=1"`
	TeacherID *int `json:"teacher_id" validate:"omitempty,min=1"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	return validate.Struct(ne)
}

// UpdateEnrollment defines what information may be provided to modify an
// existing Enrollment.
type UpdateEnrollment struct {
	IsActive *bool `json:"is_active"`
}

func (ue *UpdateEnrollment) Validate(validate *validator.Validate) error {
	return validate.Struct(ue)
}

// Filter narrows enrollment queries; zero fields are ignored.
type Filter struct {
	UserID    int
	TeacherID int
}
