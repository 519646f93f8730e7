package enrollment

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/user"
)

type (
	Repository interface {
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		QueryEnrollments(ctx context.Context, filter Filter) ([]Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id int) (Enrollment, error)
		UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// VisibilityFilter computes the narrowing predicate for the acting user.
// The student filter is evaluated before the teacher filter: a dual-role
// Docente+Estudiante user is scoped as a student. Admins (and roleless
// users) fall through unfiltered.
func VisibilityFilter(actor user.User) Filter {
	switch {
	case actor.IsStudent():
		return Filter{UserID: actor.ID}
	case actor.IsTeacher():
		return Filter{TeacherID: actor.ID}
	}
	return Filter{}
}

// checkOwnership re-checks single-record access for students: they may only
// view or mutate their own enrollments. A mismatch is signalled as Conflict
// for compatibility with existing clients.
func checkOwnership(actor user.User, enr Enrollment) error {
	if actor.IsStudent() && enr.UserID != actor.ID {
		return core.Conflict("access not allowed")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ne NewEnrollment, actor user.User) (Enrollment, error) {
	enr := Enrollment{
		UserID:     ne.UserID,
		SubjectID:  ne.SubjectID,
		PeriodID:   ne.PeriodID,
		TeacherID:  null.IntFromPtr(ne.TeacherID),
		IsActive:   true,
		EnrolledAt: time.Now().UTC(),
	}
	// Note: enrollment into an inactive period is accepted; changing this
	// is a product decision, not a bug fix.
	return svc.repo.CreateEnrollment(ctx, enr)
}

func (svc *Service) Query(ctx context.Context, actor user.User) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, VisibilityFilter(actor))
}

func (svc *Service) Get(ctx context.Context, id int, actor user.User) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	if err = checkOwnership(actor, enr); err != nil {
		return Enrollment{}, err
	}
	return enr, nil
}

func (svc *Service) Update(ctx context.Context, id int, ue UpdateEnrollment, actor user.User) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	if err = checkOwnership(actor, enr); err != nil {
		return Enrollment{}, err
	}
	if ue.IsActive != nil {
		enr.IsActive = *ue.IsActive
	}
	return svc.repo.UpdateEnrollment(ctx, enr)
}

// Deactivate soft-deletes an enrollment.
func (svc *Service) Deactivate(ctx context.Context, id int, actor user.User) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	if err = checkOwnership(actor, enr); err != nil {
		return Enrollment{}, err
	}
	enr.IsActive = false
	return svc.repo.UpdateEnrollment(ctx, enr)
}
