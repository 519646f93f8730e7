package grade

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/enrollment"
	"github.com/unidigital/academia/core/user"
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, grd Grade) (Grade, error)
		QueryGrades(ctx context.Context, filter enrollment.Filter) ([]GradeInfo, error)
		GetGradeByID(ctx context.Context, id int) (Grade, error)
		UpdateGrade(ctx context.Context, grd Grade) (Grade, error)
		DeleteGrade(ctx context.Context, id int) error
	}

	// Service handles grades; access is keyed through the parent enrollment's
	// owner (student) and assigned teacher.
	Service struct {
		repo    Repository
		enrRepo enrollment.Repository
	}
)

func NewService(repo Repository, enrRepo enrollment.Repository) *Service {
	return &Service{repo: repo, enrRepo: enrRepo}
}

// checkOwnership applies the same tier precedence as enrollments, but against
// the grade's parent enrollment.
func checkOwnership(actor user.User, enr enrollment.Enrollment) error {
	switch {
	case actor.IsStudent():
		if enr.UserID != actor.ID {
			return core.Conflict("access not allowed")
		}
	case actor.IsTeacher():
		if !enr.TeacherID.Valid || enr.TeacherID.Int != actor.ID {
			return core.Conflict("access not allowed")
		}
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ng NewGrade, actor user.User) (Grade, error) {
	enr, err := svc.enrRepo.GetEnrollmentByID(ctx, ng.EnrollmentID)
	if err != nil {
		return Grade{}, err // NotFound propagates as-is
	}
	if !enr.IsActive {
		return Grade{}, core.Conflict("enrollment is not active")
	}
	if actor.IsTeacher() {
		if !enr.TeacherID.Valid || enr.TeacherID.Int != actor.ID {
			return Grade{}, core.Conflict("enrollment is not assigned to you")
		}
	}

	grd := Grade{
		EnrollmentID: ng.EnrollmentID,
		Value:        *ng.Value,
		CreatedAt:    time.Now().UTC(),
	}
	if ng.Note != "" {
		grd.Note.SetValid(ng.Note)
	}
	return svc.repo.CreateGrade(ctx, grd)
}

// Query lists grades visible to the actor. Administrators always get the
// value redacted on listings, even when another role narrows the filter;
// the underlying score stays hidden.
func (svc *Service) Query(ctx context.Context, actor user.User) ([]GradeInfo, error) {
	infos, err := svc.repo.QueryGrades(ctx, enrollment.VisibilityFilter(actor))
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		for i := range infos {
			infos[i].Value = null.Float64{}
		}
	}
	return infos, nil
}

func (svc *Service) Get(ctx context.Context, id int, actor user.User) (Grade, error) {
	grd, err := svc.repo.GetGradeByID(ctx, id)
	if err != nil {
		return Grade{}, err
	}
	enr, err := svc.enrRepo.GetEnrollmentByID(ctx, grd.EnrollmentID)
	if err != nil {
		return Grade{}, err
	}
	if err = checkOwnership(actor, enr); err != nil {
		return Grade{}, err
	}
	return grd, nil
}

func (svc *Service) Update(ctx context.Context, id int, ug UpdateGrade, actor user.User) (Grade, error) {
	grd, err := svc.Get(ctx, id, actor)
	if err != nil {
		return Grade{}, err
	}
	if ug.Value != nil {
		grd.Value = *ug.Value
	}
	if ug.Note != nil {
		grd.Note.SetValid(*ug.Note)
	}
	return svc.repo.UpdateGrade(ctx, grd)
}

func (svc *Service) Delete(ctx context.Context, id int, actor user.User) error {
	if _, err := svc.Get(ctx, id, actor); err != nil {
		return err
	}
	return svc.repo.DeleteGrade(ctx, id)
}
