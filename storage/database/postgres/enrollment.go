package postgresrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/enrollment"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil)

func NewEnrollmentRepository(db *sqlx.DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	query := `
		INSERT INTO enrollments (user_id, subject_id, period_id, teacher_id, is_active, enrolled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := repo.db.QueryRowContext(
		ctx, query, enr.UserID, enr.SubjectID, enr.PeriodID, enr.TeacherID, enr.IsActive, enr.EnrolledAt,
	).Scan(&enr.ID)
	if err != nil {
		return enrollment.Enrollment{}, translateErr(err, "enrollment not found", "enrollment already exists")
	}
	return enr, nil
}

func (repo *enrollmentRepository) QueryEnrollments(ctx context.Context, filter enrollment.Filter) ([]enrollment.Enrollment, error) {
	query := `SELECT * FROM enrollments`
	var args []interface{}
	switch {
	case filter.UserID != 0:
		query += ` WHERE user_id = $1`
		args = append(args, filter.UserID)
	case filter.TeacherID != 0:
		query += ` WHERE teacher_id = $1`
		args = append(args, filter.TeacherID)
	}
	query += ` ORDER BY id`

	var enrs []enrollment.Enrollment
	if err := repo.db.SelectContext(ctx, &enrs, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting enrollments")
	}
	return enrs, nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(ctx context.Context, id int) (enrollment.Enrollment, error) {
	var enr enrollment.Enrollment
	if err := repo.db.GetContext(ctx, &enr, `SELECT * FROM enrollments WHERE id = $1`, id); err != nil {
		return enrollment.Enrollment{}, translateErr(err, "enrollment not found", "")
	}
	return enr, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	query := `UPDATE enrollments SET teacher_id = $2, is_active = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, enr.ID, enr.TeacherID, enr.IsActive)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return enrollment.Enrollment{}, core.NotFound("enrollment not found")
	}
	return enr, nil
}
