package postgresrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/enrollment"
	"github.com/unidigital/academia/core/grade"
)

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *sqlx.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	query := `
		INSERT INTO grades (enrollment_id, value, note, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := repo.db.QueryRowContext(
		ctx, query, grd.EnrollmentID, grd.Value, grd.Note, grd.CreatedAt,
	).Scan(&grd.ID)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return grd, nil
}

func (repo *gradeRepository) QueryGrades(ctx context.Context, filter enrollment.Filter) ([]grade.GradeInfo, error) {
	query := `
		SELECT g.id, g.enrollment_id, g.value, g.note, g.created_at, u.full_name AS student_name
		FROM grades g
		JOIN enrollments e ON e.id = g.enrollment_id
		JOIN users u ON u.id = e.user_id`
	var args []interface{}
	switch {
	case filter.UserID != 0:
		query += ` WHERE e.user_id = $1`
		args = append(args, filter.UserID)
	case filter.TeacherID != 0:
		query += ` WHERE e.teacher_id = $1`
		args = append(args, filter.TeacherID)
	}
	query += ` ORDER BY g.id`

	var infos []grade.GradeInfo
	if err := repo.db.SelectContext(ctx, &infos, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting grades")
	}
	return infos, nil
}

func (repo *gradeRepository) GetGradeByID(ctx context.Context, id int) (grade.Grade, error) {
	var grd grade.Grade
	if err := repo.db.GetContext(ctx, &grd, `SELECT * FROM grades WHERE id = $1`, id); err != nil {
		return grade.Grade{}, translateErr(err, "grade not found", "")
	}
	return grd, nil
}

func (repo *gradeRepository) UpdateGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	query := `UPDATE grades SET value = $2, note = $3 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, grd.ID, grd.Value, grd.Note)
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "updating grade")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return grade.Grade{}, core.NotFound("grade not found")
	}
	return grd, nil
}

func (repo *gradeRepository) DeleteGrade(ctx context.Context, id int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id)
	return errors.Wrap(err, "deleting grade")
}
