package postgresrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/unidigital/academia/core/dashboard"
	"github.com/unidigital/academia/core/user"
)

type dashboardRepository struct {
	db *sqlx.DB
}

var _ dashboard.Repository = (*dashboardRepository)(nil)

func NewDashboardRepository(db *sqlx.DB) *dashboardRepository {
	return &dashboardRepository{db: db}
}

func (repo *dashboardRepository) AdminStats(ctx context.Context) (dashboard.AdminStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_active) AS active_users,
			(SELECT COUNT(DISTINCT ur.user_id) FROM user_roles ur
				JOIN roles r ON r.id = ur.role_id
				JOIN users u ON u.id = ur.user_id
				WHERE r.name = $1 AND u.is_active) AS active_students,
			(SELECT COUNT(DISTINCT ur.user_id) FROM user_roles ur
				JOIN roles r ON r.id = ur.role_id
				JOIN users u ON u.id = ur.user_id
				WHERE r.name = $2 AND u.is_active) AS active_teachers,
			(SELECT COUNT(*) FROM subjects) AS total_subjects,
			(SELECT COUNT(*) FROM subjects WHERE NOT is_active) AS inactive_subjects,
			(SELECT COUNT(*) FROM academic_periods WHERE is_active) AS active_periods`
	var stats dashboard.AdminStats
	if err := repo.db.GetContext(ctx, &stats, query, user.RoleStudent, user.RoleTeacher); err != nil {
		return dashboard.AdminStats{}, errors.Wrap(err, "selecting admin stats")
	}
	return stats, nil
}

func (repo *dashboardRepository) TeacherStats(ctx context.Context, teacherID int) (dashboard.TeacherStats, error) {
	query := `
		SELECT
			(SELECT COUNT(DISTINCT subject_id) FROM enrollments WHERE teacher_id = $1) AS subjects,
			(SELECT COUNT(*) FROM enrollments WHERE teacher_id = $1) AS enrollments,
			(SELECT COUNT(*) FROM grades g
				JOIN enrollments e ON e.id = g.enrollment_id
				WHERE e.teacher_id = $1) AS grades`
	var stats dashboard.TeacherStats
	if err := repo.db.GetContext(ctx, &stats, query, teacherID); err != nil {
		return dashboard.TeacherStats{}, errors.Wrap(err, "selecting teacher stats")
	}
	return stats, nil
}

func (repo *dashboardRepository) StudentStats(ctx context.Context, studentID int) (dashboard.StudentStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM enrollments WHERE user_id = $1) AS enrollments,
			(SELECT COUNT(*) FROM grades g
				JOIN enrollments e ON e.id = g.enrollment_id
				WHERE e.user_id = $1) AS graded,
			(SELECT COUNT(DISTINCT subject_id) FROM enrollments WHERE user_id = $1) AS subjects`
	var stats dashboard.StudentStats
	if err := repo.db.GetContext(ctx, &stats, query, studentID); err != nil {
		return dashboard.StudentStats{}, errors.Wrap(err, "selecting student stats")
	}
	return stats, nil
}
