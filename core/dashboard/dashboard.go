// Package dashboard aggregates role-scoped counters for the landing views.
package dashboard

import "context"

type (
	AdminStats struct {
		ActiveUsers      int `json:"active_users" db:"active_users"`
		ActiveStudents   int `json:"active_students" db:"active_students"`
		ActiveTeachers   int `json:"active_teachers" db:"active_teachers"`
		TotalSubjects    int `json:"total_subjects" db:"total_subjects"`
		InactiveSubjects int `json:"inactive_subjects" db:"inactive_subjects"`
		ActivePeriods    int `json:"active_periods" db:"active_periods"`
	}

	TeacherStats struct {
		Subjects    int `json:"subjects" db:"subjects"`
		Enrollments int `json:"enrollments" db:"enrollments"`
		Grades      int `json:"grades" db:"grades"`
	}

	StudentStats struct {
		Enrollments int `json:"enrollments" db:"enrollments"`
		Graded      int `json:"graded" db:"graded"`
		Subjects    int `json:"subjects" db:"subjects"`
	}

	Repository interface {
		AdminStats(ctx context.Context) (AdminStats, error)
		TeacherStats(ctx context.Context, teacherID int) (TeacherStats, error)
		StudentStats(ctx context.Context, studentID int) (StudentStats, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Admin(ctx context.Context) (AdminStats, error) {
	return svc.repo.AdminStats(ctx)
}

func (svc *Service) Teacher(ctx context.Context, teacherID int) (TeacherStats, error) {
	return svc.repo.TeacherStats(ctx, teacherID)
}

func (svc *Service) Student(ctx context.Context, studentID int) (StudentStats, error) {
	return svc.repo.StudentStats(ctx, studentID)
}
