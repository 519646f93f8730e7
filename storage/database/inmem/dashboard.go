package inmemdb

import (
	"context"

	"github.com/unidigital/academia/core/dashboard"
	"github.com/unidigital/academia/core/user"
)

type dashboardRepository struct {
	db *DB
}

var _ dashboard.Repository = (*dashboardRepository)(nil)

func NewDashboardRepository(db *DB) *dashboardRepository {
	return &dashboardRepository{db: db}
}

func (repo *dashboardRepository) hasRole(userID int, name string) bool {
	for roleID := range repo.db.userRoles[userID] {
		if role, ok := repo.db.roles[roleID]; ok && role.Name == name {
			return true
		}
	}
	return false
}

func (repo *dashboardRepository) AdminStats(_ context.Context) (dashboard.AdminStats, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var stats dashboard.AdminStats
	for id, usr := range repo.db.users {
		if !usr.IsActive {
			continue
		}
		stats.ActiveUsers++
		if repo.hasRole(id, user.RoleStudent) {
			stats.ActiveStudents++
		}
		if repo.hasRole(id, user.RoleTeacher) {
			stats.ActiveTeachers++
		}
	}
	for _, sub := range repo.db.subjects {
		stats.TotalSubjects++
		if !sub.IsActive {
			stats.InactiveSubjects++
		}
	}
	for _, per := range repo.db.periods {
		if per.IsActive {
			stats.ActivePeriods++
		}
	}
	return stats, nil
}

func (repo *dashboardRepository) TeacherStats(_ context.Context, teacherID int) (dashboard.TeacherStats, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var stats dashboard.TeacherStats
	subjects := make(map[int]struct{})
	assigned := make(map[int]struct{})
	for id, enr := range repo.db.enrollments {
		if enr.TeacherID.Valid && enr.TeacherID.Int == teacherID {
			stats.Enrollments++
			subjects[enr.SubjectID] = struct{}{}
			assigned[id] = struct{}{}
		}
	}
	stats.Subjects = len(subjects)
	for _, grd := range repo.db.grades {
		if _, ok := assigned[grd.EnrollmentID]; ok {
			stats.Grades++
		}
	}
	return stats, nil
}

func (repo *dashboardRepository) StudentStats(_ context.Context, studentID int) (dashboard.StudentStats, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var stats dashboard.StudentStats
	subjects := make(map[int]struct{})
	owned := make(map[int]struct{})
	for id, enr := range repo.db.enrollments {
		if enr.UserID == studentID {
			stats.Enrollments++
			subjects[enr.SubjectID] = struct{}{}
			owned[id] = struct{}{}
		}
	}
	stats.Subjects = len(subjects)
	for _, grd := range repo.db.grades {
		if _, ok := owned[grd.EnrollmentID]; ok {
			stats.Graded++
		}
	}
	return stats, nil
}
