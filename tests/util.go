package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/enrollment"
	"github.com/unidigital/academia/core/grade"
	"github.com/unidigital/academia/core/period"
	"github.com/unidigital/academia/core/subject"
	"github.com/unidigital/academia/core/user"
)

// NewConfig returns a config suitable for tests: in test mode, with a signing
// key and short-lived tokens.
func NewConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		Debug:     false,
		TestMode:  true,
		AppName:   "Universidad Digital",
		SecretKey: "test-secret-key",
		Server: core.ServerConfig{
			JWTAlgorithm:   "HS256",
			JWTExpiration:  10 * time.Minute,
			CookieName:     "access_token",
			CookieSameSite: "lax",
		},
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	roles []string,
	isActive bool,
) user.User {
	t.Helper()
	ctx := context.Background()

	usr := user.User{
		Email:     email,
		FullName:  name,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(ctx, usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	var roleIDs []int
	for _, rname := range roles {
		role, err := repo.GetRoleByName(ctx, rname)
		if err != nil {
			role, err = repo.CreateRole(ctx, user.Role{Name: rname, CreatedAt: time.Now().UTC()})
			if err != nil {
				t.Fatalf("CreateUser() failed: %v", err)
			}
		}
		roleIDs = append(roleIDs, role.ID)
	}
	if len(roleIDs) > 0 {
		if err = repo.SetUserRoles(ctx, usr.ID, roleIDs); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	if !isActive {
		if _, err = repo.UpdateUser(ctx, user.User{ID: usr.ID}, &isActive); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}

	usr, err = repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateSubject(t *testing.T, repo subject.Repository, code, name string, credits int) subject.Subject {
	t.Helper()
	sub, err := repo.CreateSubject(context.Background(), subject.Subject{
		Code:      code,
		Name:      name,
		Credits:   credits,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

func CreatePeriod(t *testing.T, repo period.Repository, code, name string, start, end time.Time, isActive bool) period.AcademicPeriod {
	t.Helper()
	per, err := repo.CreatePeriod(context.Background(), period.AcademicPeriod{
		Code:      code,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreatePeriod() failed: %v", err)
	}
	return per
}

func CreateEnrollment(
	t *testing.T,
	repo enrollment.Repository,
	userID, subjectID, periodID int,
	teacherID *int,
	isActive bool,
) enrollment.Enrollment {
	t.Helper()
	enr, err := repo.CreateEnrollment(context.Background(), enrollment.Enrollment{
		UserID:     userID,
		SubjectID:  subjectID,
		PeriodID:   periodID,
		TeacherID:  null.IntFromPtr(teacherID),
		IsActive:   isActive,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}

func CreateGrade(t *testing.T, repo grade.Repository, enrollmentID int, value float64, note string) grade.Grade {
	t.Helper()
	grd := grade.Grade{
		EnrollmentID: enrollmentID,
		Value:        value,
		CreatedAt:    time.Now().UTC(),
	}
	if note != "" {
		grd.Note.SetValid(note)
	}
	grd, err := repo.CreateGrade(context.Background(), grd)
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return grd
}

// IntPtr is a convenience for optional id fields in fixtures.
func IntPtr(i int) *int { return &i }
