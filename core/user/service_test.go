package user_test

import (
	"context"
	"testing"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/user"
	inmemdb "github.com/unidigital/academia/storage/database/inmem"
	testutil "github.com/unidigital/academia/tests"
)

func newService(t *testing.T) (*user.Service, user.Repository) {
	t.Helper()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	svc := user.NewService(testutil.NewConfig(), repo, nil)
	if err := svc.EnsureDefaultRoles(context.Background()); err != nil {
		t.Fatalf("EnsureDefaultRoles() failed: %v", err)
	}
	return svc, repo
}

func roleID(t *testing.T, repo user.Repository, name string) int {
	t.Helper()
	role, err := repo.GetRoleByName(context.Background(), name)
	if err != nil {
		t.Fatalf("GetRoleByName(%s) failed: %v", name, err)
	}
	return role.ID
}

func TestService_Create_defaultRole(t *testing.T) {
	svc, _ := newService(t)

	usr, err := svc.Create(context.Background(), user.NewUser{
		Email: "a@test.edu", FullName: "Student A", Password: "s3cretPass!",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if !usr.IsStudent() {
		t.Errorf("roles = %v; want the student role by default", usr.Roles)
	}
	if !usr.IsActive {
		t.Error("new users start active")
	}
	if err = usr.CheckPassword("s3cretPass!"); err != nil {
		t.Error("password was not stored correctly")
	}
}

func TestService_Create_passwordLength(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	// plain accounts need 8 characters
	_, err := svc.Create(ctx, user.NewUser{Email: "a@test.edu", FullName: "Student A", Password: "short:7"})
	if !core.IsKind(err, core.KindConflict) {
		t.Errorf("Create() error = %v; want Conflict", err)
	}

	// staff accounts need 12
	adminID := roleID(t, repo, user.RoleAdmin)
	_, err = svc.Create(ctx, user.NewUser{
		Email: "admin@test.edu", FullName: "Admin", Password: "only10char", RoleIDs: []int{adminID},
	})
	if !core.IsKind(err, core.KindConflict) {
		t.Errorf("Create() error = %v; want Conflict", err)
	}
	if _, err = svc.Create(ctx, user.NewUser{
		Email: "admin@test.edu", FullName: "Admin", Password: "twelve chars!x", RoleIDs: []int{adminID},
	}); err != nil {
		t.Errorf("Create() failed: %v", err)
	}
}

func TestService_Create_unknownRole(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), user.NewUser{
		Email: "a@test.edu", FullName: "Student A", Password: "s3cretPass!", RoleIDs: []int{999},
	})
	if !core.IsKind(err, core.KindNotFound) {
		t.Errorf("Create() error = %v; want NotFound", err)
	}
}

func TestService_Create_duplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	nu := user.NewUser{Email: "a@test.edu", FullName: "Student A", Password: "s3cretPass!"}
	if _, err := svc.Create(ctx, nu); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := svc.Create(ctx, nu); !core.IsKind(err, core.KindConflict) {
		t.Errorf("Create() error = %v; want Conflict", err)
	}
}

func TestService_Update_passwordAgainstNewRoles(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{Email: "a@test.edu", FullName: "Student A", Password: "s3cretPass!"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// promoting to staff in the same update raises the length requirement
	pwd := "only10char"
	teacherID := roleID(t, repo, user.RoleTeacher)
	_, err = svc.Update(ctx, usr.ID, user.UpdateUser{Password: &pwd, RoleIDs: []int{teacherID}})
	if !core.IsKind(err, core.KindConflict) {
		t.Errorf("Update() error = %v; want Conflict", err)
	}
}

func TestService_Deactivate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{Email: "a@test.edu", FullName: "Student A", Password: "s3cretPass!"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	usr, err = svc.Deactivate(ctx, usr.ID)
	if err != nil {
		t.Fatalf("Deactivate() failed: %v", err)
	}
	if usr.IsActive {
		t.Error("user still active after Deactivate()")
	}
}

func TestService_AssignRemoveRole(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{Email: "a@test.edu", FullName: "Student A", Password: "s3cretPass!"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	teacherID := roleID(t, repo, user.RoleTeacher)
	usr, err = svc.AssignRole(ctx, usr.ID, teacherID)
	if err != nil {
		t.Fatalf("AssignRole() failed: %v", err)
	}
	if !usr.IsTeacher() || !usr.IsStudent() {
		t.Errorf("roles = %v; want both roles", usr.Roles)
	}

	// assigning again is idempotent
	if _, err = svc.AssignRole(ctx, usr.ID, teacherID); err != nil {
		t.Errorf("AssignRole() failed on duplicate: %v", err)
	}

	usr, err = svc.RemoveRole(ctx, usr.ID, teacherID)
	if err != nil {
		t.Fatalf("RemoveRole() failed: %v", err)
	}
	if usr.IsTeacher() {
		t.Errorf("roles = %v; teacher role should be gone", usr.Roles)
	}

	if _, err = svc.AssignRole(ctx, usr.ID, 999); !core.IsKind(err, core.KindNotFound) {
		t.Errorf("AssignRole() error = %v; want NotFound", err)
	}
}

func TestService_EnsureDefaultRoles_idempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// second run must not duplicate or fail
	if err := svc.EnsureDefaultRoles(ctx); err != nil {
		t.Fatalf("EnsureDefaultRoles() failed: %v", err)
	}
	roles, err := svc.QueryAllRoles(ctx)
	if err != nil {
		t.Fatalf("QueryAllRoles() failed: %v", err)
	}
	if len(roles) != len(user.DefaultRoles) {
		t.Errorf("got %d roles; want %d", len(roles), len(user.DefaultRoles))
	}
}
