package auth_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/auth"
	"github.com/unidigital/academia/core/user"
	inmemdb "github.com/unidigital/academia/storage/database/inmem"
	testutil "github.com/unidigital/academia/tests"
)

func newService(t *testing.T) (*auth.Service, user.Repository) {
	t.Helper()
	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	usrSvc := user.NewService(testutil.NewConfig(), usrRepo, nil)
	return auth.NewService(testutil.NewConfig(), inmemdb.NewAuthRepository(db), usrSvc), usrRepo
}

func TestService_Authenticate(t *testing.T) {
	svc, usrRepo := newService(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "s3cretPass!", []string{user.RoleStudent}, true)
	inactive := testutil.CreateUser(t, usrRepo, "Gone", "gone@test.edu", "s3cretPass!", []string{user.RoleStudent}, false)

	// unknown emails and bad passwords are indistinguishable
	_, err := svc.Authenticate(ctx, "nobody@test.edu", "s3cretPass!")
	if !core.IsKind(err, core.KindUnauthorized) {
		t.Errorf("Authenticate() error = %v; want Unauthorized", err)
	}
	_, err = svc.Authenticate(ctx, usr.Email, "wrong password")
	if !core.IsKind(err, core.KindUnauthorized) {
		t.Errorf("Authenticate() error = %v; want Unauthorized", err)
	}
	_, err = svc.Authenticate(ctx, inactive.Email, "s3cretPass!")
	if !core.IsKind(err, core.KindForbidden) {
		t.Errorf("Authenticate() error = %v; want Forbidden", err)
	}

	got, err := svc.Authenticate(ctx, "A@Test.edu", "s3cretPass!")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if got.ID != usr.ID {
		t.Errorf("user ID = %d; want %d", got.ID, usr.ID)
	}
}

func TestService_IssueDecodeToken(t *testing.T) {
	svc, usrRepo := newService(t)

	usr := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "s3cretPass!", []string{user.RoleStudent}, true)

	token, jti, expiresAt, err := svc.IssueToken(usr)
	if err != nil {
		t.Fatalf("IssueToken() failed: %v", err)
	}
	if jti == "" {
		t.Error("IssueToken() returned an empty jti")
	}
	if remaining := time.Until(expiresAt); remaining <= 0 || remaining > 10*time.Minute {
		t.Errorf("expiry %v outside the configured window", expiresAt)
	}

	claims, err := svc.DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken() failed: %v", err)
	}
	if claims.Subject != strconv.Itoa(usr.ID) {
		t.Errorf("subject = %q; want %q", claims.Subject, strconv.Itoa(usr.ID))
	}
	if claims.Id != jti {
		t.Errorf("jti = %q; want %q", claims.Id, jti)
	}

	// a tampered token must not decode
	if _, err = svc.DecodeToken(token + "x"); err == nil {
		t.Error("DecodeToken() accepted a tampered token")
	}
}

func TestService_ExtractTokenData(t *testing.T) {
	svc, usrRepo := newService(t)

	usr := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "s3cretPass!", []string{user.RoleStudent}, true)
	token, jti, expiresAt, err := svc.IssueToken(usr)
	if err != nil {
		t.Fatalf("IssueToken() failed: %v", err)
	}

	gotJTI, gotExp, err := svc.ExtractTokenData(token)
	if err != nil {
		t.Fatalf("ExtractTokenData() failed: %v", err)
	}
	if gotJTI != jti {
		t.Errorf("jti = %q; want %q", gotJTI, jti)
	}
	if gotExp.Unix() != expiresAt.Unix() {
		t.Errorf("expiry = %v; want %v", gotExp, expiresAt)
	}

	if _, _, err = svc.ExtractTokenData("not.a.token"); !core.IsKind(err, core.KindUnauthorized) {
		t.Errorf("ExtractTokenData() error = %v; want Unauthorized", err)
	}
}

func TestService_ResolveActor(t *testing.T) {
	svc, usrRepo := newService(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "s3cretPass!", []string{user.RoleStudent}, true)
	token, jti, expiresAt, err := svc.IssueToken(usr)
	if err != nil {
		t.Fatalf("IssueToken() failed: %v", err)
	}

	got, err := svc.ResolveActor(ctx, token)
	if err != nil {
		t.Fatalf("ResolveActor() failed: %v", err)
	}
	if got.ID != usr.ID || !got.IsStudent() {
		t.Errorf("actor = %+v; want user %d with roles", got, usr.ID)
	}

	if _, err = svc.ResolveActor(ctx, "garbage"); !core.IsKind(err, core.KindUnauthorized) {
		t.Errorf("ResolveActor() error = %v; want Unauthorized", err)
	}

	// a still-valid token dies the moment its jti is revoked
	if err = svc.Revoke(ctx, jti, expiresAt); err != nil {
		t.Fatalf("Revoke() failed: %v", err)
	}
	_, err = svc.ResolveActor(ctx, token)
	if !core.IsKind(err, core.KindUnauthorized) || !strings.Contains(err.Error(), "token revoked") {
		t.Errorf("ResolveActor() error = %v; want Unauthorized token revoked", err)
	}
}

func TestService_ResolveActor_inactiveUser(t *testing.T) {
	svc, usrRepo := newService(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "s3cretPass!", []string{user.RoleStudent}, true)
	token, _, _, err := svc.IssueToken(usr)
	if err != nil {
		t.Fatalf("IssueToken() failed: %v", err)
	}

	isActive := false
	if _, err = usrRepo.UpdateUser(ctx, user.User{ID: usr.ID}, &isActive); err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}

	if _, err = svc.ResolveActor(ctx, token); !core.IsKind(err, core.KindForbidden) {
		t.Errorf("ResolveActor() error = %v; want Forbidden", err)
	}
}

func TestService_Revoke_duplicate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	expiresAt := time.Now().Add(time.Hour)
	if err := svc.Revoke(ctx, "some-jti", expiresAt); err != nil {
		t.Fatalf("Revoke() failed: %v", err)
	}
	// revoking twice is absorbed
	if err := svc.Revoke(ctx, "some-jti", expiresAt); err != nil {
		t.Errorf("Revoke() failed on duplicate: %v", err)
	}

	revoked, err := svc.IsRevoked(ctx, "some-jti")
	if err != nil {
		t.Fatalf("IsRevoked() failed: %v", err)
	}
	if !revoked {
		t.Error("IsRevoked() = false; want true")
	}
}

func TestService_PurgeExpired(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	if err := svc.Revoke(ctx, "expired-jti", now.Add(-time.Hour)); err != nil {
		t.Fatalf("Revoke() failed: %v", err)
	}
	if err := svc.Revoke(ctx, "live-jti", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke() failed: %v", err)
	}

	n, err := svc.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d records; want 1", n)
	}

	if revoked, _ := svc.IsRevoked(ctx, "live-jti"); !revoked {
		t.Error("live revocation was purged")
	}
	if revoked, _ := svc.IsRevoked(ctx, "expired-jti"); revoked {
		t.Error("expired revocation survived the purge")
	}
}
