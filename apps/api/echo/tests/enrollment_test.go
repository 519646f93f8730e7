package tests

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/unidigital/academia/core/user"
	testutil "github.com/unidigital/academia/tests"
)

func Test_enrollmentApi_query(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.edu", "", []string{user.RoleAdmin}, true)
	studentA := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "", []string{user.RoleStudent}, true)
	teacherB := testutil.CreateUser(t, usrRepo, "Teacher B", "b@test.edu", "", []string{user.RoleTeacher}, true)
	// dual-role: teaches and studies at the same time
	dualD := testutil.CreateUser(t, usrRepo, "Dual D", "d@test.edu", "", []string{user.RoleTeacher, user.RoleStudent}, true)

	sub := testutil.CreateSubject(t, subRepo, "MATH101", "Mathematics", 5)
	sub2 := testutil.CreateSubject(t, subRepo, "PHY101", "Physics", 4)
	per := testutil.CreatePeriod(t, perRepo, "2025-1", "First Term 2025",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true)

	enr1 := testutil.CreateEnrollment(t, enrRepo, studentA.ID, sub.ID, per.ID, testutil.IntPtr(dualD.ID), true)
	enr2 := testutil.CreateEnrollment(t, enrRepo, dualD.ID, sub2.ID, per.ID, testutil.IntPtr(teacherB.ID), true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errNotAuthenticated)},
		{name: "Admin sees everything", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marshallList(t, enr1, enr2)},
		{name: "Student sees own enrollments", token: getToken(t, studentA), wantCode: http.StatusOK, wantData: marshallList(t, enr1)},
		{name: "Teacher sees assigned sections", token: getToken(t, teacherB), wantCode: http.StatusOK, wantData: marshallList(t, enr2)},
		// the student filter wins for users holding both roles: D teaches
		// enr1 but only their own enrollment comes back
		{name: "Dual-role is scoped as a student", token: getToken(t, dualD), wantCode: http.StatusOK, wantData: marshallList(t, enr2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/enrollments", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_enrollmentApi_retrieve(t *testing.T) {
	app := setup(t)

	studentA := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "", []string{user.RoleStudent}, true)
	studentB := testutil.CreateUser(t, usrRepo, "Student B", "b@test.edu", "", []string{user.RoleStudent}, true)

	sub := testutil.CreateSubject(t, subRepo, "MATH101", "Mathematics", 5)
	per := testutil.CreatePeriod(t, perRepo, "2025-1", "First Term 2025",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true)
	enr := testutil.CreateEnrollment(t, enrRepo, studentA.ID, sub.ID, per.ID, nil, true)

	tests := []httpTest{
		{
			name: "Owner reads own record", path: fmt.Sprintf("/v1/enrollments/%d", enr.ID), token: getToken(t, studentA),
			wantCode: http.StatusOK, wantData: marshallObj(t, enr),
		},
		{
			// ownership mismatch is reported as a conflict, not forbidden
			name: "Other student is rejected", path: fmt.Sprintf("/v1/enrollments/%d", enr.ID), token: getToken(t, studentB),
			wantCode: http.StatusConflict, wantData: marshallObj(t, httpErr{Error: "access not allowed"}),
		},
		{
			name: "Missing enrollment", path: "/v1/enrollments/999", token: getToken(t, studentA),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "enrollment not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_enrollmentApi_create(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.edu", "", []string{user.RoleAdmin}, true)
	student := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "", []string{user.RoleStudent}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher B", "b@test.edu", "", []string{user.RoleTeacher}, true)

	sub := testutil.CreateSubject(t, subRepo, "MATH101", "Mathematics", 5)
	activePer := testutil.CreatePeriod(t, perRepo, "2025-1", "First Term 2025",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true)
	inactivePer := testutil.CreatePeriod(t, perRepo, "2024-2", "Second Term 2024",
		time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), false)

	body := func(userID, subjectID, periodID int) []byte {
		return []byte(fmt.Sprintf(`{"user_id": %d, "subject_id": %d, "period_id": %d, "teacher_id": %d}`,
			userID, subjectID, periodID, teacher.ID))
	}

	adminToken := getToken(t, admin)
	tests := []httpTest{
		{
			name: "Admin gate", body: body(student.ID, sub.ID, activePer.ID), token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errPermissionDenied),
		},
		{name: "Create succeeds", body: body(student.ID, sub.ID, activePer.ID), token: adminToken, wantCode: http.StatusCreated},
		{
			name: "Duplicate triple rejected", body: body(student.ID, sub.ID, activePer.ID), token: adminToken,
			wantCode: http.StatusConflict, wantData: marshallObj(t, httpErr{Error: "enrollment already exists"}),
		},
		// enrolling into an inactive period is allowed
		{name: "Inactive period accepted", body: body(student.ID, sub.ID, inactivePer.ID), token: adminToken, wantCode: http.StatusCreated},
		{name: "Missing fields rejected", body: []byte(`{}`), token: adminToken, wantCode: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/enrollments", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
