package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/unidigital/academia/core/user"
	testutil "github.com/unidigital/academia/tests"
)

func Test_gradeApi_create(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.edu", "", []string{user.RoleAdmin}, true)
	student := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "", []string{user.RoleStudent}, true)
	teacherB := testutil.CreateUser(t, usrRepo, "Teacher B", "b@test.edu", "", []string{user.RoleTeacher}, true)
	teacherC := testutil.CreateUser(t, usrRepo, "Teacher C", "c@test.edu", "", []string{user.RoleTeacher}, true)

	sub := testutil.CreateSubject(t, subRepo, "MATH101", "Mathematics", 5)
	sub2 := testutil.CreateSubject(t, subRepo, "PHY101", "Physics", 4)
	per := testutil.CreatePeriod(t, perRepo, "2025-1", "First Term 2025",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true)

	enr := testutil.CreateEnrollment(t, enrRepo, student.ID, sub.ID, per.ID, testutil.IntPtr(teacherB.ID), true)
	inactiveEnr := testutil.CreateEnrollment(t, enrRepo, student.ID, sub2.ID, per.ID, testutil.IntPtr(teacherB.ID), false)

	body := func(enrollmentID int, value string) []byte {
		return []byte(fmt.Sprintf(`{"enrollment_id": %d, "value": %s}`, enrollmentID, value))
	}

	tests := []httpTest{
		{name: "Assigned teacher grades", body: body(enr.ID, "85.50"), token: getToken(t, teacherB), wantCode: http.StatusCreated},
		{
			name: "Unassigned teacher rejected", body: body(enr.ID, "85.50"), token: getToken(t, teacherC),
			wantCode: http.StatusConflict, wantData: marshallObj(t, httpErr{Error: "enrollment is not assigned to you"}),
		},
		{name: "Admin grades without assignment", body: body(enr.ID, "70"), token: getToken(t, admin), wantCode: http.StatusCreated},
		{
			name: "Inactive enrollment rejected", body: body(inactiveEnr.ID, "85.50"), token: getToken(t, teacherB),
			wantCode: http.StatusConflict, wantData: marshallObj(t, httpErr{Error: "enrollment is not active"}),
		},
		{
			name: "Missing enrollment", body: body(999, "85.50"), token: getToken(t, teacherB),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "enrollment not found"}),
		},
		{name: "Student cannot grade", body: body(enr.ID, "85.50"), token: getToken(t, student), wantCode: http.StatusForbidden},
		{name: "Value above range", body: body(enr.ID, "100.01"), token: getToken(t, teacherB), wantCode: http.StatusUnprocessableEntity},
		{name: "Value below range", body: body(enr.ID, "-1"), token: getToken(t, teacherB), wantCode: http.StatusUnprocessableEntity},
		{name: "Too many decimals", body: body(enr.ID, "85.505"), token: getToken(t, teacherB), wantCode: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/grades", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_gradeApi_query(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.edu", "", []string{user.RoleAdmin}, true)
	studentA := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "", []string{user.RoleStudent}, true)
	studentB := testutil.CreateUser(t, usrRepo, "Student B", "b@test.edu", "", []string{user.RoleStudent}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "t@test.edu", "", []string{user.RoleTeacher}, true)
	// administrator who also studies
	adminC := testutil.CreateUser(t, usrRepo, "Admin C", "c@test.edu", "", []string{user.RoleAdmin, user.RoleStudent}, true)

	sub := testutil.CreateSubject(t, subRepo, "MATH101", "Mathematics", 5)
	per := testutil.CreatePeriod(t, perRepo, "2025-1", "First Term 2025",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true)

	enrA := testutil.CreateEnrollment(t, enrRepo, studentA.ID, sub.ID, per.ID, testutil.IntPtr(teacher.ID), true)
	enrB := testutil.CreateEnrollment(t, enrRepo, studentB.ID, sub.ID, per.ID, nil, true)
	enrC := testutil.CreateEnrollment(t, enrRepo, adminC.ID, sub.ID, per.ID, nil, true)
	testutil.CreateGrade(t, grdRepo, enrA.ID, 85.5, "solid work")
	testutil.CreateGrade(t, grdRepo, enrB.ID, 42.25, "")
	testutil.CreateGrade(t, grdRepo, enrC.ID, 60, "")

	type gradeRow struct {
		ID           int      `json:"id"`
		EnrollmentID int      `json:"enrollment_id"`
		Value        *float64 `json:"value"`
		StudentName  string   `json:"student_name"`
	}
	list := func(t *testing.T, token string) []gradeRow {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, "/v1/grades", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var rows []gradeRow
		if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		return rows
	}

	t.Run("Admin listing is value-redacted", func(t *testing.T) {
		rows := list(t, getToken(t, admin))
		if len(rows) != 3 {
			t.Fatalf("got %d rows; want 3", len(rows))
		}
		for _, row := range rows {
			if row.Value != nil {
				t.Errorf("grade %d: value = %v; want null", row.ID, *row.Value)
			}
			if row.StudentName == "" {
				t.Errorf("grade %d: missing student name", row.ID)
			}
		}
	})

	t.Run("Redaction also hits a studying admin", func(t *testing.T) {
		// the student filter narrows the listing to their own grade, but the
		// admin role still nulls the value
		rows := list(t, getToken(t, adminC))
		if len(rows) != 1 {
			t.Fatalf("got %d rows; want 1", len(rows))
		}
		if rows[0].EnrollmentID != enrC.ID {
			t.Errorf("enrollment_id = %d; want %d", rows[0].EnrollmentID, enrC.ID)
		}
		if rows[0].Value != nil {
			t.Errorf("value = %v; want null", *rows[0].Value)
		}
	})

	t.Run("Teacher sees values for assigned sections", func(t *testing.T) {
		rows := list(t, getToken(t, teacher))
		if len(rows) != 1 {
			t.Fatalf("got %d rows; want 1", len(rows))
		}
		if rows[0].EnrollmentID != enrA.ID {
			t.Errorf("enrollment_id = %d; want %d", rows[0].EnrollmentID, enrA.ID)
		}
		if rows[0].Value == nil || *rows[0].Value != 85.5 {
			t.Errorf("value = %v; want 85.5", rows[0].Value)
		}
	})

	t.Run("Student sees own values", func(t *testing.T) {
		rows := list(t, getToken(t, studentA))
		if len(rows) != 1 {
			t.Fatalf("got %d rows; want 1", len(rows))
		}
		if rows[0].Value == nil || *rows[0].Value != 85.5 {
			t.Errorf("value = %v; want 85.5", rows[0].Value)
		}
	})
}

func Test_gradeApi_retrieve(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.edu", "", []string{user.RoleAdmin}, true)
	studentA := testutil.CreateUser(t, usrRepo, "Student A", "a@test.edu", "", []string{user.RoleStudent}, true)
	studentB := testutil.CreateUser(t, usrRepo, "Student B", "b@test.edu", "", []string{user.RoleStudent}, true)

	sub := testutil.CreateSubject(t, subRepo, "MATH101", "Mathematics", 5)
	per := testutil.CreatePeriod(t, perRepo, "2025-1", "First Term 2025",
		time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true)
	enr := testutil.CreateEnrollment(t, enrRepo, studentA.ID, sub.ID, per.ID, nil, true)
	grd := testutil.CreateGrade(t, grdRepo, enr.ID, 85.5, "")

	tests := []httpTest{
		{
			name: "Owner reads own grade", token: getToken(t, studentA),
			wantCode: http.StatusOK, wantData: marshallObj(t, grd),
		},
		{
			// redaction only applies to listings
			name: "Admin single get keeps the value", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marshallObj(t, grd),
		},
		{
			name: "Other student is rejected", token: getToken(t, studentB),
			wantCode: http.StatusConflict, wantData: marshallObj(t, httpErr{Error: "access not allowed"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/grades/%d", grd.ID), tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
