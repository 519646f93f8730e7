package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/unidigital/academia/apps/api/echo"
	"github.com/unidigital/academia/core"
	"github.com/unidigital/academia/core/auth"
	"github.com/unidigital/academia/core/dashboard"
	"github.com/unidigital/academia/core/enrollment"
	"github.com/unidigital/academia/core/grade"
	"github.com/unidigital/academia/core/period"
	"github.com/unidigital/academia/core/subject"
	"github.com/unidigital/academia/core/user"
	emailsvc "github.com/unidigital/academia/services/email"
	inmemdb "github.com/unidigital/academia/storage/database/inmem"
	testutil "github.com/unidigital/academia/tests"
)

var (
	conf *core.Config

	usrRepo  user.Repository
	enrRepo  enrollment.Repository
	subRepo  subject.Repository
	perRepo  period.Repository
	grdRepo  grade.Repository
	authRepo auth.Repository

	authSvc *auth.Service

	errNotAuthenticated = httpErr{Error: "not authenticated"}
	errPermissionDenied = httpErr{Error: "permission denied"}
)

func setup(t *testing.T) echoapi.Server {
	t.Helper()

	conf = testutil.NewConfig()
	db := inmemdb.NewDB()

	usrRepo = inmemdb.NewUserRepository(db)
	authRepo = inmemdb.NewAuthRepository(db)
	subRepo = inmemdb.NewSubjectRepository(db)
	perRepo = inmemdb.NewPeriodRepository(db)
	enrRepo = inmemdb.NewEnrollmentRepository(db)
	grdRepo = inmemdb.NewGradeRepository(db)
	dashRepo := inmemdb.NewDashboardRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(conf, usrRepo, mailSvc)
	authSvc = auth.NewService(conf, authRepo, usrSvc)

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	return echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         testLogger{t},
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		AuthSvc:        authSvc,
		SubjectSvc:     subject.NewService(subRepo),
		PeriodSvc:      period.NewService(perRepo),
		EnrollmentSvc:  enrollment.NewService(enrRepo),
		GradeSvc:       grade.NewService(grdRepo, enrRepo),
		DashboardSvc:   dashboard.NewService(dashRepo),
		SignalShutdown: func() {},
	})
}

type testLogger struct {
	t *testing.T
}

func (l testLogger) Enable(bool)                           {}
func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG: %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO: %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, _, _, err := authSvc.IssueToken(usr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
