package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/registrar/apps/api/echo"
	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/career"
	"github.com/trezcool/registrar/core/payrate"
	"github.com/trezcool/registrar/core/professor"
	"github.com/trezcool/registrar/core/studyplan"
	"github.com/trezcool/registrar/core/subject"
	"github.com/trezcool/registrar/core/user"
	"github.com/trezcool/registrar/services/logger"
	"github.com/trezcool/registrar/storage/database/sqlx"
	"github.com/trezcool/registrar/testutil"
)

const adminPassword = "Sup3r-secret!"

var errUnauthorized = ErrorResponse{Message: "Unauthorized"}

type testApp struct {
	conf  *core.Config
	srv   *Server
	token string
	admin user.User

	usrRepo       user.Repository
	careerRepo    career.Repository
	subjectRepo   subject.Repository
	professorRepo professor.Repository
	payRateRepo   payrate.Repository
	planRepo      studyplan.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := core.NewTestConfig()
	db := testutil.PrepareDB(t)
	validate, translator := testutil.NewValidator()

	app := &testApp{
		conf:          conf,
		usrRepo:       sqlxrepos.NewUserRepository(db),
		careerRepo:    sqlxrepos.NewCareerRepository(db),
		subjectRepo:   sqlxrepos.NewSubjectRepository(db),
		professorRepo: sqlxrepos.NewProfessorRepository(db),
		payRateRepo:   sqlxrepos.NewPayRateRepository(db),
		planRepo:      sqlxrepos.NewStudyPlanRepository(db),
	}

	careerSvc := career.NewService(app.careerRepo)
	subjectSvc := subject.NewService(app.subjectRepo)
	app.srv = NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf),
		Validate:     validate,
		Translator:   translator,
		UserSvc:      user.NewService(app.usrRepo),
		CareerSvc:    careerSvc,
		StudyPlanSvc: studyplan.NewService(app.planRepo, careerSvc, subjectSvc),
		SubjectSvc:   subjectSvc,
		ProfessorSvc: professor.NewService(app.professorRepo),
		PayRateSvc:   payrate.NewService(app.payRateRepo),
	})
	t.Cleanup(func() { _ = app.srv.Shutdown(context.Background()) })

	app.admin = testutil.CreateUser(t, app.usrRepo, "admin", adminPassword, true)
	app.token = getToken(t, conf, app.admin)
	return app
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

// do sends an authenticated request to the app.
func (app *testApp) do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, app.token, data...)
	app.srv.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	token, err := GenerateToken(conf, GetUserClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

// decode unmarshals the body of `rec` into `v`.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func bPtr(b bool) *bool { return &b }

func careerIDs(careers []career.Career) []string {
	ids := make([]string, 0, len(careers))
	for _, c := range careers {
		ids = append(ids, c.ID)
	}
	return ids
}

func subjectIDs(subjects []subject.Subject) []string {
	ids := make([]string, 0, len(subjects))
	for _, s := range subjects {
		ids = append(ids, s.ID)
	}
	return ids
}
