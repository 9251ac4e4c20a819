package echoapi_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/registrar/apps/api/echo"
	"github.com/trezcool/registrar/core/subject"
	"github.com/trezcool/registrar/testutil"
)

type subjectResp struct {
	Subject subject.Subject `json:"subject"`
}

func Test_subjectApi_query(t *testing.T) {
	app := setup(t)

	path := func(search, filter, period, active, ordering string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if filter != "" {
			v.Add("filter", filter)
		}
		if period != "" {
			v.Add("period", period)
		}
		if active != "" {
			v.Add("active", active)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		return "/v1/subjects?" + v.Encode()
	}

	now := time.Now()
	calc := testutil.CreateSubject(t, app.subjectRepo, "cálculo", "MAT1", 1, true, now.Add(2*time.Hour))
	fis := testutil.CreateSubject(t, app.subjectRepo, "física", "FIS1", 1, true, now.Add(1*time.Hour))
	quim := testutil.CreateSubject(t, app.subjectRepo, "química", "QUI2", 2, false, now)

	tests := []struct {
		name string
		path string
		want []subject.Subject
	}{
		{name: "default (newest first)", path: "/v1/subjects", want: []subject.Subject{calc, fis, quim}},
		{name: "active=true", path: path("", "", "", "true", ""), want: []subject.Subject{calc, fis}},
		{name: "active=false", path: path("", "", "", "false", ""), want: []subject.Subject{quim}},
		{name: "search by name", path: path("FÍS", "", "", "", ""), want: []subject.Subject{fis}},
		{name: "search by key", path: path("1", "key", "", "", ""), want: []subject.Subject{calc, fis}},
		{name: "period", path: path("", "", "2", "", ""), want: []subject.Subject{quim}},
		{name: "out of range period is ignored", path: path("", "", "10", "", ""), want: []subject.Subject{calc, fis, quim}},
		{name: "order by key", path: path("", "", "", "", "key"), want: []subject.Subject{fis, calc, quim}},
		{name: "order by name", path: path("", "", "", "", "name"), want: []subject.Subject{calc, fis, quim}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodGet, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp struct {
				Subjects []subject.Subject `json:"subjects"`
			}
			decode(t, rec, &resp)
			assert.Equal(t, subjectIDs(tt.want), subjectIDs(resp.Subjects))
		})
	}
}

func Test_subjectApi_createUpdate(t *testing.T) {
	app := setup(t)
	calc := testutil.CreateSubject(t, app.subjectRepo, "cálculo", "MAT1", 1, true)

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/subjects", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, ErrorResponse{Message: "invalid data", Fields: map[string]string{
				"name":           "this field is required",
				"key":            "this field is required",
				"period":         "this field is required",
				"scheduledHours": "this field is required",
			}}),
		},
		{
			name: "period out of range", method: http.MethodPost, path: "/v1/subjects",
			body:     []byte(`{"name": "Álgebra", "key": "MAT2", "period": 10, "scheduledHours": 40}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate key", method: http.MethodPost, path: "/v1/subjects",
			body:     []byte(`{"name": "Álgebra", "key": "mat1", "period": 2, "scheduledHours": 40}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, ErrorResponse{
				Message: subject.ErrKeyExists.Error(),
				Fields:  map[string]string{"key": subject.ErrKeyExists.Error()},
			}),
		},
		{
			name: "success", method: http.MethodPost, path: "/v1/subjects",
			body:     []byte(`{"name": "Álgebra", "key": "mat2", "period": 2, "scheduledHours": 40, "credits": 6}`),
			wantCode: http.StatusOK,
		},
		{
			name: "rename to taken name", method: http.MethodPut, path: "/v1/subjects/" + calc.ID,
			body:     []byte(`{"name": "ÁLGEBRA"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, ErrorResponse{
				Message: subject.ErrNameExists.Error(),
				Fields:  map[string]string{"name": subject.ErrNameExists.Error()},
			}),
		},
		{
			name: "update unknown", method: http.MethodPut, path: "/v1/subjects/lol", body: []byte(`{}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, ErrorResponse{Message: "subject not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt.method, tt.path, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("partial update", func(t *testing.T) {
		rec := app.do(http.MethodPut, "/v1/subjects/"+calc.ID, []byte(`{"period": 3, "description": "Límites y derivadas"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp subjectResp
		decode(t, rec, &resp)
		assert.Equal(t, "cálculo", resp.Subject.Name)
		assert.Equal(t, "MAT1", resp.Subject.Key)
		assert.Equal(t, 3, resp.Subject.Period)
		assert.Equal(t, 40, resp.Subject.ScheduledHours)
		assert.Equal(t, "Límites y derivadas", resp.Subject.Description)
	})

	t.Run("archive & restore", func(t *testing.T) {
		rec := app.do(http.MethodDelete, "/v1/subjects/"+calc.ID)
		var resp subjectResp
		decode(t, rec, &resp)
		assert.False(t, resp.Subject.Active)

		rec = app.do(http.MethodPut, "/v1/subjects/"+calc.ID, []byte(`{"active": true}`))
		decode(t, rec, &resp)
		assert.True(t, resp.Subject.Active)
		assert.Equal(t, 3, resp.Subject.Period)
	})
}
