package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/registrar/apps/api/echo"
	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/professor"
	"github.com/trezcool/registrar/testutil"
)

type professorResp struct {
	Professor professor.Professor `json:"professor"`
}

func Test_professorApi(t *testing.T) {
	app := setup(t)

	ana := testutil.CreateProfessor(t, app.professorRepo, "ana lópez", "LOAA800101AB1", core.ClassificationA, true)
	beto := testutil.CreateProfessor(t, app.professorRepo, "beto ruiz", "", core.ClassificationC, false)

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/professors", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, ErrorResponse{Message: "invalid data", Fields: map[string]string{
				"name":           "this field is required",
				"classification": "this field is required",
			}}),
		},
		{
			name: "unknown classification", method: http.MethodPost, path: "/v1/professors",
			body:     []byte(`{"name": "Carla Díaz", "classification": "z"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, ErrorResponse{
				Message: `invalid classification "z"`,
				Fields:  map[string]string{"classification": `invalid classification "z"`},
			}),
		},
		{
			name: "rfc too long", method: http.MethodPost, path: "/v1/professors",
			body:     []byte(`{"name": "Carla Díaz", "rfc": "DIAC800101AB12", "classification": "b"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate rfc", method: http.MethodPost, path: "/v1/professors",
			body:     []byte(`{"name": "Carla Díaz", "rfc": "loaa800101ab1", "classification": "b"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, ErrorResponse{
				Message: professor.ErrRFCExists.Error(),
				Fields:  map[string]string{"rfc": professor.ErrRFCExists.Error()},
			}),
		},
		{
			name: "without rfc", method: http.MethodPost, path: "/v1/professors",
			body: []byte(`{"name": "Carla Díaz", "classification": "I"}`), wantCode: http.StatusOK,
		},
		{
			name: "retrieve unknown", method: http.MethodGet, path: "/v1/professors/lol",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, ErrorResponse{Message: "professor not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt.method, tt.path, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("listing", func(t *testing.T) {
		var resp struct {
			Professors []professor.Professor `json:"professors"`
		}
		decode(t, app.do(http.MethodGet, "/v1/professors?active=false"), &resp)
		if assert.Len(t, resp.Professors, 1) {
			assert.Equal(t, beto.ID, resp.Professors[0].ID)
		}
		decode(t, app.do(http.MethodGet, "/v1/professors?classification=a"), &resp)
		if assert.Len(t, resp.Professors, 1) {
			assert.Equal(t, ana.ID, resp.Professors[0].ID)
		}
		decode(t, app.do(http.MethodGet, "/v1/professors"), &resp)
		assert.Len(t, resp.Professors, 3)
	})

	t.Run("rfc is always written", func(t *testing.T) {
		rec := app.do(http.MethodPut, "/v1/professors/"+ana.ID, []byte(`{"name": "Ana María López"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp professorResp
		decode(t, rec, &resp)
		assert.Equal(t, "ana maría lópez", resp.Professor.Name)
		assert.Equal(t, "", resp.Professor.RFC)
		assert.Equal(t, core.ClassificationA, resp.Professor.Classification)

		rec = app.do(http.MethodPut, "/v1/professors/"+ana.ID, []byte(`{"rfc": "loaa800101ab1"}`))
		decode(t, rec, &resp)
		assert.Equal(t, "LOAA800101AB1", resp.Professor.RFC)
		assert.Equal(t, "ana maría lópez", resp.Professor.Name)
	})

	t.Run("cleared rfcs do not collide", func(t *testing.T) {
		rec := app.do(http.MethodPut, "/v1/professors/"+ana.ID, []byte(`{"rfc": ""}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		// beto has no rfc either
		rec = app.do(http.MethodPut, "/v1/professors/"+beto.ID, []byte(`{"classification": "d"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("archive keeps the rfc", func(t *testing.T) {
		app.do(http.MethodPut, "/v1/professors/"+ana.ID, []byte(`{"rfc": "LOAA800101AB1"}`))
		rec := app.do(http.MethodDelete, "/v1/professors/"+ana.ID)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp professorResp
		decode(t, rec, &resp)
		assert.False(t, resp.Professor.Active)
		assert.Equal(t, "LOAA800101AB1", resp.Professor.RFC)
	})
}
