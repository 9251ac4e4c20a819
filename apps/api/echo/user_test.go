package echoapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/registrar/apps/api/echo"
	"github.com/trezcool/registrar/testutil"
)

func Test_userApi_login(t *testing.T) {
	app := setup(t)
	testutil.CreateUser(t, app.usrRepo, "naughty", adminPassword, false)

	tests := []httpTest{
		{
			name: "missing fields", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, ErrorResponse{Message: "invalid data", Fields: map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}}),
		},
		{
			name: "unknown user", body: []byte(`{"username": "ghost", "password": "` + adminPassword + `"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, ErrorResponse{Message: "invalid credentials"}),
		},
		{
			name: "wrong password", body: []byte(`{"username": "admin", "password": "nope"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, ErrorResponse{Message: "invalid credentials"}),
		},
		{
			name: "deactivated", body: []byte(`{"username": "naughty", "password": "` + adminPassword + `"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, ErrorResponse{Message: "account deactivated"}),
		},
		{
			name: "malformed body", body: []byte(`{"username": `),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", []byte(`{"username": " ADMIN ", "password": "`+adminPassword+`"}`))
		app.srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp LoginResponse
		decode(t, rec, &resp)
		claims := new(Claims)
		_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(app.conf.SecretKey), nil
		})
		assert.NoError(t, err)
		assert.Equal(t, app.admin.ID, claims.Subject)
		assert.Equal(t, "admin", claims.Username)
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t)
	naughty := testutil.CreateUser(t, app.usrRepo, "naughty", adminPassword, false)

	expiredRefresh := GetUserClaims(app.conf, app.admin, time.Now().Add(-8*24*time.Hour).Unix())
	expiredToken, err := GenerateToken(app.conf, expiredRefresh)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{name: "invalid token", token: "not.a.token", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)},
		{
			name: "deactivated", token: getToken(t, app.conf, naughty),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, ErrorResponse{Message: "account deactivated"}),
		},
		{
			name: "refresh expired", token: expiredToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, ErrorResponse{Message: "refresh has expired"}),
		},
		{name: "success", token: app.token, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", tt.token)
			app.srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestServer_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Registrar API!", rec.Body.String())
}

func TestServer_metrics(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.srv.ServeHTTP(rec, req)
	req, rec = newRequest(http.MethodGet, "/v1/careers")
	app.srv.ServeHTTP(rec, req)

	req, rec = newRequest(http.MethodGet, "/metrics")
	app.srv.MetricsHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `registrar_http_requests_total{code="200",method="GET",route="/"} 1`)
	assert.Contains(t, body, `registrar_http_requests_total{code="401",method="GET",route="/v1/careers"} 1`)
}
