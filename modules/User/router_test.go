package User

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/kigongo-vincent/invai-backend/internal/testdb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHooks struct {
	created []*UserModel
}

func (h *recordingHooks) UserCreated(u *UserModel) { h.created = append(h.created, u) }

func newRouter(t *testing.T, sessions SessionStore) (*gin.Engine, *UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testdb.Open(t, &UserModel{})
	InitializeService(db, Options{JWTSecret: "test-secret", MediaRoot: t.TempDir(), Sessions: sessions})
	t.Cleanup(func() { SetHooks(nil) })

	r := gin.New()
	RegisterRoutes(r.Group("/api/auth"))
	return r, GetUserService()
}

func doJSON(r http.Handler, method, path string, body interface{}, mutate func(*http.Request)) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) func(*http.Request) {
	return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }
}

func TestLoginHandlerResponses(t *testing.T) {
	r, s := newRouter(t, nil)
	createUser(t, s, "amy", Manager)

	w := doJSON(r, http.MethodPost, "/api/auth/login/", gin.H{"email": "amy@example.com", "password": "password123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User    map[string]interface{} `json:"user"`
		Message string                 `json:"message"`
		Token   string                 `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "amy", resp.User["username"])
	assert.NotContains(t, resp.User, "password")
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, w.Result().Cookies())

	w = doJSON(r, http.MethodPost, "/api/auth/users/login/", gin.H{"email": "ghost@example.com", "password": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login/", gin.H{"email": "amy@example.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login/", gin.H{"email": "amy@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeRequiresAuthentication(t *testing.T) {
	r, s := newRouter(t, nil)
	u := createUser(t, s, "amy", Employee)

	w := doJSON(r, http.MethodGet, "/api/auth/users/me/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_AUTH")

	w = doJSON(r, http.MethodGet, "/api/auth/users/me/", nil, bearer("not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")

	token, err := GenerateJWT(u)
	require.NoError(t, err)
	w = doJSON(r, http.MethodGet, "/api/auth/users/me/", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"amy"`)
}

func TestCookieAuthenticationWithoutSessionStore(t *testing.T) {
	r, s := newRouter(t, nil)
	createUser(t, s, "amy", Employee)

	login := doJSON(r, http.MethodPost, "/api/auth/login/", gin.H{"email": "amy@example.com", "password": "password123"}, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	w := doJSON(r, http.MethodGet, "/api/auth/users/me/", nil, func(req *http.Request) {
		for _, c := range cookies {
			req.AddCookie(c)
		}
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCookieAuthenticationWithRedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r, s := newRouter(t, NewRedisSessionStore(client))
	createUser(t, s, "amy", Employee)

	login := doJSON(r, http.MethodPost, "/api/auth/login/", gin.H{"email": "amy@example.com", "password": "password123"}, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, mr.Exists("session:"+cookies[0].Value))

	withCookie := func(req *http.Request) { req.AddCookie(cookies[0]) }
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/api/auth/users/me/", nil, withCookie).Code)

	logout := doJSON(r, http.MethodPost, "/api/auth/logout/", nil, withCookie)
	assert.Equal(t, http.StatusOK, logout.Code)
	assert.False(t, mr.Exists("session:"+cookies[0].Value))

	w := doJSON(r, http.MethodGet, "/api/auth/users/me/", nil, withCookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_EXPIRED")
}

func TestRegisterFiresUserCreated(t *testing.T) {
	r, _ := newRouter(t, nil)
	h := &recordingHooks{}
	SetHooks(h)

	w := doJSON(r, http.MethodPost, "/api/auth/register/", gin.H{
		"username": "newbie",
		"email":    "newbie@example.com",
		"password": "password123",
		"role":     "Admin",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, h.created, 1)
	assert.Equal(t, "newbie", h.created[0].Username)
	assert.Equal(t, Employee, h.created[0].Role)
}

func TestUserAdministrationRequiresAdmin(t *testing.T) {
	r, s := newRouter(t, nil)
	h := &recordingHooks{}
	SetHooks(h)
	admin := createUser(t, s, "boss", Admin)
	employee := createUser(t, s, "worker", Employee)

	adminToken, err := GenerateJWT(admin)
	require.NoError(t, err)
	employeeToken, err := GenerateJWT(employee)
	require.NoError(t, err)

	body := gin.H{"username": "temp", "email": "temp@example.com", "password": "password123", "role": "Manager"}

	w := doJSON(r, http.MethodPost, "/api/auth/users/", body, bearer(employeeToken))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, h.created)

	w = doJSON(r, http.MethodPost, "/api/auth/users/", body, bearer(adminToken))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, h.created, 1)
	assert.Equal(t, Manager, h.created[0].Role)

	w = doJSON(r, http.MethodGet, "/api/auth/users/", nil, bearer(employeeToken))
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 3)
}
