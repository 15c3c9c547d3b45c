package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futuremech/fmweb/pkg/core/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	m, err := New(Options{
		Secret:     []byte("0123456789abcdef"),
		CookieName: "fm_session",
		Lifetime:   time.Hour,
	})
	require.NoError(t, err)
	return m
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(Options{Secret: []byte("short"), CookieName: "s", Lifetime: time.Hour})
	assert.Error(t, err)
	_, err = New(Options{Secret: []byte("0123456789abcdef"), Lifetime: time.Hour})
	assert.Error(t, err)
	_, err = New(Options{Secret: []byte("0123456789abcdef"), CookieName: "s"})
	assert.Error(t, err)
}

func TestIssueAndParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	s := &model.Session{UserID: 7, Username: "jane", Email: "jane@example.com", Role: model.RoleClient}
	require.NoError(t, m.Issue(c, s))
	assert.NotEmpty(t, s.ID, "a session id is allocated")
	assert.Same(t, s, Current(c))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	parsed, err := m.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, *s, *parsed)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(cookies[0].Value)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	m := newManager(t)
	other, err := New(Options{
		Secret:     []byte("fedcba9876543210"),
		CookieName: "fm_session",
		Lifetime:   time.Hour,
	})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	require.NoError(t, other.Issue(c, &model.Session{UserID: 1, Role: model.RoleAdmin}))
	_, err = m.Parse(w.Result().Cookies()[0].Value)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"jti": "x", "uid": 1, "exp": time.Now().Add(time.Hour).Unix(),
	})
	tok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(tok)
	assert.Error(t, err)
}

func TestRequire(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager(t)
	e := gin.New()
	e.Use(m.Middleware())
	e.GET("/admin/users", Require(model.CapAdminArea), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	e.GET("/issue/:role", func(c *gin.Context) {
		r, _ := model.ParseRole(c.Param("role"))
		_ = m.Issue(c, &model.Session{UserID: 3, Role: r})
	})
	get := func(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		return w
	}

	w := get("/admin/users?page=2", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fadmin%2Fusers%3Fpage%3D2", w.Header().Get("Location"))

	client := get("/issue/client", nil).Result().Cookies()
	w = get("/admin/users", client)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, HomePath, w.Header().Get("Location"))

	admin := get("/issue/admin", nil).Result().Cookies()
	assert.Equal(t, http.StatusNoContent, get("/admin/users", admin).Code)
}

func TestSafeNext(t *testing.T) {
	for next, want := range map[string]string{
		"/cart":                "/cart",
		"/dashboard?tab=1":     "/dashboard?tab=1",
		"":                     "",
		"https://evil.example": "",
		"//evil.example/x":     "",
		"/\\evil.example":      "",
		"cart":                 "",
	} {
		assert.Equal(t, want, SafeNext(next), next)
	}
}
