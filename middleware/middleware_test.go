package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/junaidrashid-git/webshop/auth"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func profileEngine() *gin.Engine {
	r := gin.New()
	r.Use(Profile(secret, time.Hour, zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"profile": ProfileID(c), "tab": TabID(c)})
	})
	return r
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestProfile_IssuesCookies(t *testing.T) {
	r := profileEngine()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	profile := findCookie(rec, ProfileCookie)
	require.NotNil(t, profile)
	assert.True(t, profile.HttpOnly)
	assert.Equal(t, 3600, profile.MaxAge)

	id, err := auth.ParseProfileToken(secret, profile.Value)
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), id)

	tab := findCookie(rec, TabCookie)
	require.NotNil(t, tab)
	assert.Zero(t, tab.MaxAge, "tab cookie lives for the browser session")
}

func TestProfile_KeepsValidCookies(t *testing.T) {
	r := profileEngine()
	token, err := auth.IssueProfileToken(secret, "profile_known", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: token})
	req.Header.Set(TabHeader, "tab_header")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.JSONEq(t, `{"profile":"profile_known","tab":"tab_header"}`, rec.Body.String())
	assert.Nil(t, findCookie(rec, ProfileCookie))
	assert.Nil(t, findCookie(rec, TabCookie))
}

func TestProfile_ReplacesForgedCookie(t *testing.T) {
	r := profileEngine()
	forged, err := auth.IssueProfileToken([]byte("other"), "profile_victim", time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ProfileCookie, Value: forged})
	req.AddCookie(&http.Cookie{Name: TabCookie, Value: "tab_cookie"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.NotContains(t, rec.Body.String(), "profile_victim")
	assert.Contains(t, rec.Body.String(), `"tab":"tab_cookie"`)
	assert.NotNil(t, findCookie(rec, ProfileCookie))
}

func TestValidateAPIKey(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		header     string
		want       int
	}{
		{"match", "k1", "k1", http.StatusOK},
		{"mismatch", "k1", "k2", http.StatusUnauthorized},
		{"missing header", "k1", "", http.StatusUnauthorized},
		{"not configured", "", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", ValidateAPIKey(tc.configured), func(c *gin.Context) { c.Status(http.StatusOK) })
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("X-API-KEY", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRedactSensitiveParams(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/api/data", "/api/data"},
		{"/api/data?foo=bar&baz=qux", "/api/data?foo=bar&baz=qux"},
		{"/api/preferences?token=abc", "/api/preferences?token=%5BREDACTED%5D"},
		{"/api/login?username=admin&password=secret", "/api/login?password=%5BREDACTED%5D&username=admin"},
		{"/api/auth?token=abc&api_key=ghi", "/api/auth?api_key=%5BREDACTED%5D&token=%5BREDACTED%5D"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			u, err := url.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, redactSensitiveParams(u))
		})
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing?password=hunter2", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/missing?password=%5BREDACTED%5D", fields["url"])
	assert.EqualValues(t, http.StatusNotFound, fields["status"])
}
