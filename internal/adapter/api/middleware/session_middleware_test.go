package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowseSessionAssignsCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/houses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var sessionID string
	handler := BrowseSession(func(c echo.Context) error {
		sessionID = c.Get(BrowseSessionKey).(string)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.NotEmpty(t, sessionID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "rl_session", cookies[0].Name)
	assert.Equal(t, sessionID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestBrowseSessionReusesExistingCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/houses", nil)
	req.AddCookie(&http.Cookie{Name: "rl_session", Value: "existing-session"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var sessionID string
	handler := BrowseSession(func(c echo.Context) error {
		sessionID = c.Get(BrowseSessionKey).(string)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "existing-session", sessionID)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/houses", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestTimeout(time.Second)(func(c echo.Context) error {
		deadline, ok := c.Request().Context().Deadline()
		assert.True(t, ok)
		assert.False(t, deadline.IsZero())
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
}
