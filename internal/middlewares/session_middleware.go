package middlewares

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// sessionKeyContext is the context key the session is stored under.
const sessionKeyContext = "session_data"

// Session value keys.
const (
	SessionKeyAuthUserID    = "auth_user_id"
	SessionKeyPendingUserID = "pending_2fa_user_id"
)

// SessionMiddleware loads the session from the request and stores it in the
// context. A broken session cookie is reset so the client can start over.
func SessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get("session", c)
		if err != nil {
			resetSessionCookie(c)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Session error. Please log in again.", "dont_raise_error": "true"})
		}

		c.Set(sessionKeyContext, sess)
		return next(c)
	}
}

// resetSessionCookie expires the client's session cookie.
func resetSessionCookie(c echo.Context) {
	cookie := new(http.Cookie)
	cookie.Name = "session"
	cookie.Value = ""
	cookie.Path = "/"
	cookie.MaxAge = -1
	cookie.HttpOnly = true
	c.SetCookie(cookie)
}

// GetSessionFromContext returns the session stored by SessionMiddleware.
func GetSessionFromContext(c echo.Context) (*sessions.Session, error) {
	sessionData := c.Get(sessionKeyContext)
	if sessionData == nil {
		// Not behind the middleware; fetch directly.
		sess, err := session.Get("session", c)
		if err != nil {
			return nil, err
		}
		return sess, nil
	}

	sess, ok := sessionData.(*sessions.Session)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "invalid session type")
	}

	return sess, nil
}

// FlushSession drops all values and expires the cookie, forcing a fresh
// session id on the next request.
func FlushSession(c echo.Context) error {
	sess, err := GetSessionFromContext(c)
	if err != nil {
		return err
	}
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}
