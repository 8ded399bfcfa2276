package session

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userCookieName  = "__session"
	adminCookieName = "__admin_session"

	// RememberDuration is how long a "remember me" learner cookie lives.
	RememberDuration = 365 * 24 * time.Hour

	adminDuration = 24 * time.Hour
)

// Manager issues and reads the signed session cookies. Learner sessions hold
// only a free-text display name; admin sessions hold the admin row ID.
type Manager struct {
	secret []byte
	secure bool
}

func NewManager(secret string, secure bool) *Manager {
	return &Manager{
		secret: []byte(secret),
		secure: secure,
	}
}

type userClaims struct {
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

type adminClaims struct {
	AdminID uint `json:"adminId"`
	jwt.RegisteredClaims
}

// ===== LEARNER SESSIONS =====

// GetUserName returns the learner name from the session cookie, if any.
func (m *Manager) GetUserName(c *gin.Context) (string, bool) {
	cookie, err := c.Cookie(userCookieName)
	if err != nil || cookie == "" {
		return "", false
	}

	var claims userClaims
	if err := m.parse(cookie, &claims); err != nil {
		return "", false
	}
	if claims.UserName == "" {
		return "", false
	}
	return claims.UserName, true
}

// CreateUserSession signs a cookie holding the learner name. With remember
// set the cookie persists for a year; otherwise it lives for the browser
// session only.
func (m *Manager) CreateUserSession(c *gin.Context, userName string, remember bool) error {
	expiry := RememberDuration
	maxAge := int(RememberDuration / time.Second)
	if !remember {
		expiry = 24 * time.Hour
		maxAge = 0 // session cookie
	}

	token, err := m.sign(userClaims{
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to sign user session: %w", err)
	}

	m.setCookie(c, userCookieName, token, maxAge)
	return nil
}

// ClearUserSession logs the learner out.
func (m *Manager) ClearUserSession(c *gin.Context) {
	m.setCookie(c, userCookieName, "", -1)
}

// RequireUser redirects to the assignment's identity-entry screen when no
// learner name is set. The original path rides along so the start action can
// send the learner back.
func (m *Manager) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.GetUserName(c); ok {
			c.Next()
			return
		}

		redirectTo := url.QueryEscape(c.Request.URL.Path)
		target := fmt.Sprintf("/assignment/%s/start?redirectTo=%s", c.Param("id"), redirectTo)
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// ===== ADMIN SESSIONS =====

// GetAdminID returns the authenticated admin's ID, if any.
func (m *Manager) GetAdminID(c *gin.Context) (uint, bool) {
	cookie, err := c.Cookie(adminCookieName)
	if err != nil || cookie == "" {
		return 0, false
	}

	var claims adminClaims
	if err := m.parse(cookie, &claims); err != nil {
		return 0, false
	}
	if claims.AdminID == 0 {
		return 0, false
	}
	return claims.AdminID, true
}

// CreateAdminSession signs an admin cookie valid for one day.
func (m *Manager) CreateAdminSession(c *gin.Context, adminID uint) error {
	token, err := m.sign(adminClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(adminDuration)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to sign admin session: %w", err)
	}

	m.setCookie(c, adminCookieName, token, int(adminDuration/time.Second))
	return nil
}

// ClearAdminSession logs the admin out.
func (m *Manager) ClearAdminSession(c *gin.Context) {
	m.setCookie(c, adminCookieName, "", -1)
}

// RequireAdmin rejects unauthenticated admin requests with 403. Unlike the
// learner flow there is no redirect; admin mutations are API calls.
func (m *Manager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := m.GetAdminID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Set("admin_id", id)
		c.Next()
	}
}

// ===== SIGNING =====

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid session token")
	}
	return nil
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}
