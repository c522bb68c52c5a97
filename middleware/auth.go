package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/pesquisa-clima/utils"
)

const (
	AdminCookie      = "admin_session"
	RespondentCookie = "respondent_session"

	CtxAdmin        = "adminClaims"
	CtxRespondentID = "respondentID"

	// RespondentTTL bounds how long a respondent has to fill in the survey after login.
	RespondentTTL = time.Hour
)

// SetSessionCookie ghi token vào cookie HttpOnly.
func SetSessionCookie(c *gin.Context, name, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
}

func ClearSessionCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", c.Request.TLS != nil, true)
}

// RequireAdminSession chặn dashboard nếu không có token admin hợp lệ.
func RequireAdminSession(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(AdminCookie)
		if err != nil || raw == "" {
			c.Redirect(http.StatusSeeOther, "/admin-login")
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(secret, raw, utils.RoleAdmin)
		if err != nil {
			ClearSessionCookie(c, AdminCookie)
			c.Redirect(http.StatusSeeOther, "/admin-login")
			c.Abort()
			return
		}

		c.Set(CtxAdmin, claims)
		c.Next()
	}
}

// RequireRespondentSession only lets a respondent open their own survey page.
func RequireRespondentSession(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		raw, err := c.Cookie(RespondentCookie)
		if err != nil || raw == "" {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(secret, raw, utils.RoleRespondent)
		if err != nil || claims.UserID != strconv.FormatUint(id, 10) {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		c.Set(CtxRespondentID, uint(id))
		c.Next()
	}
}
