package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/pesquisa-clima/utils"
)

var secret = []byte("middleware-secret")

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/pesquisa/:id", RequireRespondentSession(secret), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", c.MustGet(CtxRespondentID).(uint))
	})
	r.GET("/admin", RequireAdminSession(secret), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, userID, role, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestRequireRespondentSession(t *testing.T) {
	r := newRouter()
	own := token(t, "7", utils.RoleRespondent)

	tests := []struct {
		name   string
		path   string
		cookie string
		want   int
	}{
		{"own page", "/pesquisa/7", own, http.StatusOK},
		{"other page", "/pesquisa/8", own, http.StatusSeeOther},
		{"no cookie", "/pesquisa/7", "", http.StatusSeeOther},
		{"bad id", "/pesquisa/abc", own, http.StatusSeeOther},
		{"admin token", "/pesquisa/7", token(t, "7", utils.RoleAdmin), http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: RespondentCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			if tt.want == http.StatusOK && w.Body.String() != "7" {
				t.Errorf("expected respondent 7 in context, got %q", w.Body.String())
			}
			if tt.want == http.StatusSeeOther && w.Header().Get("Location") != "/" {
				t.Errorf("expected redirect to /, got %q", w.Header().Get("Location"))
			}
		})
	}
}

func TestRequireAdminSession(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		cookie string
		want   int
	}{
		{"admin", token(t, "1", utils.RoleAdmin), http.StatusOK},
		{"respondent token", token(t, "1", utils.RoleRespondent), http.StatusSeeOther},
		{"no cookie", "", http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AdminCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			if tt.want == http.StatusSeeOther && w.Header().Get("Location") != "/admin-login" {
				t.Errorf("expected redirect to /admin-login, got %q", w.Header().Get("Location"))
			}
		})
	}
}
