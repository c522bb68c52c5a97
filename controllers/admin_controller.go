package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/pesquisa-clima/middleware"
	"github.com/vnkhanh/pesquisa-clima/services"
	"github.com/vnkhanh/pesquisa-clima/utils"
)

const msgBadCredentials = "Usuário ou senha incorretos."

type AdminController struct {
	admins     *services.AdminService
	reports    *services.ReportService
	secret     []byte
	sessionTTL time.Duration
}

func NewAdminController(db *gorm.DB, secret []byte, sessionTTL time.Duration) *AdminController {
	return &AdminController{
		admins:     services.NewAdminService(db),
		reports:    services.NewReportService(db),
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// dashboardChart joins a chart's tallies with the id of its stored image.
type dashboardChart struct {
	ID           string
	QuestionText string
	Tallies      []services.OptionTally
}

// GET /admin-login
func (ac *AdminController) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.html", gin.H{"Error": ""})
}

// POST /admin-login
func (ac *AdminController) Login(c *gin.Context) {
	a, err := ac.admins.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{"Error": msgBadCredentials})
			return
		}
		log.Printf("admin login failed: %v", err)
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{"Error": msgGeneric})
		return
	}

	token, err := utils.GenerateToken(ac.secret, strconv.FormatUint(uint64(a.ID), 10), utils.RoleAdmin, ac.sessionTTL)
	if err != nil {
		log.Printf("issue admin token: %v", err)
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{"Error": msgGeneric})
		return
	}
	middleware.SetSessionCookie(c, middleware.AdminCookie, token, ac.sessionTTL)
	c.Redirect(http.StatusSeeOther, "/admin")
}

// POST /admin-logout
func (ac *AdminController) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, middleware.AdminCookie)
	c.Redirect(http.StatusSeeOther, "/admin-login")
}

// GET /admin
func (ac *AdminController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	rep, err := ac.reports.Report(ctx)
	if err != nil {
		log.Printf("build report: %v", err)
		c.String(http.StatusInternalServerError, msgGeneric)
		return
	}

	refs, err := ac.reports.Publish(ctx, rep)
	if err != nil {
		log.Printf("publish charts: %v", err)
		c.String(http.StatusInternalServerError, msgGeneric)
		return
	}

	chartsView := make([]dashboardChart, len(rep.Charts))
	for i, cd := range rep.Charts {
		chartsView[i] = dashboardChart{ID: refs[i].ID, QuestionText: cd.QuestionText, Tallies: cd.Tallies}
	}

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "admin.html", gin.H{
		"Averages":             rep.Averages,
		"Questions":            rep.Questions,
		"Rows":                 rep.Rows,
		"Charts":               chartsView,
		"ResponseCount":        len(rep.Rows),
		"TotalRespondents":     rep.TotalRespondents,
		"CompletedRespondents": rep.CompletedRespondents,
	})
}

// GET /admin/chart/:chartId
func (ac *AdminController) Chart(c *gin.Context) {
	png, err := ac.reports.Chart(c.Request.Context(), c.Param("chartId"))
	if errors.Is(err, services.ErrChartNotFound) {
		c.String(http.StatusNotFound, "Gráfico não encontrado")
		return
	}
	if err != nil {
		log.Printf("load chart %s: %v", c.Param("chartId"), err)
		c.String(http.StatusInternalServerError, msgGeneric)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
