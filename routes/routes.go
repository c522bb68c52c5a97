package routes

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/pesquisa-clima/controllers"
	"github.com/vnkhanh/pesquisa-clima/middleware"
	"github.com/vnkhanh/pesquisa-clima/web"
)

// Options carries what the handlers need besides the database.
type Options struct {
	SessionSecret []byte
	SessionTTL    time.Duration
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, opts Options) error {
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	r.GET("/health", controllers.HealthCheck(db))

	survey := controllers.NewSurveyController(db, opts.SessionSecret)
	r.GET("/", survey.ShowLogin)
	r.POST("/", survey.Login)
	r.GET("/pesquisa-concluida", controllers.ThankYou)

	pesquisa := r.Group("/pesquisa/:id")
	pesquisa.Use(middleware.RequireRespondentSession(opts.SessionSecret))
	{
		pesquisa.GET("", survey.ShowSurvey)
		pesquisa.POST("", survey.SubmitSurvey)
	}

	admin := controllers.NewAdminController(db, opts.SessionSecret, opts.SessionTTL)
	r.GET("/admin-login", admin.ShowLogin)
	r.POST("/admin-login", admin.Login)
	r.POST("/admin-logout", admin.Logout)

	dashboard := r.Group("/admin")
	dashboard.Use(middleware.RequireAdminSession(opts.SessionSecret))
	{
		dashboard.GET("", admin.Dashboard)
		dashboard.GET("/chart/:chartId", admin.Chart)
		dashboard.GET("/export", admin.Export)
	}

	return nil
}
