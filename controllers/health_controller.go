package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthCheck trả về trạng thái service và kết nối DB.
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := gin.H{
			"status":  "ok",
			"message": "Service is healthy",
			"db":      "ok",
		}

		sqlDB, err := db.DB()
		if err != nil {
			response["status"] = "error"
			response["db"] = "error: cannot get DB instance"
			c.JSON(http.StatusInternalServerError, response)
			return
		}

		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			response["status"] = "error"
			response["db"] = "error: cannot connect to DB"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}
