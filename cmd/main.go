package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/pesquisa-clima/config"
	"github.com/vnkhanh/pesquisa-clima/routes"
	"github.com/vnkhanh/pesquisa-clima/seed"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Kết nối DB + AutoMigrate
	if err := config.ConnectDB(settings); err != nil {
		log.Fatalf("database: %v", err)
	}

	if settings.SeedFile != "" {
		file, err := seed.Load(settings.SeedFile)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		if err := seed.Apply(context.Background(), config.DB, file); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("Seed applied from %s", settings.SeedFile)
	}

	r := gin.Default()

	if len(settings.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     settings.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	if err := routes.SetupRoutes(r, config.DB, routes.Options{
		SessionSecret: []byte(settings.SessionSecret),
		SessionTTL:    settings.SessionTTL,
	}); err != nil {
		log.Fatalf("setup routes: %v", err)
	}

	log.Printf("Server listening on port %s\n", settings.Port)
	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
