package main

import (
	"context"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"chronolens/config"
	"chronolens/controller"
	"chronolens/database"
	"chronolens/gemini"
	"chronolens/quota"
	"chronolens/route"
	"chronolens/scenes"
	"chronolens/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	client, err := database.Connect(cfg.Mongo.URI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}

	stores := &database.Stores{
		Scenes:   database.NewMongoScenes(client, cfg.Mongo.Database),
		Quotas:   database.NewMongoQuotas(client, cfg.Mongo.Database),
		Listings: database.NewMongoListings(client, cfg.Mongo.Database),
		Users:    database.NewMongoUsers(client, cfg.Mongo.Database),
	}

	ctx := context.Background()
	objects, err := storage.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region)
	if err != nil {
		log.Fatal("Failed to build S3 client: ", err)
	}

	var model gemini.Generator
	if cfg.Gemini.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set; render requests will fail until configured")
		model = gemini.Disabled{}
	} else {
		gc, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatal("Failed to connect to the image model: ", err)
		}
		defer gc.Close()
		model = gc
	}

	tracker := quota.NewTracker(stores.Quotas, cfg.Location)
	service := scenes.NewService(cfg, stores, objects, model, tracker)
	handler := controller.New(cfg, stores, service, tracker)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return strings.HasPrefix(origin, "http://localhost:") ||
				strings.HasPrefix(origin, "http://127.0.0.1:") ||
				strings.HasPrefix(origin, "https://")
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	route.Unprotected(router, handler, cfg)
	route.Protected(router, handler, cfg)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
