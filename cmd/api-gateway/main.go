package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/doc-vault-api/api/swagger"
	"github.com/noah-isme/doc-vault-api/internal/classifier"
	"github.com/noah-isme/doc-vault-api/internal/handler"
	"github.com/noah-isme/doc-vault-api/internal/middleware"
	"github.com/noah-isme/doc-vault-api/internal/models"
	"github.com/noah-isme/doc-vault-api/internal/repository"
	"github.com/noah-isme/doc-vault-api/internal/service"
	"github.com/noah-isme/doc-vault-api/pkg/cache"
	"github.com/noah-isme/doc-vault-api/pkg/config"
	"github.com/noah-isme/doc-vault-api/pkg/database"
	"github.com/noah-isme/doc-vault-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/doc-vault-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/doc-vault-api/pkg/middleware/requestid"
	"github.com/noah-isme/doc-vault-api/pkg/storage"
)

// @title Doc Vault API
// @version 0.1.0
// @description Document ingestion, classification and metadata service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck

	blobs, err := newStorage(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage", "error", err)
	}

	signer := storage.NewDownloadSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)
	validate := validator.New()

	fileRepo := repository.NewFileRepository(db)
	optionRepo := repository.NewOptionRepository(db)

	optionSvc := service.NewOptionService(optionRepo, cacheRepo, logr, cfg.Options.CacheTTL, models.DefaultClassificationOptions)
	fileSvc := service.NewFileService(fileRepo, blobs, optionSvc, newClassifier(cfg, logr), signer, validate, logr, service.FileServiceConfig{
		MaxFileSize: cfg.Storage.MaxFileSize,
		APIPrefix:   cfg.APIPrefix,
	})
	exportSvc := service.NewExportService(fileSvc)
	metricsSvc := service.NewMetricsService()

	fileHandler := handler.NewFileHandler(fileSvc, exportSvc, metricsSvc)
	optionHandler := handler.NewOptionHandler(optionSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Owner(cfg.Uploads.OwnerHeader, cfg.Uploads.DefaultOwnerID))
	api.POST("/upload/", fileHandler.Upload)
	api.GET("/files/", fileHandler.List)
	api.PATCH("/files/", fileHandler.UpdateClassification)
	api.DELETE("/files/", fileHandler.Delete)
	api.GET("/files/export", fileHandler.Export)
	api.GET("/files/:id/download-url", fileHandler.DownloadURL)
	api.GET("/files/:id/download", fileHandler.Download)
	api.GET("/classification-options/", optionHandler.List)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env,
		"storage_driver", cfg.Storage.Driver, "classifier", cfg.Classifier.Kind)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newStorage(cfg *config.Config) (service.BlobStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewS3Storage(ctx, cfg.Storage)
	default:
		return storage.NewLocalStorage(cfg.Storage.Root)
	}
}

func newClassifier(cfg *config.Config, logr *zap.Logger) classifier.Classifier {
	switch cfg.Classifier.Kind {
	case config.ClassifierRules:
		return classifier.NewRuleBased()
	case config.ClassifierModel:
		if cfg.Classifier.OpenAIAPIKey == "" {
			logr.Warn("model classifier selected without api key, falling back to random")
			break
		}
		return classifier.NewModelBased(cfg.Classifier)
	}
	seed := cfg.Classifier.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return classifier.NewRandomChoice(rand.NewSource(seed))
}
