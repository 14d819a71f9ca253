package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PT-GSA/ai-cms-backend/internal/config"
	"github.com/PT-GSA/ai-cms-backend/internal/handler"
	"github.com/PT-GSA/ai-cms-backend/internal/middleware"
	"github.com/PT-GSA/ai-cms-backend/internal/migration"
	"github.com/PT-GSA/ai-cms-backend/internal/repository"
	"github.com/PT-GSA/ai-cms-backend/internal/routes"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
	pkgcache "github.com/PT-GSA/ai-cms-backend/pkg/cache"
	"github.com/PT-GSA/ai-cms-backend/pkg/jwt"
	pkglogger "github.com/PT-GSA/ai-cms-backend/pkg/logger"
	pkgredis "github.com/PT-GSA/ai-cms-backend/pkg/redis"
	pkgstorage "github.com/PT-GSA/ai-cms-backend/pkg/storage"
)

// @title           AI CMS Backend API
// @version         1.0
// @description     Headless CMS backend with content versioning, rollback and full-text search
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.GetLogger().Info().Str("host", cfg.Database.Host).Msg("connected to postgres")

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	redisClient := initRedis(cfg)

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	}

	s3Client := initStorage(cfg)

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Repositories
	typeRepo := repository.NewContentTypeRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	userRepo := repository.NewUserRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)
	searchRepo := repository.NewSearchRepository(db)

	// Services
	typeSvc := service.NewContentTypeService(typeRepo)
	entrySvc := service.NewEntryService(entryRepo, relationRepo, typeSvc, cacheService)
	versionSvc := service.NewVersionService(versionRepo, entryRepo, userRepo, cacheService)
	mediaSvc := service.NewMediaService(mediaRepo, s3Client)
	relationSvc := service.NewRelationService(relationRepo, entryRepo, typeRepo)
	searchSvc := service.NewSearchService(searchRepo, cacheService)
	authSvc := service.NewAuthService(userRepo, jwtManager)
	apiKeySvc := service.NewAPIKeyService(apiKeyRepo)

	// Handlers
	typeHandler := handler.NewContentTypeHandler(typeSvc)
	entryHandler := handler.NewEntryHandler(entrySvc)
	versionHandler := handler.NewVersionHandler(versionSvc)
	mediaHandler := handler.NewMediaHandler(mediaSvc)
	relationHandler := handler.NewRelationHandler(relationSvc)
	searchHandler := handler.NewSearchHandler(searchSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	apiKeyHandler := handler.NewAPIKeyHandler(apiKeySvc)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(corsConfig(cfg)))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if redisClient != nil && cfg.RateLimit.Enabled && !cfg.IsDevelopment() {
		rlCfg := middleware.DefaultRateLimitConfig()
		if cfg.RateLimit.RequestsPerMinute > 0 {
			rlCfg.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		}
		router.Use(middleware.RateLimit(redisClient, rlCfg))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "ai-cms-backend",
			"time":    time.Now().Unix(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(
		router,
		typeHandler,
		entryHandler,
		versionHandler,
		mediaHandler,
		relationHandler,
		searchHandler,
		authHandler,
		apiKeyHandler,
		apiKeySvc,
		jwtManager,
		redisClient,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	client, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("redis unavailable, continuing without cache")
		return nil
	}
	pkglogger.GetLogger().Info().Msg("connected to redis")
	return client
}

func initStorage(cfg *config.Config) *pkgstorage.S3Client {
	if !cfg.Storage.Enabled || cfg.Storage.Bucket == "" {
		return nil
	}
	client, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		CDNURL:          cfg.Storage.CDNURL,
		BasePath:        cfg.Storage.BasePath,
		ForcePathStyle:  cfg.Storage.ForcePathStyle,
	})
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("storage init failed, continuing without uploads")
		return nil
	}
	pkglogger.GetLogger().Info().Str("bucket", cfg.Storage.Bucket).Msg("connected to object storage")
	return client
}

func corsConfig(cfg *config.Config) cors.Config {
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}

	return cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "X-Cache"},
		MaxAge:           86400,
	}
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
