package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/PT-GSA/ai-cms-backend/internal/domain"
	"github.com/PT-GSA/ai-cms-backend/internal/handler"
	"github.com/PT-GSA/ai-cms-backend/internal/middleware"
	"github.com/PT-GSA/ai-cms-backend/internal/service"
	"github.com/PT-GSA/ai-cms-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	contentTypeHandler *handler.ContentTypeHandler,
	entryHandler *handler.EntryHandler,
	versionHandler *handler.VersionHandler,
	mediaHandler *handler.MediaHandler,
	relationHandler *handler.RelationHandler,
	searchHandler *handler.SearchHandler,
	authHandler *handler.AuthHandler,
	apiKeyHandler *handler.APIKeyHandler,
	apiKeys service.APIKeyService,
	jwtManager *jwt.Manager,
	redisClient *redis.Client,
) {
	api := router.Group("/api/v1")

	authRequired := middleware.JWTAuth(jwtManager)
	readAccess := middleware.JWTOrAPIKey(authRequired, middleware.APIKeyAuth(apiKeys, domain.ScopeRead))
	writeAccess := middleware.JWTOrAPIKey(authRequired, middleware.APIKeyAuth(apiKeys, domain.ScopeWrite))

	// Authentication
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", authRequired, authHandler.Me)

	// User management (admin)
	users := api.Group("/users", authRequired, middleware.RequirePermission(domain.PermUsersManage))
	users.GET("", authHandler.ListUsers)
	users.POST("", authHandler.CreateUser)

	// API key management (admin)
	keys := api.Group("/api-keys", authRequired, middleware.RequirePermission(domain.PermKeysManage))
	keys.GET("", apiKeyHandler.ListAPIKeys)
	keys.POST("", apiKeyHandler.CreateAPIKey)
	keys.DELETE("/:id", apiKeyHandler.RevokeAPIKey)

	// Content types
	types := api.Group("/content-types")
	types.GET("", readAccess, contentTypeHandler.ListContentTypes)
	types.GET("/:id", readAccess, contentTypeHandler.GetContentType)
	types.POST("", authRequired, middleware.RequirePermission(domain.PermTypesManage), contentTypeHandler.CreateContentType)
	types.PUT("/:id", authRequired, middleware.RequirePermission(domain.PermTypesManage), contentTypeHandler.UpdateContentType)
	types.DELETE("/:id", authRequired, middleware.RequirePermission(domain.PermTypesManage), contentTypeHandler.DeleteContentType)

	// Entries nested under their content type
	typeEntries := api.Group("/content-types/:id/entries")
	{
		typeEntries.GET("", readAccess, entryHandler.ListEntries)
		typeEntries.POST("", writeAccess, entryHandler.CreateEntry)
		typeEntries.GET("/slug/:slug", readAccess, entryHandler.GetEntryBySlug)
	}

	// Entry operations by ID
	entries := api.Group("/content-entries")
	{
		entries.GET("/:id", readAccess, entryHandler.GetEntry)
		entries.PUT("/:id", writeAccess, entryHandler.UpdateEntry)
		entries.PATCH("/:id/status", writeAccess, entryHandler.SetEntryStatus)
		entries.DELETE("/:id", writeAccess, entryHandler.DeleteEntry)

		// Version history
		versions := entries.Group("/:id/versions")
		{
			versions.GET("", readAccess, versionHandler.ListVersions)
			versions.POST("", writeAccess, versionHandler.CreateCheckpoint)
			versions.GET("/:versionId", readAccess, versionHandler.GetVersion)
			versions.POST("/:versionId", writeAccess, versionHandler.Rollback)
			versions.DELETE("/:versionId", writeAccess, versionHandler.DeleteVersion)
		}
	}

	// Media
	media := api.Group("/media")
	media.GET("", readAccess, mediaHandler.ListMedia)
	media.GET("/:id", readAccess, mediaHandler.GetMedia)
	media.GET("/:id/presigned-url", readAccess, mediaHandler.PresignedURL)
	media.POST("", authRequired, middleware.RequirePermission(domain.PermMediaWrite), mediaHandler.Upload)
	media.PUT("/:id", authRequired, middleware.RequirePermission(domain.PermMediaWrite), mediaHandler.UpdateMedia)
	media.DELETE("/:id", authRequired, middleware.RequirePermission(domain.PermMediaWrite), mediaHandler.DeleteMedia)

	// Relations
	relations := api.Group("/relations")
	relations.GET("", readAccess, relationHandler.ListDefinitions)
	relations.GET("/:id", readAccess, relationHandler.GetDefinition)
	relations.POST("", authRequired, middleware.RequirePermission(domain.PermTypesManage), relationHandler.CreateDefinition)
	relations.DELETE("/:id", authRequired, middleware.RequirePermission(domain.PermTypesManage), relationHandler.DeleteDefinition)
	relations.GET("/:id/entries/:entryId", readAccess, relationHandler.ListTargets)
	relations.GET("/:id/entries/:entryId/sources", readAccess, relationHandler.ListSources)
	relations.PUT("/:id/entries/:entryId", writeAccess, relationHandler.SetRelations)

	// Search (cached for anonymous delivery traffic)
	api.GET("/search", readAccess, middleware.CacheWithTTL(redisClient, middleware.DefaultCacheConfig().TTL), searchHandler.Search)

	// Public delivery surface: API key only, read scope, response-cached.
	// Serves frontend apps that consume published content without a dashboard login.
	public := api.Group("/public", middleware.APIKeyAuth(apiKeys, domain.ScopeRead))
	public.GET("/content-types/:id/entries", entryHandler.ListEntries)
	public.GET("/content-types/:id/entries/slug/:slug", entryHandler.GetEntryBySlug)
	public.GET("/content-entries/:id", middleware.CacheWithTTL(redisClient, middleware.DefaultCacheConfig().TTL), entryHandler.GetEntry)
	public.GET("/search", middleware.CacheWithTTL(redisClient, middleware.DefaultCacheConfig().TTL), searchHandler.Search)
}
