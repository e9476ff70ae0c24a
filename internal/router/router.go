package router

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shoppingmall/internal/authz"
	"github.com/shoppingmall/internal/cache"
	"github.com/shoppingmall/internal/config"
	"github.com/shoppingmall/internal/constants"
	adminhandlers "github.com/shoppingmall/internal/http/handlers/admin"
	publichandlers "github.com/shoppingmall/internal/http/handlers/public"
	"github.com/shoppingmall/internal/http/response"
	"github.com/shoppingmall/internal/logger"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	loginLimiter := RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("name"))
	captchaRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:captcha", redisPrefix),
		WindowSeconds: cfg.Security.CaptchaRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CaptchaRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.CaptchaRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}
	captchaLimiter := RateLimitMiddleware(cache.Client(), captchaRule, KeyByIP)
	requireUser := UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserAuthService)
	optionalUser := OptionalUserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserAuthService)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 本地存储的上传文件
	if storageProvider := strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)); storageProvider == "" || storageProvider == constants.StorageProviderLocal {
		r.Static(localURLPrefix(cfg.Storage), localDir(cfg.Storage))
	}

	apiV1 := r.Group("/api/v1")
	{
		// 认证
		apiV1.POST("/login", loginLimiter, publicHandler.UserLogin)
		apiV1.POST("/register", loginLimiter, publicHandler.UserRegister)
		apiV1.GET("/captcha/image", captchaLimiter, publicHandler.GetImageCaptcha)

		// 用户公开信息
		users := apiV1.Group("/users")
		{
			users.GET("/:id", publicHandler.GetUser)
			users.GET("/:id/posts", publicHandler.GetUserPosts)
			users.GET("/:id/fans", publicHandler.GetUserFans)
			users.GET("/:id/subscriptions", publicHandler.GetUserSubscriptions)
		}

		// 当前用户（需鉴权）
		me := apiV1.Group("/me")
		me.Use(requireUser)
		{
			me.GET("", publicHandler.GetMe)
			me.PUT("/profile", publicHandler.UpdateMyProfile)
			me.POST("/icon", publicHandler.UploadMyIcon)
			me.PUT("/password", publicHandler.ChangeUserPassword)
			me.POST("/logout", publicHandler.UserLogout)
			me.DELETE("", publicHandler.DeleteMe)
			me.GET("/login-logs", publicHandler.GetMyLoginLogs)

			me.POST("/follows/:user_id", publicHandler.FollowUser)
			me.DELETE("/follows/:user_id", publicHandler.UnfollowUser)

			me.GET("/addresses", publicHandler.GetMyAddresses)
			me.GET("/addresses/default", publicHandler.GetMyDefaultAddress)
			me.POST("/addresses", publicHandler.CreateMyAddress)
			me.PUT("/addresses/:id", publicHandler.UpdateMyAddress)
			me.DELETE("/addresses/:id", publicHandler.DeleteMyAddress)

			me.GET("/orders", publicHandler.GetMyOrders)
			me.GET("/orders/:id", publicHandler.GetMyOrder)
			me.POST("/orders", publicHandler.CreateMyOrder)
			me.PATCH("/orders/:id", publicHandler.UpdateMyOrderStatus)
			me.DELETE("/orders/:id", publicHandler.DeleteMyOrder)

			me.GET("/cart", publicHandler.GetCart)
			me.POST("/cart/items", publicHandler.UpsertCartItem)
			me.DELETE("/cart/items/:variant_id", publicHandler.RemoveCartItem)

			me.GET("/favorites", publicHandler.GetMyFavorites)
			me.POST("/favorites", publicHandler.AddMyFavorite)
			me.DELETE("/favorites/:product_id", publicHandler.RemoveMyFavorite)

			me.GET("/posts", publicHandler.GetMyPosts)
			me.GET("/liked-posts", publicHandler.GetMyLikedPosts)
		}

		// 商城
		malls := apiV1.Group("/malls")
		{
			malls.GET("", publicHandler.GetMallProducts)
			malls.GET("/categories", publicHandler.GetMallCategories)
			malls.GET("/categories/:name", publicHandler.GetCategoryProducts)
			malls.GET("/products/:id", publicHandler.GetProductDetail)
			malls.GET("/ads", publicHandler.GetMallAds)
			malls.POST("/products/comments", requireUser, publicHandler.CreateProductComment)
			malls.POST("/products/comments/:order_id/like", requireUser, publicHandler.LikeProductComment)
		}

		// 社区
		community := apiV1.Group("/community")
		{
			community.GET("/recommend", publicHandler.GetRecommendPosts)
			community.GET("/posts/:id", optionalUser, publicHandler.GetPostDetail)

			authed := community.Group("")
			authed.Use(requireUser)
			{
				authed.GET("/subscribe", publicHandler.GetSubscribedPosts)
				authed.POST("/posts", publicHandler.CreatePost)
				authed.PUT("/posts/:id", publicHandler.UpdatePost)
				authed.DELETE("/posts/:id", publicHandler.DeletePost)
				authed.POST("/posts/comments", publicHandler.CreatePostComment)
				authed.DELETE("/posts/comments/:id", publicHandler.DeletePostComment)
				authed.POST("/posts/like", publicHandler.LikePost)
				authed.DELETE("/posts/:id/like", publicHandler.UnlikePost)
			}
		}

		// 管理端（JWT + RBAC）
		admin := apiV1.Group("/admin")
		admin.Use(requireUser, AdminRBACMiddleware(c.AuthzService))
		{
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.DELETE("/categories/:name", adminHandler.DeleteCategory)

			admin.GET("/products", adminHandler.GetAdminProducts)
			admin.GET("/products/:id", adminHandler.GetAdminProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			admin.POST("/products/:id/variants", adminHandler.CreateVariant)
			admin.PUT("/variants/:id", adminHandler.UpdateVariant)
			admin.DELETE("/variants/:id", adminHandler.DeleteVariant)

			admin.POST("/products/:id/images", adminHandler.UploadProductImage)
			admin.DELETE("/products/:id/images/:order_number", adminHandler.DeleteProductImage)

			admin.POST("/ads", adminHandler.CreateAd)
			admin.DELETE("/ads/:id", adminHandler.DeleteAd)

			admin.GET("/orders", adminHandler.GetAdminOrders)
			admin.PATCH("/orders/:id", adminHandler.UpdateOrderStatus)

			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.GET("/authz/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r, c.AuthzService))
			})
			admin.GET("/users/:id/roles", adminHandler.GetUserRoles)
			admin.PUT("/users/:id/roles", adminHandler.SetUserRoles)

			admin.GET("/login-logs", adminHandler.GetUserLoginLogs)
		}
	}

	// 健康检查
	r.GET("/health", healthHandler)

	return r
}

func localURLPrefix(cfg config.StorageConfig) string {
	prefix := strings.TrimRight(strings.TrimSpace(cfg.LocalURLPrefix), "/")
	if prefix == "" {
		return "/uploads"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func localDir(cfg config.StorageConfig) string {
	dir := strings.TrimSpace(cfg.LocalDir)
	if dir == "" {
		return "./uploads"
	}
	return dir
}

func healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	checks := gin.H{"database": "ok", "redis": "ok"}
	if models.DB == nil {
		status = "degraded"
		checks["database"] = "unavailable"
	} else if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status = "degraded"
		checks["database"] = "unavailable"
	}
	if err := cache.Ping(ctx); err != nil {
		status = "degraded"
		checks["redis"] = "unavailable"
	}
	c.JSON(200, gin.H{"status": status, "checks": checks})
}

type adminPermissionCatalogItem struct {
	Module     string   `json:"module"`
	Method     string   `json:"method"`
	Object     string   `json:"object"`
	Permission string   `json:"permission"`
	Roles      []string `json:"roles"`
}

// buildAdminPermissionCatalog 从已注册路由中提取管理端权限点，并标注可访问的预置角色
func buildAdminPermissionCatalog(engine *gin.Engine, authzService *authz.Service) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
			Roles:      rolesAllowedOn(authzService, object, method),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func rolesAllowedOn(authzService *authz.Service, object, method string) []string {
	roles := []string{}
	if authzService == nil {
		return roles
	}
	for _, seed := range authz.BuiltinRoleSeeds() {
		allowed, err := authzService.Enforce(seed.Role, object, method)
		if err != nil {
			logger.Warnw("authz_catalog_enforce_failed", "role", seed.Role, "object", object, "error", err)
			continue
		}
		if allowed {
			roles = append(roles, seed.Role)
		}
	}
	sort.Strings(roles)
	return roles
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	switch segments[1] {
	case "authz", "users":
		return "authz"
	case "variants":
		return "products"
	}
	return segments[1]
}
