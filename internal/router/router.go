package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/quizforge/quiz-cms-backend/internal/handler"
	"github.com/quizforge/quiz-cms-backend/internal/middleware"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/response"
	"github.com/quizforge/quiz-cms-backend/internal/service"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Brand        *handler.BrandHandler
	Quiz         *handler.QuizHandler
	Version      *handler.VersionHandler
	Step         *handler.StepHandler
	Field        *handler.FieldHandler
	Option       *handler.OptionHandler
	GroupedInput *handler.GroupedInputHandler
	Media        *handler.MediaHandler
	Submission   *handler.SubmissionHandler
	Public       *handler.PublicHandler
	LayoutWS     *handler.LayoutWSHandler
}

// Limiters are the per-IP rate limiters applied to unauthenticated routes.
// Their cleanup loops are started by the caller.
type Limiters struct {
	Auth   *middleware.RateLimiter
	Public *middleware.RateLimiter
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	limiters *Limiters,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		// The refresh cookie only travels on credentialed requests.
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.Brotli())

	// Uploaded media never changes under a given key.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Public Group (No Auth, Rate Limited) ───────────────────────
	publicAPI := router.Group("/api/v1/public")
	publicAPI.Use(limiters.Public.Middleware())
	{
		publicAPI.GET("/quizzes/:slug", middleware.NoStore(), handlers.Public.GetQuiz)
		publicAPI.POST("/submissions", handlers.Public.Submit)
	}

	// ─── 1. Auth Group (Rate Limited) ──────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(limiters.Auth.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAdminJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. WebSocket Group (Query Token Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/steps/:step_id/layout",
			middleware.RequirePermission(model.PermissionQuizzesRead),
			handlers.LayoutWS.StepLayoutStream,
		)
	}

	// ─── 3. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService), middleware.NoStore())

	readQuizzes := middleware.RequirePermission(model.PermissionQuizzesRead)
	writeQuizzes := middleware.RequirePermission(model.PermissionQuizzesWrite)

	// Brands
	brands := adminAPI.Group("/brands")
	{
		brands.GET("", middleware.RequirePermission(model.PermissionBrandsRead), handlers.Brand.List)
		brands.GET("/:id", middleware.RequirePermission(model.PermissionBrandsRead), handlers.Brand.Get)
		brands.POST("", middleware.RequirePermission(model.PermissionBrandsWrite), handlers.Brand.Create)
		brands.PATCH("/:id", middleware.RequirePermission(model.PermissionBrandsWrite), handlers.Brand.Update)
		brands.DELETE("/:id", middleware.RequirePermission(model.PermissionBrandsWrite), handlers.Brand.Delete)
	}

	// Quizzes
	quizzes := adminAPI.Group("/quizzes")
	{
		quizzes.GET("", readQuizzes, handlers.Quiz.List)
		quizzes.POST("", writeQuizzes, handlers.Quiz.Create)
		quizzes.GET("/:id", readQuizzes, handlers.Quiz.Get)
		quizzes.PATCH("/:id", writeQuizzes, handlers.Quiz.Update)
		quizzes.DELETE("/:id", writeQuizzes, handlers.Quiz.Delete)
		quizzes.POST("/:id/publish", middleware.RequirePermission(model.PermissionQuizzesPublish), handlers.Quiz.Publish)
		quizzes.POST("/:id/archive", middleware.RequirePermission(model.PermissionQuizzesPublish), handlers.Quiz.Archive)
		quizzes.GET("/:id/preview", readQuizzes, handlers.Quiz.Preview)
		quizzes.GET("/:id/versions", readQuizzes, handlers.Version.ListByQuiz)
		quizzes.GET("/:id/submissions",
			middleware.RequirePermission(model.PermissionSubmissionsRead),
			handlers.Submission.ListByQuiz,
		)
	}

	// Versions
	versions := adminAPI.Group("/versions")
	{
		versions.POST("", writeQuizzes, handlers.Version.Create)
		versions.GET("/:id", readQuizzes, handlers.Version.Get)
		versions.PATCH("/:id", writeQuizzes, handlers.Version.Update)
		versions.DELETE("/:id", writeQuizzes, handlers.Version.Delete)
		versions.GET("/:id/steps", readQuizzes, handlers.Step.ListByVersion)
		versions.PUT("/:id/steps/order", writeQuizzes, handlers.Step.Reorder)
	}

	// Steps
	steps := adminAPI.Group("/steps")
	{
		steps.POST("", writeQuizzes, handlers.Step.Create)
		steps.GET("/:id", readQuizzes, handlers.Step.Get)
		steps.PATCH("/:id", writeQuizzes, handlers.Step.Update)
		steps.DELETE("/:id", writeQuizzes, handlers.Step.Delete)
		steps.GET("/:id/fields", readQuizzes, handlers.Field.ListByStep)
		steps.GET("/:id/collisions", readQuizzes, handlers.Step.Collisions)
		steps.POST("/:id/layout/check", readQuizzes, handlers.Step.CheckLayout)
	}

	// Fields
	fields := adminAPI.Group("/fields")
	{
		fields.POST("", writeQuizzes, handlers.Field.Create)
		fields.GET("/:id", readQuizzes, handlers.Field.Get)
		fields.PATCH("/:id", writeQuizzes, handlers.Field.Update)
		fields.PUT("/:id/position", writeQuizzes, handlers.Field.Move)
		fields.DELETE("/:id", writeQuizzes, handlers.Field.Delete)
		fields.GET("/:id/options", readQuizzes, handlers.Option.ListByField)
		fields.GET("/:id/grouped-inputs", readQuizzes, handlers.GroupedInput.ListByField)
	}

	// Options
	options := adminAPI.Group("/options")
	{
		options.POST("", writeQuizzes, handlers.Option.Create)
		options.GET("/:id", readQuizzes, handlers.Option.Get)
		options.PATCH("/:id", writeQuizzes, handlers.Option.Update)
		options.DELETE("/:id", writeQuizzes, handlers.Option.Delete)
	}

	// Grouped inputs
	groupedInputs := adminAPI.Group("/grouped-inputs")
	{
		groupedInputs.POST("", writeQuizzes, handlers.GroupedInput.Create)
		groupedInputs.GET("/:id", readQuizzes, handlers.GroupedInput.Get)
		groupedInputs.PATCH("/:id", writeQuizzes, handlers.GroupedInput.Update)
		groupedInputs.DELETE("/:id", writeQuizzes, handlers.GroupedInput.Delete)
	}

	// Media
	media := adminAPI.Group("/media")
	{
		media.GET("", middleware.RequirePermission(model.PermissionMediaRead), handlers.Media.List)
		media.POST("", middleware.RequirePermission(model.PermissionMediaUpload), handlers.Media.Upload)
		media.DELETE("/:id", middleware.RequirePermission(model.PermissionMediaUpload), handlers.Media.Delete)
	}

	return router
}
