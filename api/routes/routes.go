package routes

import (
	"github.com/ArowuTest/leadflow-backend/internal/handlers"
	"github.com/ArowuTest/leadflow-backend/internal/metrics"
	"github.com/ArowuTest/leadflow-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandlerDependencies holds every handler the router mounts
type HandlerDependencies struct {
	AuthHandler        *handlers.AuthHandler
	ContactHandler     *handlers.ContactHandler
	SegmentHandler     *handlers.SegmentHandler
	CampaignHandler    *handlers.CampaignHandler
	LandingPageHandler *handlers.LandingPageHandler
	AnalyticsHandler   *handlers.AnalyticsHandler
	CustomFieldHandler *handlers.CustomFieldHandler
	AutomationHandler  *handlers.AutomationHandler
	HealthHandler      *handlers.HealthHandler
}

// Options configures the cross-cutting middleware
type Options struct {
	AllowedOrigins []string
	Production     bool
	Tokens         middleware.TokenVerifier
	// RateLimiter guards the public submission endpoint. Nil disables it.
	RateLimiter *middleware.RateLimiter
	Logger      *zap.Logger
}

// SetupRouter sets up the router
func SetupRouter(opts Options, deps HandlerDependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(opts.Logger, opts.Production))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(opts.Logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	health := router.Group("/health")
	{
		health.GET("", deps.HealthHandler.Health)
		health.GET("/detailed", deps.HealthHandler.Detailed)
		health.GET("/ready", deps.HealthHandler.Ready)
		health.GET("/live", deps.HealthHandler.Live)
	}

	// Public routes
	public := router.Group("/api")
	{
		public.POST("/auth/login", deps.AuthHandler.Login)
		public.GET("/landing-pages/slug/:slug", deps.LandingPageHandler.GetPublished)
		public.POST("/landing-pages/:id/submit",
			opts.RateLimiter.Middleware("submit"),
			deps.LandingPageHandler.Submit,
		)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware(opts.Tokens, opts.Logger))
	{
		protected.GET("/auth/me", deps.AuthHandler.Me)

		contacts := protected.Group("/contacts")
		{
			contacts.GET("", deps.ContactHandler.ListContacts)
			contacts.POST("", deps.ContactHandler.CreateContact)
			contacts.POST("/import", deps.ContactHandler.ImportContacts)
			contacts.POST("/bulk-tag", deps.ContactHandler.BulkTag)
			contacts.POST("/send-email", deps.ContactHandler.SendEmail)
			contacts.GET("/:id", deps.ContactHandler.GetContact)
			contacts.PUT("/:id", deps.ContactHandler.UpdateContact)
			contacts.DELETE("/:id", deps.ContactHandler.DeleteContact)
		}

		segments := protected.Group("/segments")
		{
			segments.GET("", deps.SegmentHandler.ListSegments)
			segments.POST("", deps.SegmentHandler.CreateSegment)
			segments.POST("/preview", deps.SegmentHandler.Preview)
			segments.GET("/:id", deps.SegmentHandler.GetSegment)
			segments.PUT("/:id", deps.SegmentHandler.UpdateSegment)
			segments.DELETE("/:id", deps.SegmentHandler.DeleteSegment)
			segments.GET("/:id/contacts", deps.SegmentHandler.SegmentContacts)
		}

		campaigns := protected.Group("/campaigns")
		{
			campaigns.GET("", deps.CampaignHandler.ListCampaigns)
			campaigns.POST("", deps.CampaignHandler.CreateCampaign)
			campaigns.POST("/test/send", deps.CampaignHandler.TestSend)
			campaigns.GET("/:id", deps.CampaignHandler.GetCampaign)
			campaigns.PUT("/:id", deps.CampaignHandler.UpdateCampaign)
			campaigns.DELETE("/:id", deps.CampaignHandler.DeleteCampaign)
			campaigns.POST("/:id/send", deps.CampaignHandler.SendCampaign)
			campaigns.GET("/:id/stats", deps.CampaignHandler.CampaignStats)
		}

		pages := protected.Group("/landing-pages")
		{
			pages.GET("", deps.LandingPageHandler.ListPages)
			pages.POST("", deps.LandingPageHandler.CreatePage)
			pages.GET("/:id", deps.LandingPageHandler.GetPage)
			pages.PUT("/:id", deps.LandingPageHandler.UpdatePage)
			pages.DELETE("/:id", deps.LandingPageHandler.DeletePage)
		}

		analytics := protected.Group("/analytics")
		{
			analytics.GET("/dashboard", deps.AnalyticsHandler.Dashboard)
			analytics.GET("/reports", deps.AnalyticsHandler.Reports)
		}

		fields := protected.Group("/custom-fields")
		{
			fields.GET("", deps.CustomFieldHandler.ListFields)
			fields.POST("", deps.CustomFieldHandler.CreateField)
			fields.GET("/:id", deps.CustomFieldHandler.GetField)
			fields.PUT("/:id", deps.CustomFieldHandler.UpdateField)
			fields.DELETE("/:id", deps.CustomFieldHandler.DeleteField)
		}

		automations := protected.Group("/automations")
		{
			automations.GET("", deps.AutomationHandler.ListAutomations)
			automations.POST("", deps.AutomationHandler.CreateAutomation)
			automations.GET("/:id", deps.AutomationHandler.GetAutomation)
			automations.PUT("/:id", deps.AutomationHandler.UpdateAutomation)
			automations.DELETE("/:id", deps.AutomationHandler.DeleteAutomation)
		}
	}

	return router
}
