package api

import (
	"net/http"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/metrics"
	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the HTTP-only settings.
type RouterConfig struct {
	AllowedOrigins []string
	SecureCookies  bool
	RateLimiter    RequestRateLimiter // nil disables rate limiting
	RateLimits     RateLimits
	Metrics        *metrics.Instrumentation
	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the engine with the shared middleware chain and every route.
func NewRouter(cfg RouterConfig, services service.Services) *gin.Engine {
	router := gin.New()
	router.Use(
		PanicRecovery(cfg.Metrics),
		RequestLogger(),
		RequestMetrics(cfg.Metrics),
		CORSMiddleware(cfg.AllowedOrigins),
	)
	SetupRoutes(router, cfg, services)
	return router
}

func SetupRoutes(router *gin.Engine, cfg RouterConfig, services service.Services) {
	authHandler := NewAuthHandler(services.Auth, cfg.SecureCookies)
	gymHandler := NewGymHandler(services.Gyms)
	trainerHandler := NewTrainerHandler(services.Trainers)
	traineeHandler := NewTraineeHandler(services.Trainees)
	programHandler := NewProgramHandler(services.Programs)
	exerciseHandler := NewExerciseHandler(services.Exercises)
	sessionHandler := NewSessionHandler(services.Sessions)
	logHandler := NewExerciseLogHandler(services.ExerciseLogs)
	healthHandler := NewHealthMetricHandler(services.Health)
	analyticsHandler := NewAnalyticsHandler(services.Analytics)
	dashboardHandler := NewDashboardHandler(services.Dashboard)

	authMiddleware := AuthMiddleware(services.Auth)
	authLimit := RateLimit(cfg.RateLimiter, cfg.Metrics, RateClassAuth, cfg.RateLimits[RateClassAuth])
	limitByMethod := ClassifyRequest(cfg.RateLimiter, cfg.Metrics, cfg.RateLimits)
	elevated := RoleMiddleware(domain.RoleAdmin, domain.RoleTrainer)
	adminOnly := RoleMiddleware(domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authLimit, authHandler.Register)
			authGroup.POST("/login/access-token", authLimit, authHandler.Login)
			authGroup.POST("/refresh", authLimit, authHandler.Refresh)
			authGroup.GET("/me", authMiddleware, limitByMethod, authHandler.Me)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware, limitByMethod)
	{
		protected.PUT("/accounts/:id/role", adminOnly, authHandler.ChangeRole)

		gyms := protected.Group("/gyms")
		{
			gyms.GET("", gymHandler.ListGyms)
			gyms.GET("/:id", gymHandler.GetGym)
			gyms.POST("", adminOnly, gymHandler.CreateGym)
			gyms.PUT("/:id", adminOnly, gymHandler.UpdateGym)
			gyms.DELETE("/:id", adminOnly, gymHandler.DeleteGym)
		}

		trainers := protected.Group("/trainers")
		{
			trainers.GET("", trainerHandler.ListTrainers)
			trainers.GET("/:id", trainerHandler.GetTrainer)
			trainers.POST("", adminOnly, trainerHandler.CreateTrainer)
			// Ownership of the profile is checked by the service.
			trainers.PUT("/:id", elevated, trainerHandler.UpdateTrainer)
			trainers.DELETE("/:id", adminOnly, trainerHandler.DeleteTrainer)
		}

		trainees := protected.Group("/trainees")
		{
			trainees.GET("", traineeHandler.ListTrainees)
			trainees.GET("/:id", traineeHandler.GetTrainee)
			trainees.POST("", elevated, traineeHandler.CreateTrainee)
			trainees.PUT("/:id", traineeHandler.UpdateTrainee)
			trainees.PUT("/:id/assign-program/:programId", elevated, traineeHandler.AssignProgram)
			trainees.DELETE("/:id", adminOnly, traineeHandler.DeleteTrainee)
		}

		programs := protected.Group("/programs")
		{
			programs.GET("", programHandler.ListPrograms)
			programs.GET("/:id", programHandler.GetProgram)
			programs.GET("/:id/exercises", programHandler.ListProgramExercises)
			programs.POST("", elevated, programHandler.CreateProgram)
			programs.PUT("/:id", elevated, programHandler.UpdateProgram)
			programs.DELETE("/:id", elevated, programHandler.DeleteProgram)
		}

		programExercises := protected.Group("/program-exercises")
		{
			programExercises.GET("", programHandler.ListProgramExercisesByQuery)
			programExercises.GET("/:id", programHandler.GetProgramExercise)
			programExercises.POST("", elevated, programHandler.AddProgramExercise)
			programExercises.PUT("/:id", elevated, programHandler.UpdateProgramExercise)
			programExercises.DELETE("/:id", elevated, programHandler.DeleteProgramExercise)
		}

		exercises := protected.Group("/exercises")
		{
			exercises.GET("", exerciseHandler.ListExercises)
			exercises.GET("/:id", exerciseHandler.GetExercise)
			exercises.POST("", elevated, exerciseHandler.CreateExercise)
			exercises.PUT("/:id", elevated, exerciseHandler.UpdateExercise)
			exercises.DELETE("/:id", elevated, exerciseHandler.DeleteExercise)
			exercises.POST("/:id/video-upload-url", elevated, exerciseHandler.RequestVideoUpload)
			exercises.PUT("/:id/video", elevated, exerciseHandler.ConfirmVideo)
		}

		sessions := protected.Group("/workout-sessions")
		{
			sessions.GET("", sessionHandler.ListSessions)
			sessions.POST("", sessionHandler.ScheduleSession)
			sessions.POST("/start", sessionHandler.StartSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.PUT("/:id/begin", sessionHandler.BeginSession)
			sessions.POST("/:id/log-exercise", sessionHandler.LogExercise)
			sessions.PUT("/:id/end", sessionHandler.EndSession)
			sessions.POST("/:id/auto-complete", sessionHandler.AutoCompleteSession)
		}

		logs := protected.Group("/exercise-logs")
		{
			logs.GET("", logHandler.ListExerciseLogs)
			logs.GET("/:id", logHandler.GetExerciseLog)
			logs.PUT("/:id", logHandler.UpdateExerciseLog)
			logs.DELETE("/:id", logHandler.DeleteExerciseLog)
		}

		health := protected.Group("/health-metrics")
		{
			health.GET("/me", healthHandler.ListMyHealthMetrics)
			health.GET("", healthHandler.ListHealthMetrics)
			health.POST("", healthHandler.RecordHealthMetric)
			health.GET("/:id", healthHandler.GetHealthMetric)
			health.PUT("/:id", healthHandler.UpdateHealthMetric)
			health.DELETE("/:id", healthHandler.DeleteHealthMetric)
		}

		analytics := protected.Group("/analytics")
		{
			for _, scope := range []*gin.RouterGroup{analytics.Group("/me"), analytics.Group("/trainees/:id")} {
				scope.GET("/exercise-frequency", analyticsHandler.ExerciseFrequency)
				scope.GET("/top-exercises", analyticsHandler.TopExercises)
				scope.GET("/volume-trend", analyticsHandler.VolumeTrend)
				scope.GET("/personal-records", analyticsHandler.PersonalRecords)
				scope.GET("/summary", analyticsHandler.Summary)
			}
		}

		dashboard := protected.Group("/trainer-dashboard/me", elevated)
		{
			dashboard.GET("/clients", dashboardHandler.ListClients)
			dashboard.GET("/clients/:id/progress", dashboardHandler.ClientProgress)
			dashboard.GET("/dashboard-stats", dashboardHandler.DashboardStats)
		}
	}
}
