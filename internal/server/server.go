package server

import (
	"time"

	"ems-portal/config"
	"ems-portal/internal/database"
	"ems-portal/internal/handlers"
	"ems-portal/internal/middleware"
	"ems-portal/internal/notify"
	"ems-portal/internal/recruitment"
	"ems-portal/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server represents the HTTP server
type Server struct {
	Router     *gin.Engine
	config     *config.Config
	logger     *zap.Logger
	jwtService *auth.JWTService
	db         *gorm.DB

	// Handlers
	jobHandler          *handlers.JobHandler
	candidateHandler    *handlers.CandidateHandler
	departmentHandler   *handlers.DepartmentHandler
	employeeHandler     *handlers.EmployeeHandler
	attendanceHandler   *handlers.AttendanceHandler
	leaveHandler        *handlers.LeaveHandler
	payrollHandler      *handlers.PayrollHandler
	announcementHandler *handlers.AnnouncementHandler
	notificationHandler *handlers.NotificationHandler
	dashboardHandler    *handlers.DashboardHandler
}

// New creates a new server instance
func New(cfg *config.Config, logger *zap.Logger) *Server {
	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	jwtService := auth.NewJWTService(cfg)

	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := database.DB

	// Recruitment pipeline services
	notifier := notify.NewService(db, logger)
	parser := recruitment.NewTextResumeParser()
	submission := recruitment.NewSubmissionService(db, parser, notifier, logger).
		WithParseTimeout(cfg.Upload.ParseTimeout)
	workflow := recruitment.NewWorkflow(db, notifier, logger)

	server := &Server{
		Router:              router,
		config:              cfg,
		logger:              logger,
		jwtService:          jwtService,
		db:                  db,
		jobHandler:          handlers.NewJobHandler(db, logger),
		candidateHandler:    handlers.NewCandidateHandler(db, logger, cfg, submission, workflow),
		departmentHandler:   handlers.NewDepartmentHandler(db, logger),
		employeeHandler:     handlers.NewEmployeeHandler(db, logger),
		attendanceHandler:   handlers.NewAttendanceHandler(db, logger),
		leaveHandler:        handlers.NewLeaveHandler(db, logger, notifier),
		payrollHandler:      handlers.NewPayrollHandler(db, logger, notifier),
		announcementHandler: handlers.NewAnnouncementHandler(db, logger, notifier),
		notificationHandler: handlers.NewNotificationHandler(db, logger),
		dashboardHandler:    handlers.NewDashboardHandler(db, logger),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.Router.Use(middleware.RequestIDMiddleware())
	s.Router.Use(middleware.RecoveryMiddleware(s.logger))
	s.Router.Use(middleware.SecurityHeadersMiddleware())

	s.Router.Use(middleware.CORSMiddleware(
		s.config.CORS.Origins,
		s.config.CORS.Credentials,
	))

	rateLimiter := middleware.NewRateLimit(
		s.config.RateLimit.Requests,
		time.Duration(s.config.RateLimit.Window)*time.Second,
	)
	s.Router.Use(middleware.RateLimitMiddleware(rateLimiter, s.logger))

	s.Router.Use(middleware.LoggingMiddleware(s.logger))
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	// Health check endpoints
	s.Router.GET("/health", s.healthCheck)
	s.Router.HEAD("/health", s.healthCheck)
	s.Router.GET("/ready", s.readinessCheck)
	s.Router.HEAD("/ready", s.readinessCheck)

	// Swagger documentation
	if s.config.IsDevelopment() {
		s.Router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := s.Router.Group("/api/v1")
	{
		// Public routes. Applicants can browse open roles and submit a
		// resume without an account; a valid token links the submission.
		public := v1.Group("")
		public.Use(middleware.OptionalAuth(s.jwtService))
		{
			public.GET("/jobs", s.jobHandler.ListJobs)
			public.GET("/jobs/:id", s.jobHandler.GetJob)
			public.POST("/candidates", s.candidateHandler.SubmitCandidate)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(s.jwtService))
		{
			// Recruitment routes
			jobs := protected.Group("/jobs")
			jobs.Use(middleware.RequireHROrAdmin())
			{
				jobs.POST("", s.jobHandler.CreateJob)
				jobs.PUT("/:id", s.jobHandler.UpdateJob)
				jobs.DELETE("/:id", s.jobHandler.DeleteJob)
			}

			candidates := protected.Group("/candidates")
			{
				candidates.GET("/mine", s.candidateHandler.ListMyApplications)
				candidates.GET("/:id", s.candidateHandler.GetCandidate)
				candidates.GET("", middleware.RequireHROrAdmin(), s.candidateHandler.ListCandidates)
				candidates.PATCH("/:id/status", middleware.RequireHROrAdmin(), s.candidateHandler.UpdateCandidateStatus)
				candidates.DELETE("/:id", middleware.RequireHROrAdmin(), s.candidateHandler.DeleteCandidate)
			}

			// Department routes
			departments := protected.Group("/departments")
			{
				departments.GET("", s.departmentHandler.ListDepartments)
				departments.GET("/:id", s.departmentHandler.GetDepartment)
				departments.POST("", middleware.RequireHROrAdmin(), s.departmentHandler.CreateDepartment)
				departments.PUT("/:id", middleware.RequireHROrAdmin(), s.departmentHandler.UpdateDepartment)
				departments.DELETE("/:id", middleware.RequireAdmin(), s.departmentHandler.DeleteDepartment)
			}

			// Employee routes
			employees := protected.Group("/employees")
			{
				employees.GET("", middleware.RequireHROrAdmin(), s.employeeHandler.ListEmployees)
				employees.GET("/:id", s.employeeHandler.GetEmployee)
				employees.POST("", middleware.RequireHROrAdmin(), s.employeeHandler.CreateEmployee)
				employees.PUT("/:id", middleware.RequireHROrAdmin(), s.employeeHandler.UpdateEmployee)
			}

			// Attendance routes
			attendance := protected.Group("/attendance")
			{
				attendance.GET("", s.attendanceHandler.ListAttendance)
				attendance.POST("/clock-in", s.attendanceHandler.ClockIn)
				attendance.POST("/clock-out", s.attendanceHandler.ClockOut)
			}

			// Leave routes
			leaves := protected.Group("/leaves")
			{
				leaves.GET("", s.leaveHandler.ListLeaves)
				leaves.POST("", s.leaveHandler.RequestLeave)
				leaves.PUT("/:id/decision", middleware.RequireHROrAdmin(), s.leaveHandler.DecideLeave)
			}

			// Payroll routes
			payroll := protected.Group("/payroll")
			{
				payroll.GET("", s.payrollHandler.ListPayroll)
				payroll.POST("", middleware.RequireAdmin(), s.payrollHandler.CreatePayroll)
				payroll.PUT("/:id", middleware.RequireAdmin(), s.payrollHandler.UpdatePayroll)
			}

			// Announcement routes
			announcements := protected.Group("/announcements")
			{
				announcements.GET("", s.announcementHandler.ListAnnouncements)
				announcements.POST("", middleware.RequireHROrAdmin(), s.announcementHandler.CreateAnnouncement)
				announcements.DELETE("/:id", middleware.RequireHROrAdmin(), s.announcementHandler.DeleteAnnouncement)
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", s.notificationHandler.ListNotifications)
				notifications.PUT("/:id/read", s.notificationHandler.MarkNotificationRead)
				notifications.PUT("/read-all", s.notificationHandler.MarkAllNotificationsRead)
			}

			// Dashboard
			protected.GET("/dashboard", middleware.RequireHROrAdmin(), s.dashboardHandler.GetDashboard)
		}
	}
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
		"service":   "ems-portal-api",
	})
}

// readinessCheck handles readiness check requests
// @Summary Readiness check
// @Description Check if the service is ready to serve requests
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (s *Server) readinessCheck(c *gin.Context) {
	if err := database.IsHealthy(); err != nil {
		s.logger.Error("Database health check failed", zap.Error(err))
		c.JSON(503, gin.H{
			"status":    "not ready",
			"timestamp": time.Now().UTC(),
			"error":     "Database connection failed",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
		"service":   "ems-portal-api",
		"checks": gin.H{
			"database": "healthy",
		},
		"stats": database.GetStats(),
	})
}
