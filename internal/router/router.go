package router

import (
	"net/http"
	"time"

	"github.com/classbridge/classbridge-backend/internal/config"
	"github.com/classbridge/classbridge-backend/internal/handler"
	"github.com/classbridge/classbridge-backend/internal/middleware"
	"github.com/classbridge/classbridge-backend/internal/model"
	"github.com/classbridge/classbridge-backend/internal/response"
	"github.com/classbridge/classbridge-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Classroom    *handler.ClassroomHandler
	Assignment   *handler.AssignmentHandler
	Submission   *handler.SubmissionHandler
	Attendance   *handler.AttendanceHandler
	Notification *handler.NotificationHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
		auth.PUT("/password", middleware.RequireAuth(authService), handlers.Auth.ChangePassword)
	}

	// ─── 2. Admin Group (JWT + Role) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleAdmin),
	)
	{
		adminAPI.POST("/users", handlers.Auth.CreateUser)
	}

	// ─── 3. Classroom Group (JWT) ──────────────────────────────────────
	// Membership and ownership checks live in the services; the role gate
	// here only keeps students off the teaching endpoints.
	classroomAPI := router.Group("/api/v1/classrooms")
	classroomAPI.Use(middleware.RequireAuth(authService))
	{
		classroomAPI.GET("", handlers.Classroom.ListClassrooms)
		classroomAPI.GET("/:id", handlers.Classroom.GetClassroom)

		teaching := classroomAPI.Group("")
		teaching.Use(middleware.RequireRole(model.RoleTeacher, model.RoleAdmin))
		{
			teaching.POST("", handlers.Classroom.CreateClassroom)
			teaching.DELETE("/:id", handlers.Classroom.DeleteClassroom)

			// Membership
			teaching.POST("/:id/students", handlers.Classroom.AddStudent)
			teaching.DELETE("/:id/students/:student_id", handlers.Classroom.RemoveStudent)
			teaching.POST("/:id/teachers", handlers.Classroom.AddTeacher)
			teaching.GET("/:id/roster", handlers.Classroom.GetRoster)

			// Assignment distribution
			teaching.POST("/:id/assignments", handlers.Assignment.CreateAssignment)
			teaching.GET("/:id/assignments", handlers.Assignment.ListAssignments)

			// Attendance and performance
			teaching.POST("/:id/attendance", handlers.Attendance.RecordAttendance)
			teaching.GET("/:id/attendance", handlers.Attendance.AttendanceSheet)
			teaching.POST("/:id/performance", handlers.Attendance.RecordPerformance)
			teaching.GET("/:id/students/:student_id/performance", handlers.Attendance.StudentPerformance)
		}
	}

	// ─── 4. Assignment Group (JWT + Role) ──────────────────────────────
	assignmentAPI := router.Group("/api/v1/assignments")
	assignmentAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
	)
	{
		assignmentAPI.GET("/:assignment_id/submissions", handlers.Assignment.ListSubmissions)
		assignmentAPI.GET("/:assignment_id/reminder-targets", handlers.Assignment.ReminderTargets)
		assignmentAPI.POST("/:assignment_id/reminders", handlers.Assignment.DispatchReminders)
	}

	// ─── 5. Submission Group (JWT + Role) ──────────────────────────────
	submissionAPI := router.Group("/api/v1/submissions")
	submissionAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
	)
	{
		submissionAPI.PUT("/:id/grade", handlers.Submission.Grade)
	}

	// ─── 6. Student Group (JWT + Single Device) ────────────────────────
	// Students address assignments by id; the submission row is resolved
	// server-side from the (assignment, student) pair.
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleStudent),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/assignments", handlers.Assignment.MyAssignments)
		studentAPI.POST("/assignments/:assignment_id/submit", handlers.Submission.Submit)
		studentAPI.GET("/performance", handlers.Attendance.MyPerformance)
	}

	// ─── 7. Notifications (JWT) ────────────────────────────────────────
	notificationAPI := router.Group("/api/v1/notifications")
	notificationAPI.Use(middleware.RequireAuth(authService))
	{
		notificationAPI.GET("", handlers.Notification.ListNotifications)
		notificationAPI.PUT("/:id/read", handlers.Notification.MarkNotificationRead)
	}

	return router
}
