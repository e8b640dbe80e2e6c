package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/cscore-lms/backend/config"
	"github.com/cscore-lms/backend/database"
	_ "github.com/cscore-lms/backend/docs" // Swagger docs - auto-generated
	"github.com/cscore-lms/backend/internal/attempt"
	adminctrl "github.com/cscore-lms/backend/internal/controller/admin"
	authctrl "github.com/cscore-lms/backend/internal/controller/auth"
	notifctrl "github.com/cscore-lms/backend/internal/controller/notification"
	studentctrl "github.com/cscore-lms/backend/internal/controller/student"
	teacherctrl "github.com/cscore-lms/backend/internal/controller/teacher"
	"github.com/cscore-lms/backend/internal/executor"
	"github.com/cscore-lms/backend/internal/logger"
	"github.com/cscore-lms/backend/internal/middleware"
	"github.com/cscore-lms/backend/internal/model"
	"github.com/cscore-lms/backend/internal/repository"
	"github.com/cscore-lms/backend/internal/service"
)

// @title Course Score LMS API
// @version 1.0
// @description Learning management API with timed attempts, draft answers, sandboxed code execution and automatic grading.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			attempt.NewManager,
			executor.NewClient,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewCourseRepository,
			repository.NewAssignmentRepository,
			repository.NewSubmissionRepository,
			repository.NewAttemptAnswerRepository,
			repository.NewNotificationRepository,
		),

		fx.Provide(
			service.NewAuthService,
			service.NewUserService,
			service.NewNotificationService,
			service.NewCourseService,
			service.NewAssignmentService,
			service.NewGeminiEssayGrader,
			service.NewStudentService,
			service.NewSubmissionService,
		),

		fx.Provide(
			authctrl.NewAuthController,
			adminctrl.NewUserController,
			teacherctrl.NewCourseController,
			teacherctrl.NewAssignmentController,
			studentctrl.NewAttemptController,
			notifctrl.NewNotificationController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	authController *authctrl.AuthController,
	userController *adminctrl.UserController,
	courseController *teacherctrl.CourseController,
	assignmentController *teacherctrl.AssignmentController,
	attemptController *studentctrl.AttemptController,
	notificationController *notifctrl.NotificationController,
) {
	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
	}

	adminGroup := api.Group("/admin", middleware.JWTAuth(authService), middleware.RequireRole(model.RoleAdmin))
	{
		adminGroup.POST("/users", userController.CreateUser)
		adminGroup.GET("/users", userController.ListUsers)
		adminGroup.PUT("/users/:user_id/status", userController.UpdateUserStatus)
	}

	teacherGroup := api.Group("/teacher", middleware.JWTAuth(authService), middleware.RequireRole(model.RoleTeacher, model.RoleAdmin))
	{
		teacherGroup.POST("/courses", courseController.CreateCourse)
		teacherGroup.GET("/courses", courseController.ListMyCourses)
		teacherGroup.PUT("/courses/:course_id", courseController.UpdateCourse)
		teacherGroup.DELETE("/courses/:course_id", courseController.DeleteCourse)
		teacherGroup.POST("/courses/:course_id/students", courseController.EnrollStudent)
		teacherGroup.POST("/courses/:course_id/announcements", notificationController.Announce)

		teacherGroup.POST("/courses/:course_id/assignments", assignmentController.CreateAssignment)
		teacherGroup.GET("/courses/:course_id/assignments", assignmentController.ListCourseAssignments)
		teacherGroup.GET("/assignments/:assignment_id", assignmentController.GetAssignment)
		teacherGroup.PUT("/assignments/:assignment_id", assignmentController.UpdateAssignment)
		teacherGroup.DELETE("/assignments/:assignment_id", assignmentController.DeleteAssignment)
		teacherGroup.POST("/assignments/:assignment_id/questions", assignmentController.AddQuestion)

		teacherGroup.GET("/assignments/:assignment_id/submissions", assignmentController.ListSubmissions)
		teacherGroup.PUT("/submissions/:submission_id/grade", assignmentController.OverrideGrade)
	}

	studentGroup := api.Group("/student", middleware.JWTAuth(authService), middleware.RequireRole(model.RoleStudent))
	{
		studentGroup.GET("/courses", attemptController.ListMyCourses)
		studentGroup.GET("/courses/:course_id/assignments", attemptController.ListCourseAssignments)
		studentGroup.GET("/assignments/:assignment_id", attemptController.GetAssignment)

		studentGroup.POST("/assignments/:assignment_id/attempt", attemptController.StartAttempt)
		studentGroup.PUT("/assignments/:assignment_id/answers", attemptController.SaveAnswer)
		studentGroup.PUT("/assignments/:assignment_id/position", attemptController.SetPosition)
		studentGroup.POST("/assignments/:assignment_id/questions/:question_id/check", attemptController.CheckQuestion)
		studentGroup.POST("/assignments/:assignment_id/questions/:question_id/run", attemptController.RunQuestion)
		studentGroup.POST("/assignments/:assignment_id/submit", attemptController.Submit)

		studentGroup.GET("/assignments/:assignment_id/submissions", attemptController.ListMySubmissions)
		studentGroup.GET("/submissions/:submission_id", attemptController.GetSubmission)
	}

	notificationGroup := api.Group("/notifications", middleware.JWTAuth(authService))
	{
		notificationGroup.GET("", notificationController.ListMyNotifications)
		notificationGroup.GET("/unread-count", notificationController.UnreadCount)
		notificationGroup.GET("/:notification_id", notificationController.GetNotification)
		notificationGroup.PATCH("", notificationController.MarkNotifications)
		notificationGroup.POST("/read-all", notificationController.MarkAllRead)
		notificationGroup.DELETE("/:notification_id", notificationController.DeleteNotification)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("LMS API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Assignment{},
		&model.Question{},
		&model.QuestionOption{},
		&model.TestCase{},
		&model.AttemptAnswer{},
		&model.Submission{},
		&model.QuestionResult{},
		&model.TestCaseResult{},
		&model.Notification{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
