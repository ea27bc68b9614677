package routing

import (
	"net/http"
	"os"
	"time"

	"campus-forum/internal/handlers"
	"campus-forum/internal/managers"
	"campus-forum/internal/middleware"
	"campus-forum/internal/schemas"
	"campus-forum/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRouter(databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router)
	// Setup routes
	setupRoutes(router, databaseMgr, mailMgr, jwtMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{utils.ClientBaseURL()},
		AllowMethods:  []string{"GET", "PATCH", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept, Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Correlation-ID"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
	})
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		apiVersion := os.Getenv("API_VERSION")
		if apiVersion == "" {
			apiVersion = "main:latest"
		}
		metadata := &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    "Campus Forum",
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		// Ping the database
		if err := databaseMgr.GetPool().Ping(c); err != nil {
			c.String(http.StatusInternalServerError, "Database not responding")
			return
		}
		c.Status(http.StatusOK)
	})

	// Set up API routes
	apiRouter := router.Group("/api")
	{
		// Set up user routes
		userRouter := apiRouter.Group("/users")
		userHdl := handlers.NewUserHandler(&databaseMgr, &jwtMgr, &mailMgr)
		userRoutes(userRouter, userHdl, jwtMgr)

		// Set up question routes
		questionRouter := apiRouter.Group("/questions")
		questionHdl := handlers.NewQuestionHandler(&databaseMgr)
		answerHdl := handlers.NewAnswerHandler(&databaseMgr)
		// The own-questions route lives outside the questions group so it does
		// not collide with the question id parameter
		apiRouter.GET("/my-questions", jwtMgr.JWTMiddleware(), questionHdl.GetMyQuestions)
		questionRoutes(questionRouter, questionHdl, answerHdl, jwtMgr)

		// Set up answer routes
		answerRouter := apiRouter.Group("/answers")
		answerRouter.Use(jwtMgr.JWTMiddleware())
		answerRoutes(answerRouter, answerHdl)

		// Set up notification routes
		notificationRouter := apiRouter.Group("/notifications")
		notificationRouter.Use(jwtMgr.JWTMiddleware())
		notificationHdl := handlers.NewNotificationHandler(&databaseMgr)
		notificationRoutes(notificationRouter, notificationHdl)

		// Set up campus and department routes
		campusRouter := apiRouter.Group("/campus")
		campusHdl := handlers.NewCampusHandler(&databaseMgr)
		campusRoutes(campusRouter, campusHdl, questionHdl, jwtMgr)

		departmentRouter := apiRouter.Group("/departments")
		departmentHdl := handlers.NewDepartmentHandler(&databaseMgr)
		departmentRoutes(departmentRouter, departmentHdl, questionHdl, jwtMgr)

		// Set up moderation routes
		adminRouter := apiRouter.Group("/admin")
		adminRouter.Use(jwtMgr.JWTMiddleware(), middleware.RequireAdmin())
		adminRouter.DELETE("/questions/:questionId", questionHdl.AdminDeleteQuestion)
	}
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl, jwtMgr managers.JWTMgr) {
	userRouter.POST("/register", userHdl.RegisterUser)
	userRouter.POST("/login", userHdl.LoginUser)
	userRouter.POST("/forgot-password", userHdl.ForgotPassword)
	userRouter.POST("/reset-password", userHdl.ResetPassword)
	// The following routes require the user to be authenticated
	userRouter.Use(jwtMgr.JWTMiddleware())
	userRouter.GET("/check-user", userHdl.CheckUser)
}

func questionRoutes(questionRouter *gin.RouterGroup, questionHdl handlers.QuestionHdl, answerHdl handlers.AnswerHdl, jwtMgr managers.JWTMgr) {
	questionRouter.GET("", questionHdl.GetQuestions)
	questionRouter.GET("/:questionId", questionHdl.GetQuestionById)
	// The following routes require the user to be authenticated
	questionRouter.Use(jwtMgr.JWTMiddleware())
	questionRouter.GET("/:questionId/answers", answerHdl.GetAnswersByQuestion)
	questionRouter.POST("", questionHdl.CreateQuestion)
	questionRouter.PUT("/:questionId", questionHdl.EditQuestion)
	questionRouter.DELETE("/:questionId", questionHdl.DeleteQuestion)
}

func answerRoutes(answerRouter *gin.RouterGroup, answerHdl handlers.AnswerHdl) {
	answerRouter.POST("", answerHdl.CreateAnswer)
	answerRouter.POST("/vote", answerHdl.ToggleVote)
	answerRouter.PUT("/:answerId", answerHdl.EditAnswer)
	answerRouter.DELETE("/:answerId", answerHdl.DeleteAnswer)
}

func notificationRoutes(notificationRouter *gin.RouterGroup, notificationHdl handlers.NotificationHdl) {
	notificationRouter.GET("", notificationHdl.GetNotifications)
	notificationRouter.PUT("/read", notificationHdl.MarkAllNotificationsRead)
	notificationRouter.PUT("/read/:notificationId", notificationHdl.MarkNotificationRead)
	notificationRouter.DELETE("", notificationHdl.ClearNotifications)
}

func campusRoutes(campusRouter *gin.RouterGroup, campusHdl handlers.CampusHdl, questionHdl handlers.QuestionHdl, jwtMgr managers.JWTMgr) {
	campusRouter.GET("", campusHdl.GetCampuses)
	campusRouter.GET("/:campusId/questions", questionHdl.GetQuestionsByCampus)
	// The following routes require an authenticated admin
	campusRouter.Use(jwtMgr.JWTMiddleware(), middleware.RequireAdmin())
	campusRouter.POST("", campusHdl.CreateCampus)
	campusRouter.PUT("/:campusId", campusHdl.UpdateCampus)
	campusRouter.DELETE("/:campusId", campusHdl.DeleteCampus)
}

func departmentRoutes(departmentRouter *gin.RouterGroup, departmentHdl handlers.DepartmentHdl, questionHdl handlers.QuestionHdl, jwtMgr managers.JWTMgr) {
	departmentRouter.GET("", departmentHdl.GetDepartments)
	departmentRouter.GET("/:departmentId/questions", questionHdl.GetQuestionsByDepartment)
	// The following routes require an authenticated admin
	departmentRouter.Use(jwtMgr.JWTMiddleware(), middleware.RequireAdmin())
	departmentRouter.POST("", departmentHdl.CreateDepartment)
	departmentRouter.PUT("/:departmentId", departmentHdl.UpdateDepartment)
	departmentRouter.DELETE("/:departmentId", departmentHdl.DeleteDepartment)
}
