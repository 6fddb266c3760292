// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "CampusCred-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"CampusCred-backend/internal/auth"
	"CampusCred-backend/internal/controller/admin"
	"CampusCred-backend/internal/controller/analytics"
	"CampusCred-backend/internal/controller/matching"
	"CampusCred-backend/internal/controller/posting"
	"CampusCred-backend/internal/controller/student"
	"CampusCred-backend/internal/middleware"
	"CampusCred-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	postingController := posting.NewPostingController(s.DB)
	studentController := student.NewStudentController(s.DB)
	matchController := matching.NewMatchController(s.DB)
	adminController := admin.NewAdminController(s.DB)
	analyticsController := analytics.NewAnalyticsController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Enable cookies/auth
	}))

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(middleware.EnvRateLimitMiddleware())
			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		// Any routes
		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			postingRoute := needAuth.Group("/posting")
			{
				postingRoute.GET("", postingController.GetOpenPostingsHandler)
				postingRoute.GET(":id", postingController.GetPostingHandler)
			}

			studentRoute := needAuth.Group("/student")
			{
				studentRoute.Use(middleware.CheckRole(model.RoleStudent))
				studentRoute.GET("profile", studentController.GetProfileHandler)
				studentRoute.PATCH("profile", studentController.EditProfileHandler)
				studentRoute.POST("internship", studentController.AddInternshipHandler)
				studentRoute.GET("insight", studentController.GetInsightHandler)
				studentRoute.POST("posting/:id/apply", postingController.ApplyHandler)
			}

			recruiterRoute := needAuth.Group("/recruiter")
			{
				recruiterRoute.Use(middleware.CheckRole(model.RoleRecruiter))
				recruiterRoute.POST("posting", postingController.CreatePostingHandler)
				recruiterRoute.GET("posting", postingController.GetMyPostingsHandler)
				recruiterRoute.PATCH("posting/:id", postingController.EditPostingHandler)
				recruiterRoute.POST("posting/:id/submit", postingController.SubmitPostingHandler)
				recruiterRoute.POST("posting/:id/close", postingController.ClosePostingHandler)
				recruiterRoute.GET("posting/:id/applicants", postingController.ListApplicantsHandler)
				recruiterRoute.PATCH("posting/:id/applicants/:student_id", postingController.UpdateApplicantStatusHandler)
			}

			matchRoute := needAuth.Group("/match")
			{
				matchRoute.Use(middleware.CheckRole(model.RoleRecruiter, model.RoleAdmin))
				matchRoute.POST("score", matchController.ScoreHandler)
				matchRoute.POST("eligibility", matchController.EligibilityHandler)
				matchRoute.GET("posting/:id", matchController.PostingMatchHandler)
			}

			adminRoute := needAuth.Group("/admin")
			{
				adminRoute.Use(middleware.CheckRole(model.RoleAdmin))
				adminRoute.GET("posting", adminController.GetPostingsHandler)
				adminRoute.POST("posting/:id/approve", adminController.ApprovePostingHandler)
				adminRoute.POST("posting/:id/reject", adminController.RejectPostingHandler)
				adminRoute.POST("posting/:id/request-changes", adminController.RequestChangesHandler)
				adminRoute.GET("posting/:id/review", adminController.ReviewPostingHandler)
				adminRoute.GET("stats", adminController.ApprovalStatsHandler)
				adminRoute.POST("recruiter", adminController.CreateRecruiterHandler)
				adminRoute.GET("analytics/conversion", analyticsController.ConversionHandler)
				adminRoute.GET("analytics/skill-gaps", analyticsController.SkillGapsHandler)
				adminRoute.GET("analytics/cohort-insight", analyticsController.CohortInsightHandler)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *Server) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
