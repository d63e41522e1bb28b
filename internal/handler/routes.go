package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skillhub-io/skillhub-api/internal/middleware"
	"github.com/skillhub-io/skillhub-api/internal/models"
	"github.com/skillhub-io/skillhub-api/internal/service"
)

// Handlers aggregates every HTTP handler for route registration.
type Handlers struct {
	Auth          *AuthHandler
	Applications  *ApplicationHandler
	Courses       *CourseHandler
	Purchases     *PurchaseHandler
	Progress      *ProgressHandler
	Certificates  *CertificateHandler
	PasswordReset *PasswordResetHandler
	Chat          *ChatHandler
	Metrics       *MetricsHandler
}

// RegisterRoutes mounts the API surface under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authService *service.AuthService, cookieName string) {
	requireAuth := middleware.JWT(authService, cookieName)
	optionalAuth := middleware.OptionalJWT(authService, cookieName)
	requireInstructor := middleware.RequireRoles(models.RoleInstructor)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", requireAuth, h.Auth.Profile)
		auth.PUT("/me", requireAuth, h.Auth.UpdateProfile)
	}

	reset := api.Group("/password-reset")
	{
		reset.POST("", h.PasswordReset.Request)
		reset.GET("/:token", h.PasswordReset.Verify)
		reset.POST("/:token", h.PasswordReset.Reset)
	}

	applications := api.Group("/instructor-applications")
	{
		applications.POST("", requireAuth, h.Applications.Submit)
		applications.GET("/status", h.Applications.Status)
		applications.POST("/confirm", h.Applications.Confirm)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.List)
		courses.GET("/search", h.Courses.Search)
		courses.GET("/mine", requireAuth, requireInstructor, h.Courses.Mine)
		courses.GET("/:id", optionalAuth, h.Courses.Detail)
		courses.GET("/:id/lectures", h.Courses.Lectures)
		courses.POST("", requireAuth, requireInstructor, h.Courses.Create)
		courses.PUT("/:id", requireAuth, requireInstructor, h.Courses.Update)
	}

	purchases := api.Group("/purchases", requireAuth)
	{
		purchases.POST("", h.Purchases.Checkout)
		purchases.POST("/:id/complete", h.Purchases.Complete)
		purchases.GET("/my-courses", h.Purchases.MyCourses)
	}

	progress := api.Group("/progress", requireAuth)
	{
		progress.GET("/:courseId", h.Progress.Summary)
		progress.POST("/:courseId/lectures", h.Progress.MarkLectureViewed)
		progress.PUT("/:courseId/complete", h.Progress.SetCompleted)
	}

	certificates := api.Group("/certificates")
	{
		certificates.GET("/validate/:number", h.Certificates.Validate)
		certificates.POST("/:courseId/generate", requireAuth, h.Certificates.Generate)
	}

	chat := api.Group("/chat", requireAuth)
	{
		chat.POST("", h.Chat.Send)
		chat.GET("/welcome", h.Chat.Welcome)
		chat.GET("/history", h.Chat.History)
		chat.DELETE("", h.Chat.Reset)
	}

	r.GET("/metrics", h.Metrics.Prometheus)
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
}
