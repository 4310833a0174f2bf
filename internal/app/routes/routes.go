package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danuarta/siswalink/internal/app/controllers"
	"github.com/danuarta/siswalink/internal/app/models"
	"github.com/danuarta/siswalink/internal/app/models/dto"
	"github.com/danuarta/siswalink/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	identityController *controllers.IdentityController,
	studentController *controllers.StudentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewMessageResponse("ok"))
	})

	// API version group
	v1 := router.Group("/api/v1")

	// All v1 routes require a token from the SSO provider
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		identityRoutes := authenticated.Group("/identity")
		{
			identityRoutes.POST("/resolve", identityController.Resolve)
			identityRoutes.GET("/me", identityController.Me)
			identityRoutes.GET("/profile", identityController.Profile)
		}

		// Administrative surface: student-affairs staff only
		students := authenticated.Group("/students")
		students.Use(authMiddleware.RoleRequired(
			string(models.RoleAdmin),
			string(models.RoleHomeroom),
			string(models.RoleCounselor),
		))
		{
			students.GET("/orphans", studentController.GetOrphans)
			students.GET("/:id", studentController.GetStudentByID)
			students.POST("/:id/link", studentController.LinkStudent)
		}
	}
}
