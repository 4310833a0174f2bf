package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danuarta/siswalink/internal/app/models/dto"
	"github.com/danuarta/siswalink/internal/app/services"
	"github.com/danuarta/siswalink/internal/middleware"
)

// StudentController handles administrative student endpoints
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new student controller
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// GetStudentByID retrieves a student record by ID
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id := ctx.Param("id")

	student, err := c.studentService.GetStudentByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MapStudentToResponse(student)))
}

// GetOrphans lists student records with no linked account
func (c *StudentController) GetOrphans(ctx *gin.Context) {
	orphans, err := c.studentService.ListOrphans(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.OrphanListResponse{
		Students: make([]dto.StudentResponse, 0, len(orphans)),
		Total:    len(orphans),
	}
	for _, s := range orphans {
		resp.Students = append(resp.Students, dto.MapStudentToResponse(s))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// LinkStudent manually links a student record to an account
func (c *StudentController) LinkStudent(ctx *gin.Context) {
	id := ctx.Param("id")

	var req dto.LinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		errorDetail = errorDetail.WithDetails(err.Error()).WithField("accountId")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.LinkStudent(ctx.Request.Context(), id, req.AccountID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MapStudentToResponse(student)))
}
