package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danuarta/siswalink/internal/app/identity"
	"github.com/danuarta/siswalink/internal/app/models/dto"
	"github.com/danuarta/siswalink/internal/app/services"
	"github.com/danuarta/siswalink/internal/middleware"
)

// IdentityController handles account-to-student resolution endpoints
type IdentityController struct {
	identityService services.IdentityService
}

// NewIdentityController creates a new identity controller
func NewIdentityController(identityService services.IdentityService) *IdentityController {
	return &IdentityController{
		identityService: identityService,
	}
}

func mapResolution(res *identity.Resolution) dto.ResolutionResponse {
	return dto.ResolutionResponse{
		Student:  dto.MapStudentToResponse(res.Student),
		Strategy: res.Strategy,
		Linked:   res.Linked,
	}
}

// Resolve links the authenticated account to its student record
func (c *IdentityController) Resolve(ctx *gin.Context) {
	account, ok := middleware.AccountFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	// Body is optional; an empty body means a normal persisted resolution.
	var req dto.ResolveRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
			errorDetail = errorDetail.WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	res, err := c.identityService.Resolve(ctx.Request.Context(), account, req.DryRun)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(mapResolution(res)))
}

// Me returns the student record for the authenticated account without
// performing any writes
func (c *IdentityController) Me(ctx *gin.Context) {
	account, ok := middleware.AccountFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	res, err := c.identityService.Resolve(ctx.Request.Context(), account, true)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(mapResolution(res)))
}

// Profile returns the stored profile for the authenticated account
func (c *IdentityController) Profile(ctx *gin.Context) {
	account, ok := middleware.AccountFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.identityService.Profile(ctx.Request.Context(), account.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MapProfileToResponse(profile)))
}
