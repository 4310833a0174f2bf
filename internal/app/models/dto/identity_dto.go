package dto

import (
	"time"

	"github.com/danuarta/siswalink/internal/app/models"
)

// ResolveRequest carries the caller's resolution options
type ResolveRequest struct {
	// DryRun makes the resolution strictly read-only: no profile creation,
	// no link write, no bootstrap.
	DryRun bool `json:"dryRun"`
}

// StudentResponse mirrors the student record in API responses
type StudentResponse struct {
	ID              string  `json:"id" example:"0b54c9e2-7d6a-4a41-9a53-6c2f3a9b1f20"`
	NIS             string  `json:"nis" example:"2023100245"`
	FullName        string  `json:"fullName" example:"Budi Santoso"`
	Gender          string  `json:"gender,omitempty" example:"L"`
	ClassName       string  `json:"className,omitempty" example:"XII RPL 1"`
	Status          string  `json:"status" example:"ACTIVE"`
	LinkedAccountID *string `json:"linkedAccountId,omitempty" example:"d0a7f1de-ec4b-4a9f-8df3-52d0a4f6c111"`
}

// ResolutionResponse reports the outcome of a resolve call
type ResolutionResponse struct {
	Student  StudentResponse `json:"student"`
	Strategy string          `json:"strategy" example:"nis-match"`
	Linked   bool            `json:"linked" example:"true"`
}

// LinkRequest carries a manual link performed by an administrator
type LinkRequest struct {
	AccountID string `json:"accountId" binding:"required"`
}

// OrphanListResponse lists unlinked records for the admin review queue
type OrphanListResponse struct {
	Students []StudentResponse `json:"students"`
	Total    int               `json:"total" example:"3"`
}

// ProfileResponse mirrors the account profile in API responses
type ProfileResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName" example:"Budi Santoso"`
	NIS       *string   `json:"nis,omitempty" example:"2023100245"`
	Role      string    `json:"role" example:"STUDENT"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapProfileToResponse converts a profile model to its response DTO
func MapProfileToResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		FullName:  p.FullName,
		NIS:       p.NIS,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
	}
}

// MapStudentToResponse converts a student model to its response DTO
func MapStudentToResponse(s *models.Student) StudentResponse {
	return StudentResponse{
		ID:              s.ID,
		NIS:             s.NIS,
		FullName:        s.FullName,
		Gender:          string(s.Gender),
		ClassName:       s.ClassName,
		Status:          string(s.Status),
		LinkedAccountID: s.LinkedAccountID,
	}
}
