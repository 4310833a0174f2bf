package models

// RoleType defines the role carried by an account profile
type RoleType string

const (
	RoleStudent   RoleType = "STUDENT"
	RoleHomeroom  RoleType = "HOMEROOM_TEACHER"
	RoleCounselor RoleType = "COUNSELOR"
	RoleAdmin     RoleType = "ADMIN"
)

// DefaultRole is assigned when a profile is created lazily and nothing
// better is known about the account. It is the least privileged role.
const DefaultRole = RoleStudent

// Gender uses the L/P convention found on Indonesian school records
type Gender string

const (
	GenderMale   Gender = "L"
	GenderFemale Gender = "P"
)

// StudentStatus defines the enrollment state of a student record
type StudentStatus string

const (
	StatusActive      StudentStatus = "ACTIVE"
	StatusGraduated   StudentStatus = "GRADUATED"
	StatusTransferred StudentStatus = "TRANSFERRED"
	StatusDropped     StudentStatus = "DROPPED"
)
