package models

import "time"

// Student defines the student model based on the 'students' table.
// It is the authoritative record the resolver attaches accounts to.
type Student struct {
	ID              string        `json:"id" db:"id"`
	NIS             string        `json:"nis" db:"nis"`                   // enrollment number, unique natural key
	FullName        string        `json:"fullName" db:"full_name"`
	Gender          Gender        `json:"gender" db:"gender"`
	ClassName       string        `json:"className" db:"class_name"`      // e.g. "XII RPL 1"
	Status          StudentStatus `json:"status" db:"status"`
	Phone           *string       `json:"phone,omitempty" db:"phone"`
	LinkedAccountID *string       `json:"linkedAccountId,omitempty" db:"linked_account_id"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// IsLinked reports whether the record is already attached to an account.
func (s *Student) IsLinked() bool {
	return s.LinkedAccountID != nil && *s.LinkedAccountID != ""
}

// IsLinkedTo reports whether the record is attached to the given account.
func (s *Student) IsLinkedTo(accountID string) bool {
	return s.LinkedAccountID != nil && *s.LinkedAccountID == accountID
}
