package models

import (
	"fmt"
	"time"
)

// ApplicationStatus is a label, not a workflow: any status may be set from
// any other via an explicit update.
type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "APPLIED"
	StatusUnderReview  ApplicationStatus = "UNDER_REVIEW"
	StatusInterviewing ApplicationStatus = "INTERVIEWING"
	StatusOffer        ApplicationStatus = "OFFER"
	StatusRejected     ApplicationStatus = "REJECTED"
	StatusWithdrawn    ApplicationStatus = "WITHDRAWN"
	StatusAccepted     ApplicationStatus = "ACCEPTED"
)

// ParseApplicationStatus validates a status label from user input.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch ApplicationStatus(s) {
	case StatusApplied, StatusUnderReview, StatusInterviewing,
		StatusOffer, StatusRejected, StatusWithdrawn, StatusAccepted:
		return ApplicationStatus(s), nil
	}
	return "", fmt.Errorf("unknown application status: %q", s)
}

// Application is a user's claim on a Job. (UserEmail, JobID) is unique:
// one application per user per job.
type Application struct {
	ID        int64             `db:"id" json:"id"`
	JobID     int64             `db:"job_id" json:"jobId"`
	UserEmail string            `db:"user_email" json:"userEmail"`
	Status    ApplicationStatus `db:"status" json:"status"`
	AppliedAt time.Time         `db:"applied_at" json:"appliedAt"`
	Notes     *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time         `db:"updated_at" json:"updatedAt"`
}
