package models

import "time"

// ApplicationStatus is the instructor-application state. Transitions go from
// pending to exactly one of approved or rejected and are never reversed.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Decision actions accepted by the confirm step.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// InstructorApplication is an applicant's request for the Instructor role.
type InstructorApplication struct {
	ID             string            `db:"id" json:"id"`
	Name           string            `db:"name" json:"name"`
	Email          string            `db:"email" json:"email"`
	Phone          string            `db:"phone" json:"phone"`
	ExpertiseArea  string            `db:"expertise_area" json:"expertiseArea"`
	Experience     string            `db:"experience" json:"experience"`
	WhyTeach       string            `db:"why_teach" json:"whyTeach"`
	Qualifications string            `db:"qualifications" json:"qualifications"`
	Availability   string            `db:"availability" json:"availability"`
	Status         ApplicationStatus `db:"status" json:"status"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updated_at"`
}

// SubmitApplicationRequest is the applicant profile payload. Every field is
// required; validation reports all missing fields in one message.
type SubmitApplicationRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	ExpertiseArea  string `json:"expertiseArea" validate:"required"`
	Experience     string `json:"experience" validate:"required"`
	WhyTeach       string `json:"whyTeach" validate:"required"`
	Qualifications string `json:"qualifications" validate:"required"`
	Availability   string `json:"availability" validate:"required"`
}

// ApplicationStatusSummary is the public status-check view.
type ApplicationStatusSummary struct {
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Status        ApplicationStatus `json:"status"`
	ExpertiseArea string            `json:"expertiseArea"`
	Experience    string            `json:"experience"`
}

// ConfirmApplicationRequest finalizes a pending application.
type ConfirmApplicationRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
}

// ConfirmApplicationResult reports the decision outcome. EmailSent is
// deliberately separate from the decision itself: a failed notification never
// undoes a recorded decision.
type ConfirmApplicationResult struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Status     ApplicationStatus `json:"status"`
	EmailSent  bool              `json:"email_sent"`
	EmailError string            `json:"email_error,omitempty"`
}
