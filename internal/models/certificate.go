package models

import "time"

// CertificateStatus tracks validity of an issued certificate.
type CertificateStatus string

const (
	CertificateGenerated CertificateStatus = "generated"
	CertificateRevoked   CertificateStatus = "revoked"
)

// Certificate represents a completion certificate. The row is created lazily
// on the first generation request and is stable across repeated requests;
// only the PDF bytes are re-rendered.
type Certificate struct {
	ID                string            `db:"id" json:"id"`
	UserID            string            `db:"user_id" json:"user_id"`
	CourseID          string            `db:"course_id" json:"course_id"`
	CompletionDate    time.Time         `db:"completion_date" json:"completion_date"`
	CertificateNumber string            `db:"certificate_number" json:"certificate_number"`
	Status            CertificateStatus `db:"status" json:"status"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time         `db:"updated_at" json:"updated_at"`
}

// CertificateSummary is the public validation view of a certificate.
type CertificateSummary struct {
	CertificateNumber string            `json:"certificate_number"`
	RecipientName     string            `json:"recipient_name"`
	CourseTitle       string            `json:"course_title"`
	CompletionDate    time.Time         `json:"completion_date"`
	Status            CertificateStatus `json:"status"`
}
