package models

import "time"

// PurchaseStatus tracks the lifecycle of a course purchase.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// Purchase represents one user's purchase of one course.
type Purchase struct {
	ID         string         `db:"id" json:"id"`
	UserID     string         `db:"user_id" json:"user_id"`
	CourseID   string         `db:"course_id" json:"course_id"`
	Amount     float64        `db:"amount" json:"amount"`
	Status     PurchaseStatus `db:"status" json:"status"`
	PaymentRef string         `db:"payment_ref" json:"payment_ref,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// PurchasedCourse joins a completed purchase with its course for listings.
type PurchasedCourse struct {
	Purchase
	CourseTitle  string  `db:"course_title" json:"course_title"`
	Category     string  `db:"category" json:"category"`
	ThumbnailURL string  `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	Price        float64 `db:"price" json:"price"`
}

// CourseDetailWithStatus pairs a course with the caller's purchase state.
type CourseDetailWithStatus struct {
	Course    Course `json:"course"`
	Purchased bool   `json:"purchased"`
}
