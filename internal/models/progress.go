package models

import "time"

// CourseProgress records a user's overall completion state for one course.
type CourseProgress struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LectureView marks a single lecture as viewed within a course.
type LectureView struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	LectureID string    `db:"lecture_id" json:"lecture_id"`
	ViewedAt  time.Time `db:"viewed_at" json:"viewed_at"`
}

// ProgressSummary is the per-course progress view returned to clients.
type ProgressSummary struct {
	CourseID       string   `json:"course_id"`
	Completed      bool     `json:"completed"`
	ViewedLectures []string `json:"viewed_lectures"`
}
