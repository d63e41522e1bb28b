package models

import "time"

// CourseLevel grades the expected audience of a course.
type CourseLevel string

const (
	LevelBeginner CourseLevel = "Beginner"
	LevelMedium   CourseLevel = "Medium"
	LevelAdvanced CourseLevel = "Advanced"
)

// Course represents a marketplace course authored by an instructor.
type Course struct {
	ID           string      `db:"id" json:"id"`
	Title        string      `db:"title" json:"title"`
	Subtitle     string      `db:"subtitle" json:"subtitle,omitempty"`
	Description  string      `db:"description" json:"description,omitempty"`
	Category     string      `db:"category" json:"category"`
	Level        CourseLevel `db:"level" json:"level,omitempty"`
	Price        float64     `db:"price" json:"price"`
	ThumbnailURL string      `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	Published    bool        `db:"published" json:"published"`
	CreatorID    string      `db:"creator_id" json:"creator_id"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// Lecture is a single unit of course content.
type Lecture struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Title     string    `db:"title" json:"title"`
	VideoURL  string    `db:"video_url" json:"video_url,omitempty"`
	Preview   bool      `db:"preview" json:"preview"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateCourseRequest is the payload for authoring a new course.
type CreateCourseRequest struct {
	Title    string `json:"courseTitle" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// UpdateCourseRequest carries editable course fields.
type UpdateCourseRequest struct {
	Title        string   `json:"courseTitle" validate:"omitempty"`
	Subtitle     string   `json:"subtitle"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Level        string   `json:"level" validate:"omitempty,oneof=Beginner Medium Advanced"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Published    *bool    `json:"published"`
}

// CourseFilter captures search criteria for the public catalog.
type CourseFilter struct {
	Query       string
	Categories  []string
	SortByPrice string
	Page        int
	PageSize    int
}
