package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillhub-io/skillhub-api/internal/models"
)

const courseColumns = `id, title, subtitle, description, category, level, price, thumbnail_url, published, creator_id, created_at, updated_at`

// CourseRepository provides database access for courses and lectures.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, title, subtitle, description, category, level, price, thumbnail_url, published, creator_id, created_at, updated_at) VALUES (:id, :title, :subtitle, :description, :category, :level, :price, :thumbnail_url, :published, :creator_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1 LIMIT 1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// Update persists mutable course fields.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = :title, subtitle = :subtitle, description = :description, category = :category, level = :level, price = :price, thumbnail_url = :thumbnail_url, published = :published, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// ListPublished returns all published courses, newest first.
func (r *CourseRepository) ListPublished(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE published = TRUE ORDER BY created_at DESC`, courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list published courses: %w", err)
	}
	return courses, nil
}

// ListByCreator returns all courses authored by one instructor.
func (r *CourseRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE creator_id = $1 ORDER BY created_at DESC`, courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, creatorID); err != nil {
		return nil, fmt.Errorf("list courses by creator: %w", err)
	}
	return courses, nil
}

// Search filters the published catalog by free text, categories and price sort.
func (r *CourseRepository) Search(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	baseQuery := `FROM courses WHERE published = TRUE`
	var conditions []string
	var args []interface{}

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(subtitle) LIKE $%d OR LOWER(category) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, 0, len(filter.Categories))
		for _, cat := range filter.Categories {
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, cat)
		}
		conditions = append(conditions, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ", ")))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	order := "created_at DESC"
	switch strings.ToLower(filter.SortByPrice) {
	case "low":
		order = "price ASC"
	case "high":
		order = "price DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", courseColumns, baseQuery, order, pageSize, offset)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("search courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// ListLectures returns a course's lectures in display order.
func (r *CourseRepository) ListLectures(ctx context.Context, courseID string) ([]models.Lecture, error) {
	const query = `SELECT id, course_id, title, video_url, preview, position, created_at FROM lectures WHERE course_id = $1 ORDER BY position ASC`
	var lectures []models.Lecture
	if err := r.db.SelectContext(ctx, &lectures, query, courseID); err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	return lectures, nil
}
