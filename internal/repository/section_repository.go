package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tessera-api/internal/models"
)

const sectionColumns = "id, course_id, section_number, instructor, days, start_time, end_time, created_at, updated_at"

// SectionRepository manages persistence for course sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns sections, optionally restricted to one course.
func (r *SectionRepository) List(ctx context.Context, filter models.SectionFilter) ([]models.Section, error) {
	query := "SELECT " + sectionColumns + " FROM sections"
	var args []interface{}
	if filter.CourseID != "" {
		query += " WHERE course_id = $1"
		args = append(args, filter.CourseID)
	}
	query += " ORDER BY course_id, section_number, id"

	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// FindByID fetches a section by ID.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.Section, error) {
	query := "SELECT " + sectionColumns + " FROM sections WHERE id = $1"
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// ListDetailsByCourseIDs returns every section of the given courses joined
// with course data, ordered by course code, section number and id.
func (r *SectionRepository) ListDetailsByCourseIDs(ctx context.Context, courseIDs []string) ([]models.SectionDetail, error) {
	if len(courseIDs) == 0 {
		return []models.SectionDetail{}, nil
	}
	const query = `SELECT s.id, s.course_id, s.section_number, s.instructor, s.days, s.start_time, s.end_time, s.created_at, s.updated_at,
		c.code AS course_code, c.title AS course_title, c.credits
		FROM sections s
		JOIN courses c ON c.id = s.course_id
		WHERE s.course_id = ANY($1)
		ORDER BY c.code, s.section_number, s.id`

	var details []models.SectionDetail
	if err := r.db.SelectContext(ctx, &details, query, pq.Array(courseIDs)); err != nil {
		return nil, fmt.Errorf("list section details: %w", err)
	}
	return details, nil
}

// Create inserts a new section.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if section.CreatedAt.IsZero() {
		section.CreatedAt = now
	}
	section.UpdatedAt = now

	const query = `INSERT INTO sections (id, course_id, section_number, instructor, days, start_time, end_time, created_at, updated_at)
		VALUES (:id, :course_id, :section_number, :instructor, :days, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Update modifies an existing section.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	section.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sections SET course_id = :course_id, section_number = :section_number, instructor = :instructor,
		days = :days, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// Delete removes a section.
func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
