package repository

import (
	"context"
	"time"

	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const courseColumns = `id, code, title, university, description, created_by, created_at, updated_at`

type CourseRepository struct {
	db DBTX
}

func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row) (model.Course, error) {
	var c model.Course
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Title,
		&c.University,
		&c.Description,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return model.Course{}, mapError(err)
	}
	return c, nil
}

// List returns courses ordered by code. An empty search matches everything;
// otherwise code and title are matched case-insensitively.
func (r *CourseRepository) List(ctx context.Context, search string) ([]model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE $1 = '' OR code ILIKE '%' || $1 || '%' OR title ILIKE '%' || $1 || '%'
		ORDER BY code`
	rows, err := r.db.Query(ctx, query, search)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return courses, nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	return scanCourse(r.db.QueryRow(ctx, query, id))
}

func (r *CourseRepository) Create(ctx context.Context, course model.Course) (model.Course, error) {
	now := time.Now().UTC()
	course.ID = uuid.NewString()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `
		INSERT INTO courses (id, code, title, university, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		course.ID,
		course.Code,
		course.Title,
		course.University,
		course.Description,
		course.CreatedBy,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return model.Course{}, mapError(err)
	}
	return course, nil
}

func (r *CourseRepository) Update(ctx context.Context, course model.Course) (model.Course, error) {
	query := `
		UPDATE courses
		SET code = $1, title = $2, university = $3, description = $4, updated_at = now()
		WHERE id = $5
		RETURNING ` + courseColumns
	return scanCourse(r.db.QueryRow(ctx, query,
		course.Code,
		course.Title,
		course.University,
		course.Description,
		course.ID,
	))
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id))
}
