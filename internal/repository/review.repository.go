package repository

import (
	"context"
	"time"

	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reviewColumns = `id, course_id, user_id, rating, comment, created_at`

type ReviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func scanReview(row pgx.Row) (model.Review, error) {
	var rv model.Review
	if err := row.Scan(&rv.ID, &rv.CourseID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
		return model.Review{}, mapError(err)
	}
	return rv, nil
}

func (r *ReviewRepository) ListByCourse(ctx context.Context, courseID string) ([]model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE course_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return reviews, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(r.db.QueryRow(ctx, query, id))
}

// Create relies on the (course_id, user_id) unique index; a second review by
// the same user is ErrConflict.
func (r *ReviewRepository) Create(ctx context.Context, review model.Review) (model.Review, error) {
	review.ID = uuid.NewString()
	review.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO reviews (id, course_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.CourseID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		return model.Review{}, mapError(err)
	}
	return review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id))
}
