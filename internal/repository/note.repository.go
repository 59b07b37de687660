package repository

import (
	"context"
	"time"

	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const noteColumns = `id, course_id, owner_id, title, description, file_name, file_path, created_at`

type NoteRepository struct {
	db DBTX
}

func NewNoteRepository(db DBTX) *NoteRepository {
	return &NoteRepository{db: db}
}

func scanNote(row pgx.Row) (model.Note, error) {
	var n model.Note
	err := row.Scan(
		&n.ID,
		&n.CourseID,
		&n.OwnerID,
		&n.Title,
		&n.Description,
		&n.FileName,
		&n.FilePath,
		&n.CreatedAt,
	)
	if err != nil {
		return model.Note{}, mapError(err)
	}
	return n, nil
}

// List returns notes newest first, optionally restricted to one course.
func (r *NoteRepository) List(ctx context.Context, courseID string) ([]model.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE $1 = '' OR course_id::text = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return notes, nil
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (model.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	return scanNote(r.db.QueryRow(ctx, query, id))
}

func (r *NoteRepository) Create(ctx context.Context, note model.Note) (model.Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	note.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO notes (id, course_id, owner_id, title, description, file_name, file_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		note.ID,
		note.CourseID,
		note.OwnerID,
		note.Title,
		note.Description,
		note.FileName,
		note.FilePath,
		note.CreatedAt,
	)
	if err != nil {
		return model.Note{}, mapError(err)
	}
	return note, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id))
}
