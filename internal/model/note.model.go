package model

import "time"

// Note is an uploaded study file shared against a course.
type Note struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
