package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/campusconnect-nz/campus-api/internal/repository"
	"github.com/campusconnect-nz/campus-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NoteStore interface {
	List(ctx context.Context, courseID string) ([]model.Note, error)
	FindByID(ctx context.Context, id string) (model.Note, error)
	Create(ctx context.Context, note model.Note) (model.Note, error)
	Delete(ctx context.Context, id string) error
}

var NoteSchema = validation.Schema{
	"course_id":   {Required: true, Format: "uuid4"},
	"title":       {Required: true, Max: validation.Limit(200)},
	"description": {Max: validation.Limit(2000)},
}

var allowedNoteExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".txt":  true,
	".md":   true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type noteRequest struct {
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type NoteHandler struct {
	notes     NoteStore
	courses   CourseStore
	uploadDir string
	maxBytes  int64
}

func NewNoteHandler(notes NoteStore, courses CourseStore, uploadDir string, maxSizeMB int64) *NoteHandler {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &NoteHandler{
		notes:     notes,
		courses:   courses,
		uploadDir: uploadDir,
		maxBytes:  maxSizeMB << 20,
	}
}

// multipart boundaries and the text fields ride on top of the file itself
const noteFormOverhead = 1 << 20

// MaxBodyBytes is the largest upload request worth reading.
func (h *NoteHandler) MaxBodyBytes() int64 {
	return h.maxBytes + noteFormOverhead
}

// ListNotes godoc
//
//	@Summary	List shared notes
//	@Tags		Notes
//	@Produce	json
//	@Security	BearerAuth
//	@Param		course_id	query		string	false	"Restrict to a course"
//	@Success	200			{object}	response.ResponseData
//	@Router		/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), strings.TrimSpace(c.Query("course_id")))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("", notes))
}

// UploadNote godoc
//
//	@Summary	Upload a note file
//	@Tags		Notes
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		course_id	formData	string	true	"Course ID"
//	@Param		title		formData	string	true	"Title"
//	@Param		description	formData	string	false	"Description"
//	@Param		file		formData	file	true	"Note file"
//	@Success	201			{object}	response.ResponseData
//	@Failure	400			{object}	response.ResponseData
//	@Router		/notes [post]
func (h *NoteHandler) UploadNote(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	var req noteRequest
	if !bind(c, &req) {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, constant.FILE_REQUIRED)
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedNoteExtensions[ext] {
		fail(c, http.StatusBadRequest, constant.FILE_TYPE_NOT_ALLOWED)
		return
	}
	if file.Size > h.maxBytes {
		fail(c, http.StatusBadRequest, constant.FILE_TOO_LARGE)
		return
	}

	if _, err := h.courses.FindByID(c.Request.Context(), req.CourseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			fail(c, http.StatusNotFound, constant.COURSE_NOT_FOUND)
			return
		}
		internalError(c, err)
		return
	}

	id := uuid.NewString()
	dst := filepath.Join(h.uploadDir, id+ext)
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		internalError(c, err)
		return
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		internalError(c, err)
		return
	}

	note, err := h.notes.Create(c.Request.Context(), model.Note{
		ID:          id,
		CourseID:    req.CourseID,
		OwnerID:     cl.UserID,
		Title:       req.Title,
		Description: req.Description,
		FileName:    filepath.Base(file.Filename),
		FilePath:    dst,
	})
	if err != nil {
		removeFile(dst)
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK("Note uploaded", note))
}

// DownloadNote godoc
//
//	@Summary	Download a note file
//	@Tags		Notes
//	@Produce	octet-stream
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Note ID"
//	@Success	200
//	@Failure	404	{object}	response.ResponseData
//	@Router		/notes/{id}/download [get]
func (h *NoteHandler) DownloadNote(c *gin.Context) {
	note, ok := h.loadNote(c)
	if !ok {
		return
	}
	if _, err := os.Stat(note.FilePath); err != nil {
		fail(c, http.StatusNotFound, constant.NOTE_NOT_FOUND)
		return
	}
	c.FileAttachment(note.FilePath, note.FileName)
}

// DeleteNote godoc
//
//	@Summary	Delete a note
//	@Tags		Notes
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Note ID"
//	@Success	200	{object}	response.ResponseData
//	@Failure	403	{object}	response.ResponseData
//	@Failure	404	{object}	response.ResponseData
//	@Router		/notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	note, ok := h.loadNote(c)
	if !ok {
		return
	}
	if !canModify(cl, note.OwnerID) {
		fail(c, http.StatusForbidden, constant.NOTE_FORBIDDEN)
		return
	}

	if err := h.notes.Delete(c.Request.Context(), note.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		internalError(c, err)
		return
	}
	removeFile(note.FilePath)
	c.JSON(http.StatusOK, response.OK("Note deleted", nil))
}

func (h *NoteHandler) loadNote(c *gin.Context) (model.Note, bool) {
	note, err := h.notes.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusNotFound, constant.NOTE_NOT_FOUND)
		return model.Note{}, false
	}
	if err != nil {
		internalError(c, err)
		return model.Note{}, false
	}
	return note, true
}

func removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		zap.L().Warn("Failed to remove note file", zap.String("path", path), zap.Error(err))
	}
}
