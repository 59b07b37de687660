package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/campusconnect-nz/campus-api/internal/constant"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/model/response"
	"github.com/campusconnect-nz/campus-api/internal/repository"
	"github.com/campusconnect-nz/campus-api/internal/validation"
	"github.com/campusconnect-nz/campus-api/util"
	"github.com/gin-gonic/gin"
)

type CourseStore interface {
	List(ctx context.Context, search string) ([]model.Course, error)
	FindByID(ctx context.Context, id string) (model.Course, error)
	Create(ctx context.Context, course model.Course) (model.Course, error)
	Update(ctx context.Context, course model.Course) (model.Course, error)
	Delete(ctx context.Context, id string) error
}

type ReviewStore interface {
	ListByCourse(ctx context.Context, courseID string) ([]model.Review, error)
	FindByID(ctx context.Context, id string) (model.Review, error)
	Create(ctx context.Context, review model.Review) (model.Review, error)
	Delete(ctx context.Context, id string) error
}

var (
	CourseSchema = validation.Schema{
		"code":        {Required: true, Max: validation.Limit(20)},
		"title":       {Required: true, Max: validation.Limit(200)},
		"university":  {Required: true, Max: validation.Limit(200)},
		"description": {Max: validation.Limit(2000)},
	}
	ReviewSchema = validation.Schema{
		"rating":  {Type: validation.Integer, Required: true, Min: validation.Limit(1), Max: validation.Limit(5)},
		"comment": {Max: validation.Limit(2000)},
	}
)

type courseRequest struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	University  string `json:"university"`
	Description string `json:"description"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type CourseHandler struct {
	courses CourseStore
	reviews ReviewStore
}

func NewCourseHandler(courses CourseStore, reviews ReviewStore) *CourseHandler {
	return &CourseHandler{courses: courses, reviews: reviews}
}

// ListCourses godoc
//
//	@Summary		List courses
//	@Description	Supports conditional requests through ETag / If-None-Match.
//	@Tags			Courses
//	@Produce		json
//	@Param			search	query		string	false	"Match on code or title"
//	@Success		200		{object}	response.ResponseData
//	@Success		304		"Not Modified"
//	@Router			/courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		internalError(c, err)
		return
	}

	etag := util.GenerateETag(courses)
	c.Header("ETag", etag)
	if util.MatchETag(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, response.OK("", courses))
}

// GetCourse godoc
//
//	@Summary	Get a course
//	@Tags		Courses
//	@Produce	json
//	@Param		id	path		string	true	"Course ID"
//	@Success	200	{object}	response.ResponseData
//	@Failure	404	{object}	response.ResponseData
//	@Router		/courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, ok := h.loadCourse(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.OK("", course))
}

// CreateCourse godoc
//
//	@Summary	Add a course
//	@Tags		Courses
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		courseRequest	true	"Course"
//	@Success	201		{object}	response.ResponseData
//	@Failure	409		{object}	response.ResponseData
//	@Router		/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	var req courseRequest
	if !bind(c, &req) {
		return
	}

	course, err := h.courses.Create(c.Request.Context(), model.Course{
		Code:        strings.ToUpper(req.Code),
		Title:       req.Title,
		University:  req.University,
		Description: req.Description,
		CreatedBy:   cl.UserID,
	})
	if errors.Is(err, repository.ErrConflict) {
		fail(c, http.StatusConflict, constant.COURSE_EXISTS)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK("Course created", course))
}

// UpdateCourse godoc
//
//	@Summary	Update a course
//	@Tags		Courses
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string			true	"Course ID"
//	@Param		body	body		courseRequest	true	"Course"
//	@Success	200		{object}	response.ResponseData
//	@Failure	404		{object}	response.ResponseData
//	@Router		/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req courseRequest
	if !bind(c, &req) {
		return
	}

	course, err := h.courses.Update(c.Request.Context(), model.Course{
		ID:          c.Param("id"),
		Code:        strings.ToUpper(req.Code),
		Title:       req.Title,
		University:  req.University,
		Description: req.Description,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		fail(c, http.StatusNotFound, constant.COURSE_NOT_FOUND)
	case errors.Is(err, repository.ErrConflict):
		fail(c, http.StatusConflict, constant.COURSE_EXISTS)
	case err != nil:
		internalError(c, err)
	default:
		c.JSON(http.StatusOK, response.OK("Course updated", course))
	}
}

// DeleteCourse godoc
//
//	@Summary	Delete a course
//	@Tags		Courses
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Course ID"
//	@Success	200	{object}	response.ResponseData
//	@Failure	404	{object}	response.ResponseData
//	@Router		/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	err := h.courses.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusNotFound, constant.COURSE_NOT_FOUND)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Course deleted", nil))
}

// ListReviews godoc
//
//	@Summary	Reviews for a course
//	@Tags		Reviews
//	@Produce	json
//	@Param		id	path		string	true	"Course ID"
//	@Success	200	{object}	response.ResponseData
//	@Failure	404	{object}	response.ResponseData
//	@Router		/courses/{id}/reviews [get]
func (h *CourseHandler) ListReviews(c *gin.Context) {
	course, ok := h.loadCourse(c)
	if !ok {
		return
	}

	reviews, err := h.reviews.ListByCourse(c.Request.Context(), course.ID)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("", reviews))
}

// CreateReview godoc
//
//	@Summary	Review a course
//	@Tags		Reviews
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string			true	"Course ID"
//	@Param		body	body		reviewRequest	true	"Review"
//	@Success	201		{object}	response.ResponseData
//	@Failure	409		{object}	response.ResponseData
//	@Router		/courses/{id}/reviews [post]
func (h *CourseHandler) CreateReview(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}
	var req reviewRequest
	if !bind(c, &req) {
		return
	}
	course, ok := h.loadCourse(c)
	if !ok {
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), model.Review{
		CourseID: course.ID,
		UserID:   cl.UserID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if errors.Is(err, repository.ErrConflict) {
		fail(c, http.StatusConflict, constant.REVIEW_EXISTS)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK("Review added", review))
}

// DeleteReview godoc
//
//	@Summary	Delete a review
//	@Tags		Reviews
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Review ID"
//	@Success	200	{object}	response.ResponseData
//	@Failure	403	{object}	response.ResponseData
//	@Failure	404	{object}	response.ResponseData
//	@Router		/reviews/{id} [delete]
func (h *CourseHandler) DeleteReview(c *gin.Context) {
	cl, ok := claims(c)
	if !ok {
		return
	}

	review, err := h.reviews.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusNotFound, constant.REVIEW_NOT_FOUND)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	if !canModify(cl, review.UserID) {
		fail(c, http.StatusForbidden, constant.REVIEW_FORBIDDEN)
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), review.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Review deleted", nil))
}

func (h *CourseHandler) loadCourse(c *gin.Context) (model.Course, bool) {
	course, err := h.courses.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusNotFound, constant.COURSE_NOT_FOUND)
		return model.Course{}, false
	}
	if err != nil {
		internalError(c, err)
		return model.Course{}, false
	}
	return course, true
}
