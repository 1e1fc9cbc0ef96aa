package api

import (
	"context"
	"net/http"
	"time"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ExerciseHandler serves the shared exercise library.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type ExerciseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
}

type VideoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

type ConfirmVideoRequest struct {
	ObjectKey string `json:"object_key" binding:"required"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	VideoURL         string    `json:"video_url,omitempty"`
	HasVideo         bool      `json:"has_video"`
	VideoDownloadURL string    `json:"video_download_url,omitempty"` // presigned, short-lived
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:          ex.ID.Hex(),
		Name:        ex.Name,
		Description: ex.Description,
		VideoURL:    ex.VideoURL,
		HasVideo:    ex.VideoKey != "",
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
}

// toResponse maps the exercise and attaches a download link for its uploaded video.
// A failing presign only drops the link.
func (h *ExerciseHandler) toResponse(ctx context.Context, ex *domain.Exercise) ExerciseResponse {
	resp := MapExerciseToResponse(ex)
	if ex == nil || ex.VideoKey == "" {
		return resp
	}
	url, err := h.exerciseService.VideoDownloadURL(ctx, ex)
	if err != nil {
		log.Warnf("presign video of exercise %s: %s", ex.ID.Hex(), err)
		return resp
	}
	resp.VideoDownloadURL = url
	return resp
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Add an exercise to the library
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input or duplicate name"
// @Failure 403 {object} gin.H "Trainers and admins only"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), caller, service.ExerciseInput{
		Name:        req.Name,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// ListExercises godoc
// @Summary List exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	exercises, err := h.exerciseService.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		resp[i] = h.toResponse(c.Request.Context(), &exercises[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetExercise godoc
// @Summary Get an exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(c.Request.Context(), exercise))
}

// UpdateExercise godoc
// @Summary Update an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise"
// @Success 200 {object} ExerciseResponse
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.Update(c.Request.Context(), caller, id, service.ExerciseInput{
		Name:        req.Name,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(c.Request.Context(), exercise))
}

// DeleteExercise godoc
// @Summary Delete an exercise and its uploaded video
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 204
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestVideoUpload godoc
// @Summary Get a presigned URL to upload a demo video
// @Description The client PUTs the file to upload_url and then confirms object_key.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param body body VideoUploadRequest true "Video content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 400 {object} gin.H "Not a video or storage disabled"
// @Router /exercises/{id}/video-upload-url [post]
func (h *ExerciseHandler) RequestVideoUpload(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req VideoUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.exerciseService.RequestVideoUpload(c.Request.Context(), caller, id, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ConfirmVideo godoc
// @Summary Attach an uploaded video to an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param body body ConfirmVideoRequest true "Uploaded object key"
// @Success 200 {object} ExerciseResponse
// @Router /exercises/{id}/video [put]
func (h *ExerciseHandler) ConfirmVideo(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ConfirmVideoRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.ConfirmVideo(c.Request.Context(), caller, id, req.ObjectKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(c.Request.Context(), exercise))
}
