package api

import (
	"net/http"

	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
)

type ExerciseLogHandler struct {
	logService service.ExerciseLogService
}

func NewExerciseLogHandler(logService service.ExerciseLogService) *ExerciseLogHandler {
	return &ExerciseLogHandler{logService: logService}
}

// UpdateExerciseLogRequest is a corrective edit; volume_kg is always recomputed.
type UpdateExerciseLogRequest struct {
	ExerciseID           *string  `json:"exercise_id"`
	CompletedSets        *int     `json:"completed_sets"`
	CompletedReps        *int     `json:"completed_reps"`
	CompletedWeightKg    *float64 `json:"completed_weight_kg"`
	CompletedDurationMin *int     `json:"completed_duration_min"`
	IsCompleted          *bool    `json:"is_completed"`
	Notes                *string  `json:"notes"`
}

// ListExerciseLogs godoc
// @Summary Exercise logs of a session
// @Tags ExerciseLogs
// @Produce json
// @Security BearerAuth
// @Param session_id query string true "Session ID"
// @Success 200 {array} domain.ExerciseLog
// @Router /exercise-logs [get]
func (h *ExerciseLogHandler) ListExerciseLogs(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	raw := c.Query("session_id")
	if raw == "" {
		abortWithError(c, http.StatusBadRequest, "session_id query parameter is required")
		return
	}
	sessionID, ok := parseID(c, "session_id", raw)
	if !ok {
		return
	}

	logs, err := h.logService.ListBySession(c.Request.Context(), caller, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetExerciseLog godoc
// @Summary Get an exercise log
// @Tags ExerciseLogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise log ID"
// @Success 200 {object} domain.ExerciseLog
// @Router /exercise-logs/{id} [get]
func (h *ExerciseLogHandler) GetExerciseLog(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	entry, err := h.logService.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateExerciseLog godoc
// @Summary Correct an exercise log
// @Tags ExerciseLogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise log ID"
// @Param log body UpdateExerciseLogRequest true "Changed fields"
// @Success 200 {object} domain.ExerciseLog
// @Router /exercise-logs/{id} [put]
func (h *ExerciseLogHandler) UpdateExerciseLog(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateExerciseLogRequest
	if !bindJSON(c, &req) {
		return
	}
	exerciseID, ok := parseOptionalID(c, "exercise_id", req.ExerciseID)
	if !ok {
		return
	}

	entry, err := h.logService.Update(c.Request.Context(), caller, id, service.UpdateExerciseLogInput{
		ExerciseID:           exerciseID,
		CompletedSets:        req.CompletedSets,
		CompletedReps:        req.CompletedReps,
		CompletedWeightKg:    req.CompletedWeightKg,
		CompletedDurationMin: req.CompletedDurationMin,
		IsCompleted:          req.IsCompleted,
		Notes:                req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteExerciseLog godoc
// @Summary Delete an exercise log
// @Tags ExerciseLogs
// @Security BearerAuth
// @Param id path string true "Exercise log ID"
// @Success 204
// @Router /exercise-logs/{id} [delete]
func (h *ExerciseLogHandler) DeleteExerciseLog(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.logService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
