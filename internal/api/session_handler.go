package api

import (
	"context"
	"net/http"
	"time"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/repository"
	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler drives the workout session lifecycle.
type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- Request/Response Structs ---

type StartSessionRequest struct {
	TraineeID *string `json:"trainee_id"` // defaults to the caller
	ProgramID *string `json:"program_id"`
	Notes     string  `json:"notes"`
}

type ScheduleSessionRequest struct {
	TraineeID   *string `json:"trainee_id"`
	ProgramID   *string `json:"program_id"`
	SessionDate string  `json:"session_date" binding:"required"` // YYYY-MM-DD
	Notes       string  `json:"notes"`
}

type LogExerciseRequest struct {
	ExerciseID           string   `json:"exercise_id" binding:"required"`
	CompletedSets        *int     `json:"completed_sets"`
	CompletedReps        *int     `json:"completed_reps"`
	CompletedWeightKg    *float64 `json:"completed_weight_kg"`
	CompletedDurationMin *int     `json:"completed_duration_min"`
	Notes                string   `json:"notes"`
}

// SessionResponse renders session_date as a calendar date.
type SessionResponse struct {
	ID           string               `json:"id"`
	TraineeID    string               `json:"trainee_id"`
	ProgramID    *string              `json:"program_id,omitempty"`
	SessionDate  string               `json:"session_date"`
	Status       domain.SessionStatus `json:"status"`
	Notes        string               `json:"notes,omitempty"`
	StartedAt    *time.Time           `json:"started_at,omitempty"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	ExerciseLogs []domain.ExerciseLog `json:"exercise_logs,omitempty"`
}

func MapSessionToResponse(s *domain.WorkoutSession) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	resp := SessionResponse{
		ID:          s.ID.Hex(),
		TraineeID:   s.TraineeID.Hex(),
		SessionDate: formatDate(s.SessionDate),
		Status:      s.Status,
		Notes:       s.Notes,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.ProgramID != nil {
		programID := s.ProgramID.Hex()
		resp.ProgramID = &programID
	}
	return resp
}

func MapSessionDetailToResponse(d *service.SessionDetail) SessionResponse {
	resp := MapSessionToResponse(d.Session)
	resp.ExerciseLogs = d.Logs
	return resp
}

// --- Handler Methods ---

// ListSessions godoc
// @Summary List workout sessions
// @Description Trainees see only their own sessions. Newest first.
// @Tags WorkoutSessions
// @Produce json
// @Security BearerAuth
// @Param trainee_id query string false "Filter by trainee"
// @Param status query string false "planned, in-progress or completed"
// @Param since query string false "Earliest session date, YYYY-MM-DD"
// @Success 200 {array} SessionResponse
// @Router /workout-sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	traineeID, ok := optionalIDQuery(c, "trainee_id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	filter := repository.SessionFilter{TraineeID: traineeID, Status: domain.SessionStatus(c.Query("status"))}
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(dateLayout, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "since must be a date formatted YYYY-MM-DD")
			return
		}
		filter.Since = &since
	}

	sessions, err := h.sessionService.List(c.Request.Context(), caller, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]SessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = MapSessionToResponse(&sessions[i])
	}
	c.JSON(http.StatusOK, resp)
}

// ScheduleSession godoc
// @Summary Plan a session for a later date
// @Tags WorkoutSessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body ScheduleSessionRequest true "Planned session"
// @Success 201 {object} SessionResponse
// @Router /workout-sessions [post]
func (h *SessionHandler) ScheduleSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req ScheduleSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := time.Parse(dateLayout, req.SessionDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "session_date must be a date formatted YYYY-MM-DD")
		return
	}
	traineeID, ok := parseOptionalID(c, "trainee_id", req.TraineeID)
	if !ok {
		return
	}
	programID, ok := parseOptionalID(c, "program_id", req.ProgramID)
	if !ok {
		return
	}

	session, err := h.sessionService.Schedule(c.Request.Context(), caller, service.ScheduleSessionInput{
		TraineeID:   traineeID,
		ProgramID:   programID,
		SessionDate: date,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// StartSession godoc
// @Summary Start a session today
// @Tags WorkoutSessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body StartSessionRequest false "Session"
// @Success 201 {object} SessionResponse
// @Router /workout-sessions/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	traineeID, ok := parseOptionalID(c, "trainee_id", req.TraineeID)
	if !ok {
		return
	}
	programID, ok := parseOptionalID(c, "program_id", req.ProgramID)
	if !ok {
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), caller, service.StartSessionInput{
		TraineeID: traineeID,
		ProgramID: programID,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// GetSession godoc
// @Summary Get a session with its exercise logs
// @Tags WorkoutSessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Router /workout-sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.sessionService.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionDetailToResponse(detail))
}

// BeginSession godoc
// @Summary Move a planned session to in-progress
// @Tags WorkoutSessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Session is not planned"
// @Router /workout-sessions/{id}/begin [put]
func (h *SessionHandler) BeginSession(c *gin.Context) {
	h.transition(c, h.sessionService.Begin)
}

// EndSession godoc
// @Summary Complete an in-progress session
// @Tags WorkoutSessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Session is not in-progress"
// @Router /workout-sessions/{id}/end [put]
func (h *SessionHandler) EndSession(c *gin.Context) {
	h.transition(c, h.sessionService.End)
}

type transitionFunc func(ctx context.Context, caller *auth.Caller, id primitive.ObjectID) (*domain.WorkoutSession, error)

func (h *SessionHandler) transition(c *gin.Context, fire transitionFunc) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	session, err := fire(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// LogExercise godoc
// @Summary Log an exercise in an in-progress session
// @Tags WorkoutSessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param log body LogExerciseRequest true "Completed work"
// @Success 201 {object} domain.ExerciseLog
// @Failure 400 {object} gin.H "Session is not in-progress"
// @Failure 403 {object} gin.H "Not your session"
// @Router /workout-sessions/{id}/log-exercise [post]
func (h *SessionHandler) LogExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req LogExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	exerciseID, ok := parseID(c, "exercise_id", req.ExerciseID)
	if !ok {
		return
	}

	entry, err := h.sessionService.LogExercise(c.Request.Context(), caller, id, service.LogExerciseInput{
		ExerciseID:           exerciseID,
		CompletedSets:        req.CompletedSets,
		CompletedReps:        req.CompletedReps,
		CompletedWeightKg:    req.CompletedWeightKg,
		CompletedDurationMin: req.CompletedDurationMin,
		Notes:                req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// AutoCompleteSession godoc
// @Summary Log every prescribed exercise and complete the session
// @Tags WorkoutSessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "No linked program, empty program or already completed"
// @Router /workout-sessions/{id}/auto-complete [post]
func (h *SessionHandler) AutoCompleteSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.sessionService.AutoComplete(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionDetailToResponse(detail))
}
