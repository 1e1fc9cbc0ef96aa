package api

import (
	"net/http"

	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgramHandler serves programs and their prescribed exercises.
type ProgramHandler struct {
	programService service.ProgramService
}

func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

type ProgramRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	TrainerID   *string `json:"trainer_id"` // admins only; trainers always own their programs
}

type ProgramExerciseRequest struct {
	ProgramID             string   `json:"program_id" binding:"required"`
	ExerciseID            string   `json:"exercise_id" binding:"required"`
	Order                 int      `json:"order" binding:"required"`
	PrescribedSets        *int     `json:"prescribed_sets"`
	PrescribedReps        *int     `json:"prescribed_reps"`
	PrescribedWeightKg    *float64 `json:"prescribed_weight_kg"`
	PrescribedDurationMin *int     `json:"prescribed_duration_min"`
}

// UpdateProgramExerciseRequest carries no program id: an entry never moves between programs.
type UpdateProgramExerciseRequest struct {
	ExerciseID            string   `json:"exercise_id" binding:"required"`
	Order                 int      `json:"order" binding:"required"`
	PrescribedSets        *int     `json:"prescribed_sets"`
	PrescribedReps        *int     `json:"prescribed_reps"`
	PrescribedWeightKg    *float64 `json:"prescribed_weight_kg"`
	PrescribedDurationMin *int     `json:"prescribed_duration_min"`
}

// CreateProgram godoc
// @Summary Create a program
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program body ProgramRequest true "Program"
// @Success 201 {object} domain.Program
// @Router /programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req ProgramRequest
	if !bindJSON(c, &req) {
		return
	}

	program, err := h.programService.Create(c.Request.Context(), caller, service.ProgramInput{
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   req.TrainerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

// ListPrograms godoc
// @Summary List programs
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param trainer_id query string false "Only programs of this trainer"
// @Success 200 {array} domain.Program
// @Router /programs [get]
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	trainerID, ok := optionalIDQuery(c, "trainer_id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	programs, err := h.programService.List(c.Request.Context(), trainerID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// GetProgram godoc
// @Summary Get a program
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 200 {object} domain.Program
// @Router /programs/{id} [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	program, err := h.programService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// UpdateProgram godoc
// @Summary Update a program
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param program body ProgramRequest true "Program"
// @Success 200 {object} domain.Program
// @Router /programs/{id} [put]
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ProgramRequest
	if !bindJSON(c, &req) {
		return
	}

	program, err := h.programService.Update(c.Request.Context(), caller, id, service.ProgramInput{
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   req.TrainerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, program)
}

// DeleteProgram godoc
// @Summary Delete a program and its exercises
// @Tags Programs
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 204
// @Router /programs/{id} [delete]
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.programService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListProgramExercises godoc
// @Summary Prescribed exercises of a program, by order
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Success 200 {array} domain.ProgramExercise
// @Router /programs/{id}/exercises [get]
func (h *ProgramHandler) ListProgramExercises(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	h.respondProgramExercises(c, id.Hex())
}

// ListProgramExercisesByQuery godoc
// @Summary Prescribed exercises of a program
// @Tags ProgramExercises
// @Produce json
// @Security BearerAuth
// @Param program_id query string true "Program ID"
// @Success 200 {array} domain.ProgramExercise
// @Router /program-exercises [get]
func (h *ProgramHandler) ListProgramExercisesByQuery(c *gin.Context) {
	raw := c.Query("program_id")
	if raw == "" {
		abortWithError(c, http.StatusBadRequest, "program_id query parameter is required")
		return
	}
	h.respondProgramExercises(c, raw)
}

func (h *ProgramHandler) respondProgramExercises(c *gin.Context, rawProgramID string) {
	programID, ok := parseID(c, "program_id", rawProgramID)
	if !ok {
		return
	}
	entries, err := h.programService.Exercises(c.Request.Context(), programID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// AddProgramExercise godoc
// @Summary Add an exercise to a program
// @Tags ProgramExercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body ProgramExerciseRequest true "Prescription"
// @Success 201 {object} domain.ProgramExercise
// @Failure 400 {object} gin.H "Order already taken"
// @Router /program-exercises [post]
func (h *ProgramHandler) AddProgramExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req ProgramExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	programID, ok := parseID(c, "program_id", req.ProgramID)
	if !ok {
		return
	}
	exerciseID, ok := parseID(c, "exercise_id", req.ExerciseID)
	if !ok {
		return
	}

	entry, err := h.programService.AddExercise(c.Request.Context(), caller, service.ProgramExerciseInput{
		ProgramID:             programID,
		ExerciseID:            exerciseID,
		Order:                 req.Order,
		PrescribedSets:        req.PrescribedSets,
		PrescribedReps:        req.PrescribedReps,
		PrescribedWeightKg:    req.PrescribedWeightKg,
		PrescribedDurationMin: req.PrescribedDurationMin,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetProgramExercise godoc
// @Summary Get a program exercise
// @Tags ProgramExercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program exercise ID"
// @Success 200 {object} domain.ProgramExercise
// @Router /program-exercises/{id} [get]
func (h *ProgramHandler) GetProgramExercise(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	entry, err := h.programService.GetExercise(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateProgramExercise godoc
// @Summary Replace a prescription
// @Tags ProgramExercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program exercise ID"
// @Param entry body UpdateProgramExerciseRequest true "Prescription"
// @Success 200 {object} domain.ProgramExercise
// @Router /program-exercises/{id} [put]
func (h *ProgramHandler) UpdateProgramExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProgramExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	exerciseID, ok := parseID(c, "exercise_id", req.ExerciseID)
	if !ok {
		return
	}

	entry, err := h.programService.UpdateExercise(c.Request.Context(), caller, id, service.ProgramExerciseInput{
		ExerciseID:            exerciseID,
		Order:                 req.Order,
		PrescribedSets:        req.PrescribedSets,
		PrescribedReps:        req.PrescribedReps,
		PrescribedWeightKg:    req.PrescribedWeightKg,
		PrescribedDurationMin: req.PrescribedDurationMin,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteProgramExercise godoc
// @Summary Remove an exercise from a program
// @Tags ProgramExercises
// @Security BearerAuth
// @Param id path string true "Program exercise ID"
// @Success 204
// @Router /program-exercises/{id} [delete]
func (h *ProgramHandler) DeleteProgramExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.programService.RemoveExercise(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
