package api

import (
	"net/http"

	"fitcoach/api/internal/repository"
	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
)

// TraineeHandler manages trainee profiles and their assignments.
type TraineeHandler struct {
	traineeService service.TraineeService
}

func NewTraineeHandler(traineeService service.TraineeService) *TraineeHandler {
	return &TraineeHandler{traineeService: traineeService}
}

type CreateTraineeRequest struct {
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	GymID     *string `json:"gym_id"`
	TrainerID *string `json:"trainer_id"`
	ProgramID *string `json:"program_id"`
}

// UpdateTraineeRequest changes only the fields present in the body.
// An empty id clears the link.
type UpdateTraineeRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	GymID     *string `json:"gym_id"`
	TrainerID *string `json:"trainer_id"`
	ProgramID *string `json:"program_id"`
}

// CreateTrainee godoc
// @Summary Create a trainee with its account
// @Description A trainer creating a trainee becomes its trainer unless trainer_id says otherwise.
// @Tags Trainees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trainee body CreateTraineeRequest true "Trainee"
// @Success 201 {object} domain.Trainee
// @Router /trainees [post]
func (h *TraineeHandler) CreateTrainee(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CreateTraineeRequest
	if !bindJSON(c, &req) {
		return
	}

	trainee, err := h.traineeService.Create(c.Request.Context(), caller, service.CreateTraineeInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GymID:     req.GymID,
		TrainerID: req.TrainerID,
		ProgramID: req.ProgramID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trainee)
}

// ListTrainees godoc
// @Summary List trainees
// @Description Trainees see only themselves.
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Param trainer_id query string false "Filter by trainer"
// @Param gym_id query string false "Filter by gym"
// @Success 200 {array} domain.Trainee
// @Router /trainees [get]
func (h *TraineeHandler) ListTrainees(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	trainerID, ok := optionalIDQuery(c, "trainer_id")
	if !ok {
		return
	}
	gymID, ok := optionalIDQuery(c, "gym_id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	trainees, err := h.traineeService.List(c.Request.Context(), caller, repository.TraineeFilter{TrainerID: trainerID, GymID: gymID}, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainees)
}

// GetTrainee godoc
// @Summary Get a trainee
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 200 {object} domain.Trainee
// @Failure 403 {object} gin.H "Not your trainee"
// @Failure 404 {object} gin.H "Trainee not found"
// @Router /trainees/{id} [get]
func (h *TraineeHandler) GetTrainee(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	trainee, err := h.traineeService.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainee)
}

// UpdateTrainee godoc
// @Summary Update a trainee
// @Description Trainees may change their names; assignments need a trainer or admin.
// @Tags Trainees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Param trainee body UpdateTraineeRequest true "Changed fields"
// @Success 200 {object} domain.Trainee
// @Router /trainees/{id} [put]
func (h *TraineeHandler) UpdateTrainee(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTraineeRequest
	if !bindJSON(c, &req) {
		return
	}

	trainee, err := h.traineeService.Update(c.Request.Context(), caller, id, service.UpdateTraineeInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GymID:     req.GymID,
		TrainerID: req.TrainerID,
		ProgramID: req.ProgramID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainee)
}

// AssignProgram godoc
// @Summary Assign a program to a trainee
// @Description Trainers may assign only programs they own.
// @Tags Trainees
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Param programId path string true "Program ID"
// @Success 200 {object} domain.Trainee
// @Router /trainees/{id}/assign-program/{programId} [put]
func (h *TraineeHandler) AssignProgram(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	traineeID, ok := idParam(c, "id")
	if !ok {
		return
	}
	programID, ok := idParam(c, "programId")
	if !ok {
		return
	}

	trainee, err := h.traineeService.AssignProgram(c.Request.Context(), caller, traineeID, programID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainee)
}

// DeleteTrainee godoc
// @Summary Delete a trainee and its account
// @Tags Trainees
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Success 204
// @Router /trainees/{id} [delete]
func (h *TraineeHandler) DeleteTrainee(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.traineeService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
