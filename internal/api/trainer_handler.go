package api

import (
	"net/http"

	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
)

// TrainerHandler manages trainer profiles.
type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

type CreateTrainerRequest struct {
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	GymID     *string `json:"gym_id"`
}

type UpdateTrainerRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	GymID     *string `json:"gym_id"` // "" clears the gym
}

// CreateTrainer godoc
// @Summary Create a trainer with its account
// @Tags Trainers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trainer body CreateTrainerRequest true "Trainer"
// @Success 201 {object} domain.Trainer
// @Failure 400 {object} gin.H "Invalid input or email already registered"
// @Failure 403 {object} gin.H "Admins only"
// @Router /trainers [post]
func (h *TrainerHandler) CreateTrainer(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CreateTrainerRequest
	if !bindJSON(c, &req) {
		return
	}

	trainer, err := h.trainerService.Create(c.Request.Context(), caller, service.CreateTrainerInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GymID:     req.GymID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trainer)
}

// ListTrainers godoc
// @Summary List trainers
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Trainer
// @Router /trainers [get]
func (h *TrainerHandler) ListTrainers(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	trainers, err := h.trainerService.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

// GetTrainer godoc
// @Summary Get a trainer
// @Tags Trainers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 200 {object} domain.Trainer
// @Failure 404 {object} gin.H "Trainer not found"
// @Router /trainers/{id} [get]
func (h *TrainerHandler) GetTrainer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	trainer, err := h.trainerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainer)
}

// UpdateTrainer godoc
// @Summary Update a trainer
// @Description Trainers may update only their own profile.
// @Tags Trainers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Param trainer body UpdateTrainerRequest true "Changed fields"
// @Success 200 {object} domain.Trainer
// @Router /trainers/{id} [put]
func (h *TrainerHandler) UpdateTrainer(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTrainerRequest
	if !bindJSON(c, &req) {
		return
	}

	trainer, err := h.trainerService.Update(c.Request.Context(), caller, id, service.UpdateTrainerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GymID:     req.GymID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainer)
}

// DeleteTrainer godoc
// @Summary Delete a trainer and its account
// @Tags Trainers
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 204
// @Router /trainers/{id} [delete]
func (h *TrainerHandler) DeleteTrainer(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.trainerService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
