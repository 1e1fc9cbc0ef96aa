package api

import (
	"net/http"

	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
)

type GymHandler struct {
	gymService service.GymService
}

func NewGymHandler(gymService service.GymService) *GymHandler {
	return &GymHandler{gymService: gymService}
}

type GymRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// CreateGym godoc
// @Summary Create a gym
// @Tags Gyms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param gym body GymRequest true "Gym"
// @Success 201 {object} domain.Gym
// @Failure 403 {object} gin.H "Admins only"
// @Router /gyms [post]
func (h *GymHandler) CreateGym(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req GymRequest
	if !bindJSON(c, &req) {
		return
	}

	gym, err := h.gymService.Create(c.Request.Context(), caller, service.GymInput{Name: req.Name, Address: req.Address})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gym)
}

// ListGyms godoc
// @Summary List gyms
// @Tags Gyms
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} domain.Gym
// @Router /gyms [get]
func (h *GymHandler) ListGyms(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	gyms, err := h.gymService.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gyms)
}

// GetGym godoc
// @Summary Get a gym
// @Tags Gyms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Gym ID"
// @Success 200 {object} domain.Gym
// @Failure 404 {object} gin.H "Gym not found"
// @Router /gyms/{id} [get]
func (h *GymHandler) GetGym(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	gym, err := h.gymService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gym)
}

// UpdateGym godoc
// @Summary Update a gym
// @Tags Gyms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Gym ID"
// @Param gym body GymRequest true "Gym"
// @Success 200 {object} domain.Gym
// @Router /gyms/{id} [put]
func (h *GymHandler) UpdateGym(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req GymRequest
	if !bindJSON(c, &req) {
		return
	}

	gym, err := h.gymService.Update(c.Request.Context(), caller, id, service.GymInput{Name: req.Name, Address: req.Address})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gym)
}

// DeleteGym godoc
// @Summary Delete a gym
// @Tags Gyms
// @Security BearerAuth
// @Param id path string true "Gym ID"
// @Success 204
// @Router /gyms/{id} [delete]
func (h *GymHandler) DeleteGym(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.gymService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
