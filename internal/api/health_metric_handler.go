package api

import (
	"net/http"

	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
)

type HealthMetricHandler struct {
	metricService service.HealthMetricService
}

func NewHealthMetricHandler(metricService service.HealthMetricService) *HealthMetricHandler {
	return &HealthMetricHandler{metricService: metricService}
}

type HealthMetricRequest struct {
	TraineeID         *string  `json:"trainee_id"` // defaults to the caller; ignored on update
	HeightCm          *float64 `json:"height_cm"`
	WeightKg          *float64 `json:"weight_kg"`
	BodyFatPercentage *float64 `json:"body_fat_percentage"`
}

// RecordHealthMetric godoc
// @Summary Record a body measurement
// @Tags HealthMetrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param metric body HealthMetricRequest true "Measurement"
// @Success 201 {object} domain.HealthMetric
// @Router /health-metrics [post]
func (h *HealthMetricHandler) RecordHealthMetric(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	metric, err := h.metricService.Record(c.Request.Context(), caller, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, metric)
}

// ListMyHealthMetrics godoc
// @Summary The caller's measurements, newest first
// @Tags HealthMetrics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.HealthMetric
// @Router /health-metrics/me [get]
func (h *HealthMetricHandler) ListMyHealthMetrics(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	metrics, err := h.metricService.ListMine(c.Request.Context(), caller, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// ListHealthMetrics godoc
// @Summary Measurements of a trainee
// @Tags HealthMetrics
// @Produce json
// @Security BearerAuth
// @Param trainee_id query string false "Trainee ID, defaults to the caller"
// @Success 200 {array} domain.HealthMetric
// @Router /health-metrics [get]
func (h *HealthMetricHandler) ListHealthMetrics(c *gin.Context) {
	traineeID, ok := optionalIDQuery(c, "trainee_id")
	if !ok {
		return
	}
	if traineeID == nil {
		h.ListMyHealthMetrics(c)
		return
	}
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	metrics, err := h.metricService.ListForTrainee(c.Request.Context(), caller, *traineeID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetHealthMetric godoc
// @Summary Get a measurement
// @Tags HealthMetrics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Health metric ID"
// @Success 200 {object} domain.HealthMetric
// @Router /health-metrics/{id} [get]
func (h *HealthMetricHandler) GetHealthMetric(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	metric, err := h.metricService.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metric)
}

// UpdateHealthMetric godoc
// @Summary Correct a measurement
// @Tags HealthMetrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Health metric ID"
// @Param metric body HealthMetricRequest true "Measurement"
// @Success 200 {object} domain.HealthMetric
// @Router /health-metrics/{id} [put]
func (h *HealthMetricHandler) UpdateHealthMetric(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}
	metric, err := h.metricService.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metric)
}

// DeleteHealthMetric godoc
// @Summary Delete a measurement
// @Tags HealthMetrics
// @Security BearerAuth
// @Param id path string true "Health metric ID"
// @Success 204
// @Router /health-metrics/{id} [delete]
func (h *HealthMetricHandler) DeleteHealthMetric(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.metricService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HealthMetricHandler) bindInput(c *gin.Context) (service.HealthMetricInput, bool) {
	var req HealthMetricRequest
	if !bindJSON(c, &req) {
		return service.HealthMetricInput{}, false
	}
	traineeID, ok := parseOptionalID(c, "trainee_id", req.TraineeID)
	if !ok {
		return service.HealthMetricInput{}, false
	}
	return service.HealthMetricInput{
		TraineeID:         traineeID,
		HeightCm:          req.HeightCm,
		WeightKg:          req.WeightKg,
		BodyFatPercentage: req.BodyFatPercentage,
	}, true
}
