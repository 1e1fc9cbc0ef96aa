package api

import (
	"net/http"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyticsHandler serves the same rollups under /analytics/me and /analytics/trainees/:id.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// --- Response Structs ---

type DailyCountResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DailyVolumeResponse struct {
	Date     string  `json:"date"`
	VolumeKg float64 `json:"volume_kg"`
}

type FrequencyResponse struct {
	Daily        []DailyCountResponse `json:"daily"`
	WeeklyTotal  int64                `json:"weekly_total"`
	MonthlyTotal int64                `json:"monthly_total"`
}

type TopExerciseResponse struct {
	ExerciseID    string  `json:"exercise_id"`
	ExerciseName  string  `json:"exercise_name"`
	Count         int64   `json:"count"`
	TotalVolumeKg float64 `json:"total_volume_kg"`
	AvgWeightKg   float64 `json:"avg_weight_kg"`
}

type PersonalRecordResponse struct {
	ExerciseID   string  `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	MaxWeightKg  float64 `json:"max_weight_kg"`
	AchievedDate string  `json:"achieved_date"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
}

type SummaryResponse struct {
	TotalWorkouts        int64   `json:"total_workouts"`
	TotalExercisesLogged int64   `json:"total_exercises_logged"`
	TotalVolumeKg        float64 `json:"total_volume_kg"`
	CurrentStreakDays    int     `json:"current_streak_days"`
	WorkoutsThisWeek     int64   `json:"workouts_this_week"`
	WorkoutsThisMonth    int64   `json:"workouts_this_month"`
}

func mapDailyCounts(counts []domain.DailyCount) []DailyCountResponse {
	resp := make([]DailyCountResponse, len(counts))
	for i, dc := range counts {
		resp[i] = DailyCountResponse{Date: formatDate(dc.Date), Count: dc.Count}
	}
	return resp
}

func mapDailyVolumes(volumes []domain.DailyVolume) []DailyVolumeResponse {
	resp := make([]DailyVolumeResponse, len(volumes))
	for i, dv := range volumes {
		resp[i] = DailyVolumeResponse{Date: formatDate(dv.Date), VolumeKg: dv.VolumeKg}
	}
	return resp
}

// subject reads the trainee id of /trainees/:id routes; /me routes have none.
func subject(c *gin.Context) (*primitive.ObjectID, bool) {
	if c.Param("id") == "" {
		return nil, true
	}
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	return &id, true
}

// --- Handler Methods ---

// ExerciseFrequency godoc
// @Summary Exercise logs per day
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (7-365)" default(30)
// @Success 200 {object} FrequencyResponse
// @Router /analytics/me/exercise-frequency [get]
// @Router /analytics/trainees/{id}/exercise-frequency [get]
func (h *AnalyticsHandler) ExerciseFrequency(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	traineeID, ok := subject(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days")
	if !ok {
		return
	}

	freq, err := h.analyticsService.Frequency(c.Request.Context(), caller, traineeID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, FrequencyResponse{
		Daily:        mapDailyCounts(freq.Daily),
		WeeklyTotal:  freq.WeeklyTotal,
		MonthlyTotal: freq.MonthlyTotal,
	})
}

// TopExercises godoc
// @Summary Most logged exercises
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (7-365)" default(30)
// @Param limit query int false "Result size (1-50)" default(10)
// @Success 200 {array} TopExerciseResponse
// @Router /analytics/me/top-exercises [get]
// @Router /analytics/trainees/{id}/top-exercises [get]
func (h *AnalyticsHandler) TopExercises(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	traineeID, ok := subject(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days")
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	top, err := h.analyticsService.TopExercises(c.Request.Context(), caller, traineeID, days, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]TopExerciseResponse, len(top))
	for i, t := range top {
		resp[i] = TopExerciseResponse{
			ExerciseID:    t.ExerciseID.Hex(),
			ExerciseName:  t.ExerciseName,
			Count:         t.Count,
			TotalVolumeKg: t.TotalVolume,
			AvgWeightKg:   t.AvgWeight,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// VolumeTrend godoc
// @Summary Lifted volume per day
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (7-365)" default(30)
// @Success 200 {array} DailyVolumeResponse
// @Router /analytics/me/volume-trend [get]
// @Router /analytics/trainees/{id}/volume-trend [get]
func (h *AnalyticsHandler) VolumeTrend(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	traineeID, ok := subject(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days")
	if !ok {
		return
	}

	trend, err := h.analyticsService.VolumeTrend(c.Request.Context(), caller, traineeID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapDailyVolumes(trend))
}

// PersonalRecords godoc
// @Summary Heaviest weight per exercise
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PersonalRecordResponse
// @Router /analytics/me/personal-records [get]
// @Router /analytics/trainees/{id}/personal-records [get]
func (h *AnalyticsHandler) PersonalRecords(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	traineeID, ok := subject(c)
	if !ok {
		return
	}

	records, err := h.analyticsService.PersonalRecords(c.Request.Context(), caller, traineeID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]PersonalRecordResponse, len(records))
	for i, pr := range records {
		resp[i] = PersonalRecordResponse{
			ExerciseID:   pr.ExerciseID.Hex(),
			ExerciseName: pr.ExerciseName,
			MaxWeightKg:  pr.MaxWeightKg,
			AchievedDate: formatDate(pr.AchievedOn),
			Sets:         pr.Sets,
			Reps:         pr.Reps,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Summary godoc
// @Summary Lifetime totals and current streak
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SummaryResponse
// @Router /analytics/me/summary [get]
// @Router /analytics/trainees/{id}/summary [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	traineeID, ok := subject(c)
	if !ok {
		return
	}

	sum, err := h.analyticsService.Summary(c.Request.Context(), caller, traineeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{
		TotalWorkouts:        sum.TotalWorkouts,
		TotalExercisesLogged: sum.TotalExercisesLogged,
		TotalVolumeKg:        sum.TotalVolumeKg,
		CurrentStreakDays:    sum.CurrentStreakDays,
		WorkoutsThisWeek:     sum.WorkoutsThisWeek,
		WorkoutsThisMonth:    sum.WorkoutsThisMonth,
	})
}
