package api

import (
	"net/http"
	"time"

	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler is the trainer's overview of their clients.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

type ClientOverviewResponse struct {
	ID                 string  `json:"id"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Email              string  `json:"email"`
	ProgramID          *string `json:"program_id"`
	ProgramName        string  `json:"program_name"`
	TotalWorkouts      int64   `json:"total_workouts"`
	LastWorkoutDate    *string `json:"last_workout_date"`
	WorkoutsLast30Days int64   `json:"workouts_last_30_days"`
	AdherenceRate      float64 `json:"adherence_rate"`
	CreatedAt          string  `json:"created_at"`
}

type ClientSummary struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Program *string `json:"program"`
}

type ProgressSummary struct {
	TotalWorkouts int64   `json:"total_workouts"`
	TotalVolumeKg float64 `json:"total_volume_kg"`
	TimeframeDays int     `json:"timeframe_days"`
}

type RecentSessionResponse struct {
	ID            string               `json:"id"`
	Date          string               `json:"date"`
	Status        domain.SessionStatus `json:"status"`
	ExerciseCount int64                `json:"exercise_count"`
}

type ClientProgressResponse struct {
	Client           ClientSummary           `json:"client"`
	Summary          ProgressSummary         `json:"summary"`
	WorkoutFrequency []DailyCountResponse    `json:"workout_frequency"`
	VolumeTrend      []DailyVolumeResponse   `json:"volume_trend"`
	RecentSessions   []RecentSessionResponse `json:"recent_sessions"`
}

type DashboardStatsResponse struct {
	TotalClients         int64   `json:"total_clients"`
	ActiveClients        int64   `json:"active_clients"`
	TotalPrograms        int64   `json:"total_programs"`
	AverageAdherenceRate float64 `json:"average_adherence_rate"`
}

func MapClientOverviewToResponse(o service.ClientOverview) ClientOverviewResponse {
	resp := ClientOverviewResponse{
		ID:                 o.Trainee.ID.Hex(),
		FirstName:          o.Trainee.FirstName,
		LastName:           o.Trainee.LastName,
		Email:              o.Trainee.Email,
		ProgramName:        o.ProgramName,
		TotalWorkouts:      o.TotalWorkouts,
		WorkoutsLast30Days: o.WorkoutsLast30Days,
		AdherenceRate:      o.AdherenceRate,
		CreatedAt:          o.Trainee.CreatedAt.UTC().Format(time.RFC3339),
	}
	if o.Trainee.ProgramID != nil {
		programID := o.Trainee.ProgramID.Hex()
		resp.ProgramID = &programID
	}
	if o.LastWorkoutDate != nil {
		last := formatDate(*o.LastWorkoutDate)
		resp.LastWorkoutDate = &last
	}
	return resp
}

// ListClients godoc
// @Summary The caller's clients with adherence
// @Description Admins see every trainee.
// @Tags TrainerDashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ClientOverviewResponse
// @Router /trainer-dashboard/me/clients [get]
func (h *DashboardHandler) ListClients(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	clients, err := h.dashboardService.Clients(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]ClientOverviewResponse, len(clients))
	for i, o := range clients {
		resp[i] = MapClientOverviewToResponse(o)
	}
	c.JSON(http.StatusOK, resp)
}

// ClientProgress godoc
// @Summary Training progress of one client
// @Tags TrainerDashboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainee ID"
// @Param days query int false "Window in days (7-365)" default(30)
// @Success 200 {object} ClientProgressResponse
// @Failure 403 {object} gin.H "Not your client"
// @Router /trainer-dashboard/me/clients/{id}/progress [get]
func (h *DashboardHandler) ClientProgress(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	traineeID, ok := idParam(c, "id")
	if !ok {
		return
	}
	days, ok := intQuery(c, "days")
	if !ok {
		return
	}

	progress, err := h.dashboardService.ClientProgress(c.Request.Context(), caller, traineeID, days)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := ClientProgressResponse{
		Client: ClientSummary{
			ID:    progress.Trainee.ID.Hex(),
			Name:  progress.Trainee.FullName(),
			Email: progress.Trainee.Email,
		},
		Summary: ProgressSummary{
			TotalWorkouts: progress.TotalWorkouts,
			TotalVolumeKg: progress.TotalVolumeKg,
			TimeframeDays: progress.TimeframeDays,
		},
		WorkoutFrequency: mapDailyCounts(progress.WorkoutFrequency),
		VolumeTrend:      mapDailyVolumes(progress.VolumeTrend),
		RecentSessions:   make([]RecentSessionResponse, len(progress.RecentSessions)),
	}
	if progress.ProgramName != "" {
		resp.Client.Program = &progress.ProgramName
	}
	for i, s := range progress.RecentSessions {
		resp.RecentSessions[i] = RecentSessionResponse{
			ID:            s.ID.Hex(),
			Date:          formatDate(s.Date),
			Status:        s.Status,
			ExerciseCount: s.ExerciseCount,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// DashboardStats godoc
// @Summary Headline numbers over all clients
// @Tags TrainerDashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardStatsResponse
// @Router /trainer-dashboard/me/dashboard-stats [get]
func (h *DashboardHandler) DashboardStats(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	stats, err := h.dashboardService.Stats(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DashboardStatsResponse{
		TotalClients:         stats.TotalClients,
		ActiveClients:        stats.ActiveClients,
		TotalPrograms:        stats.TotalPrograms,
		AverageAdherenceRate: stats.AverageAdherenceRate,
	})
}
