package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idResponse struct {
	ID string `json:"id"`
}

func (s *testServer) create(t *testing.T, path, token string, body gin.H) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created idResponse
	decode(t, rec, &created)
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestCoachingFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.admin(t)
	janeID := s.register(t, "jane@example.com", "Jane")
	janeToken := s.login(t, "jane@example.com")

	s.create(t, "/api/v1/trainers", adminToken, gin.H{
		"email":      "coach@example.com",
		"password":   testPassword,
		"first_name": "Tom",
		"last_name":  "Coach",
	})
	coachToken := s.login(t, "coach@example.com")

	// trainees cannot author the library
	rec := s.do(t, http.MethodPost, "/api/v1/exercises", janeToken, gin.H{"name": "Curl"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	squatID := s.create(t, "/api/v1/exercises", coachToken, gin.H{"name": "Back Squat"})
	pressID := s.create(t, "/api/v1/exercises", coachToken, gin.H{"name": "Bench Press", "description": "Flat bench"})
	programID := s.create(t, "/api/v1/programs", coachToken, gin.H{"name": "Strength", "description": "Three days"})
	s.create(t, "/api/v1/program-exercises", coachToken, gin.H{
		"program_id": programID, "exercise_id": squatID, "order": 1,
		"prescribed_sets": 3, "prescribed_reps": 10, "prescribed_weight_kg": 60,
	})
	s.create(t, "/api/v1/program-exercises", coachToken, gin.H{
		"program_id": programID, "exercise_id": pressID, "order": 2,
		"prescribed_sets": 3, "prescribed_reps": 8, "prescribed_weight_kg": 40,
	})

	rec = s.do(t, http.MethodPost, "/api/v1/program-exercises", coachToken, gin.H{
		"program_id": programID, "exercise_id": pressID, "order": 2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/programs/"+programID+"/exercises", janeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []struct {
		Order int `json:"order"`
	}
	decode(t, rec, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Order)

	rec = s.do(t, http.MethodPut, "/api/v1/trainees/"+janeID+"/assign-program/"+programID, coachToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sessionID := s.create(t, "/api/v1/workout-sessions/start", janeToken, gin.H{"program_id": programID})

	rec = s.do(t, http.MethodPost, "/api/v1/workout-sessions/"+sessionID+"/auto-complete", janeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session SessionResponse
	decode(t, rec, &session)
	assert.Equal(t, "completed", string(session.Status))
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), session.SessionDate)
	require.Len(t, session.ExerciseLogs, 2)
	assert.Equal(t, 2760.0, session.ExerciseLogs[0].VolumeKg+session.ExerciseLogs[1].VolumeKg)

	rec = s.do(t, http.MethodPost, "/api/v1/workout-sessions/"+sessionID+"/auto-complete", janeToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/analytics/me/summary", janeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary SummaryResponse
	decode(t, rec, &summary)
	assert.EqualValues(t, 1, summary.TotalWorkouts)
	assert.EqualValues(t, 2, summary.TotalExercisesLogged)
	assert.Equal(t, 2760.0, summary.TotalVolumeKg)
	assert.Equal(t, 1, summary.CurrentStreakDays)

	rec = s.do(t, http.MethodGet, "/api/v1/analytics/trainees/"+janeID+"/summary", coachToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/trainer-dashboard/me/clients", coachToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var clients []ClientOverviewResponse
	decode(t, rec, &clients)
	require.Len(t, clients, 1)
	assert.Equal(t, janeID, clients[0].ID)
	assert.Equal(t, "Strength", clients[0].ProgramName)
	assert.EqualValues(t, 1, clients[0].TotalWorkouts)

	rec = s.do(t, http.MethodGet, "/api/v1/trainer-dashboard/me/clients", janeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/programs/"+programID, coachToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "jane@example.com", "Jane")
	janeToken := s.login(t, "jane@example.com")
	s.register(t, "john@example.com", "John")
	johnToken := s.login(t, "john@example.com")
	adminToken := s.admin(t)
	curlID := s.create(t, "/api/v1/exercises", adminToken, gin.H{"name": "Curl"})

	rec := s.do(t, http.MethodPost, "/api/v1/workout-sessions", janeToken, gin.H{"notes": "leg day"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "session_date is required")

	sessionID := s.create(t, "/api/v1/workout-sessions", janeToken, gin.H{"session_date": "2025-06-20"})
	base := "/api/v1/workout-sessions/" + sessionID
	logBody := gin.H{"exercise_id": curlID, "completed_sets": 3, "completed_reps": 12, "completed_weight_kg": 15}

	testCases := []struct {
		name     string
		method   string
		path     string
		token    string
		body     gin.H
		wantCode int
	}{
		{name: "log before begin", method: http.MethodPost, path: base + "/log-exercise", token: janeToken, body: logBody, wantCode: http.StatusBadRequest},
		{name: "other trainee reads", method: http.MethodGet, path: base, token: johnToken, wantCode: http.StatusForbidden},
		{name: "other trainee begins", method: http.MethodPut, path: base + "/begin", token: johnToken, wantCode: http.StatusForbidden},
		{name: "begin", method: http.MethodPut, path: base + "/begin", token: janeToken, wantCode: http.StatusOK},
		{name: "begin twice", method: http.MethodPut, path: base + "/begin", token: janeToken, wantCode: http.StatusBadRequest},
		{name: "log", method: http.MethodPost, path: base + "/log-exercise", token: janeToken, body: logBody, wantCode: http.StatusCreated},
		{name: "log unknown exercise", method: http.MethodPost, path: base + "/log-exercise", token: janeToken, body: gin.H{"exercise_id": "65f000000000000000000000"}, wantCode: http.StatusNotFound},
		{name: "end", method: http.MethodPut, path: base + "/end", token: janeToken, wantCode: http.StatusOK},
		{name: "end twice", method: http.MethodPut, path: base + "/end", token: janeToken, wantCode: http.StatusBadRequest},
		{name: "malformed id", method: http.MethodGet, path: "/api/v1/workout-sessions/nope", token: janeToken, wantCode: http.StatusBadRequest},
		{name: "unknown id", method: http.MethodGet, path: "/api/v1/workout-sessions/65f000000000000000000000", token: janeToken, wantCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var body interface{}
			if tc.body != nil {
				body = tc.body
			}
			rec := s.do(t, tc.method, tc.path, tc.token, body)
			assert.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
		})
	}

	rec = s.do(t, http.MethodGet, base, janeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var session SessionResponse
	decode(t, rec, &session)
	assert.Equal(t, "2025-06-20", session.SessionDate)
	assert.Equal(t, "completed", string(session.Status))
	require.Len(t, session.ExerciseLogs, 1)
	assert.Equal(t, 540.0, session.ExerciseLogs[0].VolumeKg)

	rec = s.do(t, http.MethodGet, "/api/v1/workout-sessions?status=completed", janeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []SessionResponse
	decode(t, rec, &listed)
	assert.Len(t, listed, 1)

	rec = s.do(t, http.MethodGet, "/api/v1/workout-sessions", johnToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var johns []SessionResponse
	decode(t, rec, &johns)
	assert.Empty(t, johns)
}
