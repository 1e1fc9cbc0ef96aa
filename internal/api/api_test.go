package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/metrics"
	"fitcoach/api/internal/repository"
	"fitcoach/api/internal/repository/memory"
	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

const testPassword = "Passw0rd1"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type testServer struct {
	router   *gin.Engine
	services service.Services
	repos    *repository.Repositories
	registry *prometheus.Registry
}

func newTestServer(t *testing.T, configure ...func(*RouterConfig)) *testServer {
	t.Helper()
	tokens, err := auth.NewTokenManager("api-test-secret-0123456789abcdef", "fitcoach-test", 15*time.Minute, 7)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	instr := metrics.NewInstrumentationWithRegisterer("fitcoach", "api_test", registry)
	repos := memory.NewRepositories()
	services := service.NewServices(service.Dependencies{Repos: repos, Tokens: tokens, Observer: instr})

	cfg := RouterConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		Metrics:        instr,
		Gatherer:       registry,
	}
	for _, fn := range configure {
		fn(&cfg)
	}
	return &testServer{
		router:   NewRouter(cfg, services),
		services: services,
		repos:    repos,
		registry: registry,
	}
}

// do sends body as JSON, authenticated when token is set.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) loginRequest(email, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login/access-token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec := s.loginRequest(email, testPassword)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pair auth.TokenPair
	decode(t, rec, &pair)
	require.NotEmpty(t, pair.AccessToken)
	return pair.AccessToken
}

// register signs a trainee up through the API and returns its profile id.
func (s *testServer) register(t *testing.T, email, firstName string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      email,
		"password":   testPassword,
		"first_name": firstName,
		"last_name":  "Doe",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var trainee domain.Trainee
	decode(t, rec, &trainee)
	return trainee.ID.Hex()
}

// admin registers an account, promotes it and returns its access token.
func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	s.register(t, "admin@example.com", "Ada")
	account, err := s.repos.Accounts.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	root := &auth.Caller{AccountID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	_, err = s.services.Auth.ChangeRole(context.Background(), root, account.ID, domain.RoleAdmin)
	require.NoError(t, err)
	return s.login(t, "admin@example.com")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error
}
