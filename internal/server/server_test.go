package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ems-portal/config"
	"ems-portal/internal/database"
	"ems-portal/internal/models"
	"ems-portal/tests/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	testutils.SetupGinTestMode()
	cfg := createTestConfig(t)
	logger := zap.NewNop()

	server := New(cfg, logger)

	assert.NotNil(t, server)
	assert.NotNil(t, server.Router)
	assert.Equal(t, cfg, server.config)
	assert.Equal(t, logger, server.logger)
	assert.NotNil(t, server.jwtService)
	assert.NotNil(t, server.db)
}

func TestHealthCheck(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	testutils.AssertJSONResponse(t, w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "ems-portal-api",
	})
}

func TestReadinessCheck(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ready", nil)
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	testutils.AssertJSONResponse(t, w, http.StatusOK, map[string]interface{}{
		"status":  "ready",
		"version": "1.0.0",
		"service": "ems-portal-api",
	})

	var response map[string]interface{}
	testutils.ParseJSONResponse(t, w, &response)
	checks := response["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["database"])
}

func TestSecurityHeaders(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
}

func TestCORSHeaders(t *testing.T) {
	testutils.SetupGinTestMode()
	cfg := createTestConfig(t)
	cfg.CORS.Origins = []string{"http://localhost:3000"}
	cfg.CORS.Credentials = true
	logger := zap.NewNop()

	server := New(cfg, logger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestPublicJobListing(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)

	// Anonymous applicants can browse open roles
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/jobs", nil)
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	testutils.ParseJSONResponse(t, w, &response)
	assert.Contains(t, response, "jobs")
	assert.Contains(t, response, "pagination")
}

func TestProtectedEndpointsRequireAuth(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)

	protectedEndpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/candidates"},
		{"GET", "/api/v1/candidates/mine"},
		{"POST", "/api/v1/jobs"},
		{"GET", "/api/v1/departments"},
		{"GET", "/api/v1/employees"},
		{"POST", "/api/v1/attendance/clock-in"},
		{"GET", "/api/v1/leaves"},
		{"GET", "/api/v1/payroll"},
		{"GET", "/api/v1/announcements"},
		{"GET", "/api/v1/notifications"},
		{"GET", "/api/v1/dashboard"},
	}

	for _, endpoint := range protectedEndpoints {
		t.Run(endpoint.method+"_"+endpoint.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(endpoint.method, endpoint.path, nil)
			server.Router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			testutils.AssertErrorResponse(t, w, http.StatusUnauthorized, "Authorization header is required")
		})
	}
}

func TestRoleEnforcement(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)
	client := testutils.NewTestHTTPClient(server.Router)

	employee := testutils.CreateTestUser(t, server.db, models.RoleEmployee)
	hr := testutils.CreateTestUser(t, server.db, models.RoleHRManager)

	employeeToken := testutils.GenerateAuthToken(t, server.jwtService, employee)
	hrToken := testutils.GenerateAuthToken(t, server.jwtService, hr)

	t.Run("employee_cannot_list_candidates", func(t *testing.T) {
		w := client.GET("/api/v1/candidates", testutils.WithAuth(employeeToken))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("hr_can_list_candidates", func(t *testing.T) {
		w := client.GET("/api/v1/candidates", testutils.WithAuth(hrToken))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("employee_cannot_see_dashboard", func(t *testing.T) {
		w := client.GET("/api/v1/dashboard", testutils.WithAuth(employeeToken))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("hr_can_see_dashboard", func(t *testing.T) {
		w := client.GET("/api/v1/dashboard", testutils.WithAuth(hrToken))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("hr_cannot_create_payroll", func(t *testing.T) {
		w := client.POST("/api/v1/payroll", `{}`, testutils.WithAuth(hrToken))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSwaggerDocsInDevelopment(t *testing.T) {
	testutils.SetupGinTestMode()
	cfg := createTestConfig(t)
	cfg.Server.Env = "development"
	logger := zap.NewNop()

	server := New(cfg, logger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/docs/index.html", nil)
	server.Router.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusNotFound, w.Code)
}

func TestSwaggerDocsNotInProduction(t *testing.T) {
	testutils.SetupGinTestMode()
	cfg := createTestConfig(t)
	cfg.Server.Env = "production"
	logger := zap.NewNop()

	server := New(cfg, logger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/docs/index.html", nil)
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimiting(t *testing.T) {
	testutils.SetupGinTestMode()
	cfg := createTestConfig(t)
	cfg.RateLimit.Requests = 2
	cfg.RateLimit.Window = 60
	logger := zap.NewNop()

	server := New(cfg, logger)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		server.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("X-RateLimit-Limit"), "2")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	testutils.AssertErrorResponse(t, w, http.StatusTooManyRequests, "Rate limit exceeded")
}

func TestRequestIDMiddleware(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)

	t.Run("without_request_id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health", nil)
		server.Router.ServeHTTP(w, req)

		requestID := w.Header().Get("X-Request-ID")
		assert.NotEmpty(t, requestID)
		assert.Len(t, requestID, 36)
	})

	t.Run("with_existing_request_id", func(t *testing.T) {
		existingID := "test-request-id-123"
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Request-ID", existingID)
		server.Router.ServeHTTP(w, req)

		assert.Equal(t, existingID, w.Header().Get("X-Request-ID"))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)

	server.Router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/panic", nil)
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	testutils.AssertErrorResponse(t, w, http.StatusInternalServerError, "Internal server error")
}

func TestCandidateRankingAndFilters(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)
	client := testutils.NewTestHTTPClient(server.Router)

	hr := testutils.CreateTestUser(t, server.db, models.RoleHRManager)
	hrToken := testutils.GenerateAuthToken(t, server.jwtService, hr)
	job := testutils.CreateTestJob(t, server.db, hr.ID)

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	seed := func(name string, score int, status models.CandidateStatus, skills models.StringList, createdAt time.Time) {
		candidate := testutils.CreateTestCandidate(t, server.db, job, nil)
		require.NoError(t, server.db.Model(candidate).Updates(map[string]interface{}{
			"full_name":  name,
			"fit_score":  score,
			"status":     status,
			"skills":     skills,
			"created_at": createdAt,
		}).Error)
	}

	// Insertion order deliberately differs from the expected ranking
	seed("Dana Junior", 40, models.CandidateStatusApplied, models.StringList{"Kubernetes", "Go"}, base.Add(3*time.Hour))
	seed("Blake Late", 90, models.CandidateStatusApplied, models.StringList{"Go", "Docker"}, base.Add(time.Hour))
	seed("Avery Early", 90, models.CandidateStatusApplied, models.StringList{"Go", "Docker"}, base)
	seed("Casey Mid", 70, models.CandidateStatusShortlisted, models.StringList{"Go", "Docker"}, base.Add(2*time.Hour))

	fetch := func(t *testing.T, url string) []map[string]interface{} {
		t.Helper()
		w := client.GET(url, testutils.WithAuth(hrToken))
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		testutils.ParseJSONResponse(t, w, &response)
		raw := response["candidates"].([]interface{})

		candidates := make([]map[string]interface{}, 0, len(raw))
		for _, item := range raw {
			candidates = append(candidates, item.(map[string]interface{}))
		}
		return candidates
	}
	names := func(candidates []map[string]interface{}) []string {
		result := make([]string, 0, len(candidates))
		for _, candidate := range candidates {
			result = append(result, candidate["full_name"].(string))
		}
		return result
	}

	t.Run("ranked_by_fit_score_then_created_at", func(t *testing.T) {
		candidates := fetch(t, "/api/v1/candidates")

		// Best fit first; equal scores resolved by earliest application
		assert.Equal(t, []string{"Avery Early", "Blake Late", "Casey Mid", "Dana Junior"}, names(candidates))
		scores := make([]float64, 0, len(candidates))
		for _, candidate := range candidates {
			scores = append(scores, candidate["fit_score"].(float64))
		}
		assert.Equal(t, []float64{90, 90, 70, 40}, scores)
	})

	t.Run("status_filter", func(t *testing.T) {
		candidates := fetch(t, "/api/v1/candidates?status=SHORTLISTED")

		assert.Equal(t, []string{"Casey Mid"}, names(candidates))
		for _, candidate := range candidates {
			assert.Equal(t, string(models.CandidateStatusShortlisted), candidate["status"])
		}
	})

	t.Run("search_matches_name_case_insensitive", func(t *testing.T) {
		candidates := fetch(t, "/api/v1/candidates?search=dana")
		assert.Equal(t, []string{"Dana Junior"}, names(candidates))
	})

	t.Run("search_matches_skills", func(t *testing.T) {
		candidates := fetch(t, "/api/v1/candidates?search=kubernetes")
		assert.Equal(t, []string{"Dana Junior"}, names(candidates))
	})
}

func TestResumeArchivedUnderCandidateID(t *testing.T) {
	testutils.SetupGinTestMode()
	server := createTestServer(t)

	hr := testutils.CreateTestUser(t, server.db, models.RoleHRManager)
	job := testutils.CreateTestJob(t, server.db, hr.ID)

	resume := "Jordan Applicant\njordan@example.com\nSkills: Go, PostgreSQL\n5 years of experience\n"

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("job_id", job.ID.String()))
	require.NoError(t, writer.WriteField("full_name", "Jordan Applicant"))
	part, err := writer.CreateFormFile("resume", "Jordan Final CV (2).txt")
	require.NoError(t, err)
	_, err = part.Write([]byte(resume))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/candidates", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	testutils.ParseJSONResponse(t, w, &response)
	candidateID := response["id"].(string)

	var stored models.Candidate
	require.NoError(t, server.db.First(&stored, "id = ?", candidateID).Error)

	// The applicant's filename is display metadata only; the archive is
	// named after the candidate ID so the stored reference never collides
	// or changes with a re-upload under a different name.
	assert.Equal(t, "Jordan Final CV (2).txt", stored.ResumeFileName)
	assert.Equal(t, filepath.Join(server.config.Upload.Path, candidateID+".txt"), stored.ResumePath)

	archived, err := os.ReadFile(stored.ResumePath)
	require.NoError(t, err)
	assert.Equal(t, resume, string(archived))
}

// Helper functions

func createTestConfig(t *testing.T) *config.Config {
	tempDir := t.TempDir()
	t.Cleanup(func() {
		database.Close()
		database.DB = nil
	})

	return &config.Config{
		Server: config.ServerConfig{
			Env:  "test",
			Port: "8080",
		},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(tempDir, "test.db"),
		},
		JWT: config.JWTConfig{
			Secret:        "test-secret-key",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
		Log: config.LogConfig{
			Level:  "silent",
			Format: "json",
		},
		Dev: config.DevConfig{
			AutoMigrate: true,
		},
		CORS: config.CORSConfig{
			Origins:     []string{"*"},
			Credentials: false,
		},
		RateLimit: config.RateLimitConfig{
			Requests: 100,
			Window:   60,
		},
		Upload: config.UploadConfig{
			Path:              filepath.Join(tempDir, "resumes"),
			MaxSize:           5 * 1024 * 1024,
			AllowedExtensions: []string{".pdf", ".doc", ".docx", ".txt"},
			ParseTimeout:      10 * time.Second,
		},
	}
}

func createTestServer(t *testing.T) *Server {
	cfg := createTestConfig(t)
	logger := zap.NewNop()
	return New(cfg, logger)
}
