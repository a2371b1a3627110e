package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ems-portal/config"
	"ems-portal/internal/database"
	"ems-portal/internal/models"
	"ems-portal/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TestContext holds common test dependencies
type TestContext struct {
	DB         *gorm.DB
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	TempDir    string
}

// SetupTestContext creates a complete test context with database, logger, and JWT service
func SetupTestContext(t *testing.T) *TestContext {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: dbPath,
		},
		Log: config.LogConfig{
			Level:  "silent",
			Format: "json",
		},
		Server: config.ServerConfig{
			Env: "test",
		},
		JWT: config.JWTConfig{
			Secret:        "test-secret-key-for-jwt-tokens",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
		Upload: config.UploadConfig{
			Path:              filepath.Join(tempDir, "resumes"),
			MaxSize:           5 * 1024 * 1024,
			AllowedExtensions: []string{".pdf", ".doc", ".docx", ".txt"},
			ParseTimeout:      10 * time.Second,
		},
		RateLimit: config.RateLimitConfig{
			Requests: 100,
			Window:   60,
		},
	}

	testLogger := zap.NewNop()

	err := database.Connect(cfg, testLogger)
	require.NoError(t, err)
	require.NotNil(t, database.DB)

	err = database.AutoMigrate()
	require.NoError(t, err)

	jwtService := auth.NewJWTService(cfg)

	t.Cleanup(func() {
		database.Close()
		database.DB = nil
	})

	return &TestContext{
		DB:         database.DB,
		Config:     cfg,
		Logger:     testLogger,
		JWTService: jwtService,
		TempDir:    tempDir,
	}
}

// CreateTestUser creates a test user in the database
func CreateTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	user := &models.User{
		ID:        uuid.New(),
		Email:     "test-" + uuid.New().String()[:8] + "@example.com",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}

	err := db.Create(user).Error
	require.NoError(t, err)
	return user
}

// CreateTestDepartment creates a test department in the database
func CreateTestDepartment(t *testing.T, db *gorm.DB) *models.Department {
	department := &models.Department{
		ID:          uuid.New(),
		Name:        "Dept-" + uuid.New().String()[:8],
		Description: "Test department",
	}

	err := db.Create(department).Error
	require.NoError(t, err)
	return department
}

// CreateTestEmployee creates an employee profile for the given user
func CreateTestEmployee(t *testing.T, db *gorm.DB, userID uuid.UUID, departmentID *uuid.UUID) *models.Employee {
	employee := &models.Employee{
		ID:           uuid.New(),
		UserID:       userID,
		EmployeeID:   "EMP-" + uuid.New().String()[:8],
		DepartmentID: departmentID,
		Position:     "Software Engineer",
		HireDate:     time.Now().AddDate(-1, 0, 0),
		Salary:       60000,
		Status:       models.EmployeeStatusActive,
	}

	err := db.Create(employee).Error
	require.NoError(t, err)
	return employee
}

// CreateTestJob creates an open job requirement in the database
func CreateTestJob(t *testing.T, db *gorm.DB, createdBy uuid.UUID) *models.JobRequirement {
	job := &models.JobRequirement{
		ID:                     uuid.New(),
		RoleName:               "Role-" + uuid.New().String()[:8],
		Department:             "Engineering",
		RequiredSkills:         models.StringList{"Go", "PostgreSQL"},
		MinimumYearsExperience: 3,
		Status:                 models.JobStatusOpen,
		CreatedBy:              createdBy,
	}

	err := db.Create(job).Error
	require.NoError(t, err)
	return job
}

// CreateTestCandidate creates a candidate in the database
func CreateTestCandidate(t *testing.T, db *gorm.DB, job *models.JobRequirement, userID *uuid.UUID) *models.Candidate {
	candidate := &models.Candidate{
		ID:                uuid.New(),
		UserID:            userID,
		FullName:          "Test Candidate",
		Email:             RandomEmail(),
		Skills:            models.StringList{"Go", "Docker"},
		YearsOfExperience: 4,
		ResumeFileName:    "resume.txt",
		AppliedRoleID:     job.ID,
		AppliedRoleName:   job.RoleName,
		FitScore:          50,
		Status:            models.CandidateStatusApplied,
	}

	err := db.Create(candidate).Error
	require.NoError(t, err)
	return candidate
}

// GenerateAuthToken generates a JWT token for testing
func GenerateAuthToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	token, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// CreateAuthenticatedRequest creates an HTTP request with authentication header
func CreateAuthenticatedRequest(method, url string, body string, token string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// ParseJSONResponse parses JSON response body into a struct
func ParseJSONResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	err := json.Unmarshal(w.Body.Bytes(), target)
	require.NoError(t, err)
}

// AssertJSONResponse asserts that the response has the expected status and contains expected fields
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedFields map[string]interface{}) {
	require.Equal(t, expectedStatus, w.Code)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	ParseJSONResponse(t, w, &response)

	for key, expectedValue := range expectedFields {
		require.Contains(t, response, key)
		if expectedValue != nil {
			require.Equal(t, expectedValue, response[key])
		}
	}
}

// AssertErrorResponse asserts that the response is an error with expected message
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMessage string) {
	require.Equal(t, expectedStatus, w.Code)
	require.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	ParseJSONResponse(t, w, &response)

	require.Contains(t, response, "error")
	if expectedErrorMessage != "" {
		require.Contains(t, response["error"].(string), expectedErrorMessage)
	}
}

// SetupGinTestMode sets up Gin in test mode
func SetupGinTestMode() {
	gin.SetMode(gin.TestMode)
}

// AssertRecordExists verifies that a record exists in the database
func AssertRecordExists(t *testing.T, db *gorm.DB, model interface{}, conditions ...interface{}) {
	err := db.First(model, conditions...).Error
	require.NoError(t, err, "Expected record to exist but it was not found")
}

// AssertRecordNotExists verifies that a record does not exist in the database
func AssertRecordNotExists(t *testing.T, db *gorm.DB, model interface{}, conditions ...interface{}) {
	err := db.First(model, conditions...).Error
	require.Error(t, err, "Expected record to not exist but it was found")
	require.Equal(t, gorm.ErrRecordNotFound, err)
}

// AssertRecordCount verifies the count of records matching the conditions
func AssertRecordCount(t *testing.T, db *gorm.DB, model interface{}, expectedCount int64, conditions ...interface{}) {
	var count int64
	query := db.Model(model)
	if len(conditions) > 0 {
		query = query.Where(conditions[0], conditions[1:]...)
	}
	err := query.Count(&count).Error
	require.NoError(t, err)
	require.Equal(t, expectedCount, count)
}

// TestHTTPClient provides utilities for HTTP testing
type TestHTTPClient struct {
	router *gin.Engine
}

// NewTestHTTPClient creates a new test HTTP client
func NewTestHTTPClient(router *gin.Engine) *TestHTTPClient {
	return &TestHTTPClient{router: router}
}

// GET performs a GET request
func (c *TestHTTPClient) GET(url string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", url, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

// POST performs a POST request
func (c *TestHTTPClient) POST(url string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

// PUT performs a PUT request
func (c *TestHTTPClient) PUT(url string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("PUT", url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

// PATCH performs a PATCH request
func (c *TestHTTPClient) PATCH(url string, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("PATCH", url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

// DELETE performs a DELETE request
func (c *TestHTTPClient) DELETE(url string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("DELETE", url, nil)

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

// WithAuth adds authentication header to the request headers
func WithAuth(token string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
	}
}

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(t *testing.T, uuidStr string) {
	_, err := uuid.Parse(uuidStr)
	require.NoError(t, err, "Expected valid UUID, got: %s", uuidStr)
}

// AssertTimestampRecent checks if a timestamp is within the last minute
func AssertTimestampRecent(t *testing.T, timestamp time.Time) {
	now := time.Now()
	diff := now.Sub(timestamp)
	require.True(t, diff >= 0, "Timestamp should not be in the future")
	require.True(t, diff < time.Minute, "Timestamp should be recent (within last minute)")
}

// RandomEmail generates a random email for testing
func RandomEmail() string {
	return "test-" + uuid.New().String()[:8] + "@example.com"
}
