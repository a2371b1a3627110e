package integration

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"ems-portal/internal/models"
	"ems-portal/internal/server"
	"ems-portal/tests/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints tests the basic health check endpoints
func TestHealthEndpoints(t *testing.T) {
	testutils.SetupGinTestMode()
	ctx := testutils.SetupTestContext(t)

	srv := server.New(ctx.Config, ctx.Logger)
	client := testutils.NewTestHTTPClient(srv.Router)

	t.Run("health_check", func(t *testing.T) {
		w := client.GET("/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		testutils.AssertJSONResponse(t, w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "ems-portal-api",
		})
	})

	t.Run("readiness_check", func(t *testing.T) {
		w := client.GET("/ready", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		testutils.AssertJSONResponse(t, w, http.StatusOK, map[string]interface{}{
			"status": "ready",
		})
	})
}

// TestRecruitmentPipeline walks a candidate through the whole flow: an HR
// manager posts a job, an applicant uploads a resume, the application is
// parsed and scored, and HR moves it through review to a hire decision.
func TestRecruitmentPipeline(t *testing.T) {
	testutils.SetupGinTestMode()
	ctx := testutils.SetupTestContext(t)

	srv := server.New(ctx.Config, ctx.Logger)
	client := testutils.NewTestHTTPClient(srv.Router)

	hr := testutils.CreateTestUser(t, ctx.DB, models.RoleHRManager)
	applicant := testutils.CreateTestUser(t, ctx.DB, models.RoleApplicant)
	hrToken := testutils.GenerateAuthToken(t, ctx.JWTService, hr)
	applicantToken := testutils.GenerateAuthToken(t, ctx.JWTService, applicant)

	// HR posts a job
	var jobID string
	t.Run("create_job", func(t *testing.T) {
		body := `{
			"role_name": "Senior React Developer",
			"department": "Engineering",
			"required_skills": ["React", "TypeScript", "Node.js", "Tailwind CSS"],
			"minimum_years_experience": 5
		}`
		w := client.POST("/api/v1/jobs", body, testutils.WithAuth(hrToken))
		require.Equal(t, http.StatusCreated, w.Code)

		var job map[string]interface{}
		testutils.ParseJSONResponse(t, w, &job)
		jobID = job["id"].(string)
		testutils.ValidateUUID(t, jobID)
		assert.Equal(t, "OPEN", job["status"])
	})

	// Applicant uploads a resume
	resumeText := `Alex Applicant
alex.applicant@example.com
+49 170 5556677

Summary
Frontend developer with 4 years of experience building web applications.

Skills
React, JavaScript, CSS, HTML, Redux

Experience
Frontend Developer, Webshop GmbH
2021 - 2025
- Built storefront components in React
`

	var candidateID string
	t.Run("submit_resume", func(t *testing.T) {
		w := submitResume(t, srv.Router, applicantToken, jobID, "alex-resume.txt", resumeText)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var candidate map[string]interface{}
		testutils.ParseJSONResponse(t, w, &candidate)
		candidateID = candidate["id"].(string)
		testutils.ValidateUUID(t, candidateID)
		assert.Equal(t, "APPLIED", candidate["status"])
		// Applicants never see their score
		assert.NotContains(t, candidate, "fit_score")
	})

	// HR sees the scored candidate in the ranked list
	t.Run("ranked_list_shows_score", func(t *testing.T) {
		w := client.GET("/api/v1/candidates?role="+jobID, testutils.WithAuth(hrToken))
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		testutils.ParseJSONResponse(t, w, &response)
		candidates := response["candidates"].([]interface{})
		require.Len(t, candidates, 1)

		first := candidates[0].(map[string]interface{})
		assert.Equal(t, candidateID, first["id"])
		// One matched skill of four, four of five required years
		assert.Equal(t, float64(42), first["fit_score"])
	})

	// Applicants cannot browse the ranked list
	t.Run("applicant_cannot_list_candidates", func(t *testing.T) {
		w := client.GET("/api/v1/candidates", testutils.WithAuth(applicantToken))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	// HR moves the candidate through the pipeline
	t.Run("status_transitions", func(t *testing.T) {
		for _, target := range []string{"SHORTLISTED", "INTERVIEWING", "HIRED"} {
			body := fmt.Sprintf(`{"status": %q}`, target)
			w := client.PATCH("/api/v1/candidates/"+candidateID+"/status", body, testutils.WithAuth(hrToken))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var candidate map[string]interface{}
			testutils.ParseJSONResponse(t, w, &candidate)
			assert.Equal(t, target, candidate["status"])
		}
	})

	// Hired is terminal
	t.Run("terminal_status_rejects_transition", func(t *testing.T) {
		w := client.PATCH("/api/v1/candidates/"+candidateID+"/status", `{"status": "REJECTED"}`, testutils.WithAuth(hrToken))
		assert.Equal(t, http.StatusConflict, w.Code)
		testutils.AssertJSONResponse(t, w, http.StatusConflict, map[string]interface{}{
			"code": "INVALID_TRANSITION",
		})
	})

	// Applicant tracks their application without seeing the score
	t.Run("applicant_sees_own_application", func(t *testing.T) {
		w := client.GET("/api/v1/candidates/mine", testutils.WithAuth(applicantToken))
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		testutils.ParseJSONResponse(t, w, &response)
		applications := response["applications"].([]interface{})
		require.Len(t, applications, 1)

		app := applications[0].(map[string]interface{})
		assert.Equal(t, "HIRED", app["status"])
		assert.NotContains(t, app, "fit_score")
		assert.NotEmpty(t, app["status_message"])
	})

	// The pipeline left notifications in the applicant's inbox
	t.Run("applicant_received_notifications", func(t *testing.T) {
		w := client.GET("/api/v1/notifications", testutils.WithAuth(applicantToken))
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		testutils.ParseJSONResponse(t, w, &response)
		notifications := response["notifications"].([]interface{})
		// One receipt plus three status changes
		assert.Len(t, notifications, 4)
		assert.Equal(t, float64(4), response["unread_count"])
	})
}

// TestSubmissionValidation checks the rejection paths of the upload endpoint
func TestSubmissionValidation(t *testing.T) {
	testutils.SetupGinTestMode()
	ctx := testutils.SetupTestContext(t)

	srv := server.New(ctx.Config, ctx.Logger)

	hr := testutils.CreateTestUser(t, ctx.DB, models.RoleHRManager)
	job := testutils.CreateTestJob(t, ctx.DB, hr.ID)

	t.Run("unsupported_file_type", func(t *testing.T) {
		w := submitResume(t, srv.Router, "", job.ID.String(), "resume.png", "not a resume")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		testutils.AssertJSONResponse(t, w, http.StatusBadRequest, map[string]interface{}{
			"code": "UNSUPPORTED_FILE_TYPE",
		})
	})

	t.Run("unknown_job", func(t *testing.T) {
		w := submitResume(t, srv.Router, "", "00000000-0000-0000-0000-000000000001", "resume.txt",
			"Jane Doe\njane@example.com\nSkills\nGo")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("closed_job_rejects_application", func(t *testing.T) {
		closed := testutils.CreateTestJob(t, ctx.DB, hr.ID)
		require.NoError(t, ctx.DB.Model(closed).Update("status", models.JobStatusClosed).Error)

		w := submitResume(t, srv.Router, "", closed.ID.String(), "resume.txt",
			"Jane Doe\njane@example.com\nSkills\nGo")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty_file_is_unprocessable", func(t *testing.T) {
		w := submitResume(t, srv.Router, "", job.ID.String(), "resume.txt", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

// TestEmployeeLifecycle covers onboarding, attendance and leave over HTTP
func TestEmployeeLifecycle(t *testing.T) {
	testutils.SetupGinTestMode()
	ctx := testutils.SetupTestContext(t)

	srv := server.New(ctx.Config, ctx.Logger)
	client := testutils.NewTestHTTPClient(srv.Router)

	admin := testutils.CreateTestUser(t, ctx.DB, models.RoleAdmin)
	hired := testutils.CreateTestUser(t, ctx.DB, models.RoleApplicant)
	adminToken := testutils.GenerateAuthToken(t, ctx.JWTService, admin)

	department := testutils.CreateTestDepartment(t, ctx.DB)

	t.Run("onboard_hired_applicant", func(t *testing.T) {
		body := fmt.Sprintf(`{
			"user_id": %q,
			"employee_id": "EMP-1001",
			"department_id": %q,
			"position": "Frontend Developer",
			"hire_date": "2026-09-01T00:00:00Z",
			"salary": 58000
		}`, hired.ID, department.ID)
		w := client.POST("/api/v1/employees", body, testutils.WithAuth(adminToken))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// Role flips from applicant to employee
		var user models.User
		require.NoError(t, ctx.DB.First(&user, "id = ?", hired.ID).Error)
		assert.Equal(t, models.RoleEmployee, user.Role)
	})

	// The new employee needs a fresh token carrying the employee role
	var employeeToken string
	{
		var user models.User
		require.NoError(t, ctx.DB.First(&user, "id = ?", hired.ID).Error)
		employeeToken = testutils.GenerateAuthToken(t, ctx.JWTService, &user)
	}

	t.Run("clock_in_and_out", func(t *testing.T) {
		w := client.POST("/api/v1/attendance/clock-in", "", testutils.WithAuth(employeeToken))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// Second clock-in the same day is rejected
		w = client.POST("/api/v1/attendance/clock-in", "", testutils.WithAuth(employeeToken))
		assert.Equal(t, http.StatusConflict, w.Code)

		w = client.POST("/api/v1/attendance/clock-out", "", testutils.WithAuth(employeeToken))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("leave_request_and_decision", func(t *testing.T) {
		body := `{
			"leave_type": "ANNUAL",
			"start_date": "2026-10-05T00:00:00Z",
			"end_date": "2026-10-09T00:00:00Z",
			"reason": "Vacation"
		}`
		w := client.POST("/api/v1/leaves", body, testutils.WithAuth(employeeToken))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var leave map[string]interface{}
		testutils.ParseJSONResponse(t, w, &leave)
		leaveID := leave["id"].(string)
		assert.Equal(t, float64(5), leave["days"])

		// Overlapping request is rejected
		w = client.POST("/api/v1/leaves", body, testutils.WithAuth(employeeToken))
		assert.Equal(t, http.StatusConflict, w.Code)

		// Employee cannot decide their own leave
		w = client.PUT("/api/v1/leaves/"+leaveID+"/decision", `{"status": "APPROVED"}`, testutils.WithAuth(employeeToken))
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = client.PUT("/api/v1/leaves/"+leaveID+"/decision", `{"status": "APPROVED"}`, testutils.WithAuth(adminToken))
		require.Equal(t, http.StatusOK, w.Code)

		// Deciding twice conflicts
		w = client.PUT("/api/v1/leaves/"+leaveID+"/decision", `{"status": "REJECTED"}`, testutils.WithAuth(adminToken))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("payroll_run", func(t *testing.T) {
		var employee models.Employee
		require.NoError(t, ctx.DB.First(&employee, "user_id = ?", hired.ID).Error)

		body := fmt.Sprintf(`{"employee_id": %q, "year": 2026, "month": 9, "bonus": 500}`, employee.ID)
		w := client.POST("/api/v1/payroll", body, testutils.WithAuth(adminToken))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var entry map[string]interface{}
		testutils.ParseJSONResponse(t, w, &entry)
		payrollID := entry["id"].(string)
		assert.Equal(t, float64(58500), entry["net_salary"])

		// Duplicate period is rejected
		w = client.POST("/api/v1/payroll", body, testutils.WithAuth(adminToken))
		assert.Equal(t, http.StatusConflict, w.Code)

		// PENDING cannot jump straight to PAID
		w = client.PUT("/api/v1/payroll/"+payrollID, `{"status": "PAID"}`, testutils.WithAuth(adminToken))
		assert.Equal(t, http.StatusConflict, w.Code)

		w = client.PUT("/api/v1/payroll/"+payrollID, `{"status": "PROCESSING"}`, testutils.WithAuth(adminToken))
		require.Equal(t, http.StatusOK, w.Code)
		w = client.PUT("/api/v1/payroll/"+payrollID, `{"status": "PAID"}`, testutils.WithAuth(adminToken))
		require.Equal(t, http.StatusOK, w.Code)

		testutils.ParseJSONResponse(t, w, &entry)
		assert.NotNil(t, entry["paid_at"])
	})
}

// submitResume performs a multipart resume upload against the API
func submitResume(t *testing.T, router http.Handler, token, jobID, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("job_id", jobID))
	require.NoError(t, writer.WriteField("full_name", "Alex Applicant"))
	require.NoError(t, writer.WriteField("email", "alex.applicant@example.com"))

	part, err := writer.CreateFormFile("resume", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/candidates", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
