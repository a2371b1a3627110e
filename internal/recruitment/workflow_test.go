package recruitment

import (
	"context"
	"testing"

	"ems-portal/internal/models"
	"ems-portal/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createTestCandidate(t *testing.T, db *gorm.DB, status models.CandidateStatus) *models.Candidate {
	t.Helper()

	job := createTestJob(t, db)
	candidate := &models.Candidate{
		FullName:        "Jamie Candidate",
		Email:           "jamie@example.com",
		AppliedRoleID:   job.ID,
		AppliedRoleName: job.RoleName,
		ResumeFileName:  "jamie.pdf",
		FitScore:        55,
		Status:          status,
	}
	require.NoError(t, db.Create(candidate).Error)
	return candidate
}

func TestWorkflow_Transition(t *testing.T) {
	db := setupTestDB(t)
	workflow := NewWorkflow(db, notify.Nop{}, zap.NewNop())
	candidate := createTestCandidate(t, db, models.CandidateStatusApplied)

	updated, err := workflow.Transition(context.Background(), candidate.ID, models.CandidateStatusShortlisted)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateStatusShortlisted, updated.Status)
	assert.Equal(t, candidate.Version+1, updated.Version)

	var stored models.Candidate
	require.NoError(t, db.First(&stored, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusShortlisted, stored.Status)
	assert.Equal(t, candidate.Version+1, stored.Version)
}

func TestWorkflow_Transition_FullLifecycle(t *testing.T) {
	db := setupTestDB(t)
	workflow := NewWorkflow(db, notify.Nop{}, zap.NewNop())
	candidate := createTestCandidate(t, db, models.CandidateStatusApplied)

	for _, target := range []models.CandidateStatus{
		models.CandidateStatusShortlisted,
		models.CandidateStatusInterviewing,
		models.CandidateStatusHired,
	} {
		updated, err := workflow.Transition(context.Background(), candidate.ID, target)
		require.NoError(t, err)
		assert.Equal(t, target, updated.Status)
	}
}

func TestWorkflow_Transition_RejectsSkippedStage(t *testing.T) {
	db := setupTestDB(t)
	workflow := NewWorkflow(db, notify.Nop{}, zap.NewNop())
	candidate := createTestCandidate(t, db, models.CandidateStatusApplied)

	_, err := workflow.Transition(context.Background(), candidate.ID, models.CandidateStatusHired)
	require.Error(t, err)
	assert.True(t, IsInvalidTransition(err))

	var stored models.Candidate
	require.NoError(t, db.First(&stored, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusApplied, stored.Status)
}

func TestWorkflow_Transition_TerminalStatesAreFinal(t *testing.T) {
	db := setupTestDB(t)
	workflow := NewWorkflow(db, notify.Nop{}, zap.NewNop())

	t.Run("hired_cannot_go_back", func(t *testing.T) {
		candidate := createTestCandidate(t, db, models.CandidateStatusHired)
		_, err := workflow.Transition(context.Background(), candidate.ID, models.CandidateStatusApplied)
		assert.True(t, IsInvalidTransition(err))
	})

	t.Run("rejected_cannot_be_revived", func(t *testing.T) {
		candidate := createTestCandidate(t, db, models.CandidateStatusRejected)
		_, err := workflow.Transition(context.Background(), candidate.ID, models.CandidateStatusShortlisted)
		assert.True(t, IsInvalidTransition(err))
	})
}

func TestWorkflow_Transition_ConcurrentReviewerConflict(t *testing.T) {
	db := setupTestDB(t)
	workflow := NewWorkflow(db, notify.Nop{}, zap.NewNop())
	candidate := createTestCandidate(t, db, models.CandidateStatusApplied)

	// A second reviewer decides the candidate between this reviewer's read
	// and write. Bumping the stored version right before the guarded update
	// runs makes its WHERE clause match zero rows.
	raced := false
	err := db.Callback().Update().Before("gorm:update").Register("second_reviewer", func(tx *gorm.DB) {
		if raced {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"UPDATE candidates SET status = ?, version = version + 1 WHERE id = ?",
			models.CandidateStatusRejected, candidate.ID)
	})
	require.NoError(t, err)

	_, err = workflow.Transition(context.Background(), candidate.ID, models.CandidateStatusShortlisted)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// The first write wins; the losing transition must not overwrite it
	var stored models.Candidate
	require.NoError(t, db.First(&stored, "id = ?", candidate.ID).Error)
	assert.Equal(t, models.CandidateStatusRejected, stored.Status)
	assert.Equal(t, candidate.Version+1, stored.Version)
}

func TestWorkflow_Transition_UnknownCandidate(t *testing.T) {
	db := setupTestDB(t)
	workflow := NewWorkflow(db, notify.Nop{}, zap.NewNop())

	_, err := workflow.Transition(context.Background(), uuid.New(), models.CandidateStatusShortlisted)
	assert.True(t, IsNotFound(err))
}

func TestWorkflow_Transition_InvalidTargetStatus(t *testing.T) {
	db := setupTestDB(t)
	workflow := NewWorkflow(db, notify.Nop{}, zap.NewNop())
	candidate := createTestCandidate(t, db, models.CandidateStatusApplied)

	_, err := workflow.Transition(context.Background(), candidate.ID, models.CandidateStatus("PROMOTED"))
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestWorkflow_Transition_NotifiesLinkedApplicant(t *testing.T) {
	db := setupTestDB(t)
	workflow := NewWorkflow(db, notify.NewService(db, zap.NewNop()), zap.NewNop())

	applicant := &models.User{
		Email:     "applicant2@example.com",
		Password:  "password123",
		FirstName: "Jamie",
		LastName:  "Candidate",
		Role:      models.RoleApplicant,
	}
	require.NoError(t, db.Create(applicant).Error)

	candidate := createTestCandidate(t, db, models.CandidateStatusApplied)
	require.NoError(t, db.Model(candidate).Update("user_id", applicant.ID).Error)

	_, err := workflow.Transition(context.Background(), candidate.ID, models.CandidateStatusShortlisted)
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications, "user_id = ?", applicant.ID).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeStatusChanged, notifications[0].Type)
	assert.Contains(t, notifications[0].Body, "shortlisted")
}
