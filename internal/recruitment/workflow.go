package recruitment

import (
	"context"
	"errors"

	"ems-portal/internal/models"
	"ems-portal/internal/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Workflow enforces the candidate lifecycle. Transitions move strictly
// forward (APPLIED to SHORTLISTED or REJECTED, SHORTLISTED to INTERVIEWING
// or REJECTED, INTERVIEWING to HIRED or REJECTED) and terminal states cannot
// be left. The version column guards against two reviewers deciding the
// same candidate at once; the first write wins.
type Workflow struct {
	db       *gorm.DB
	notifier notify.Dispatcher
	logger   *zap.Logger
}

// NewWorkflow creates a candidate lifecycle workflow
func NewWorkflow(db *gorm.DB, notifier notify.Dispatcher, logger *zap.Logger) *Workflow {
	return &Workflow{db: db, notifier: notifier, logger: logger}
}

// Transition moves a candidate to the target status and emits a status
// change event on success
func (w *Workflow) Transition(ctx context.Context, candidateID uuid.UUID, target models.CandidateStatus) (*models.Candidate, error) {
	if !target.IsValid() {
		return nil, &ValidationError{Field: "status", Message: "unknown candidate status"}
	}

	var candidate models.Candidate
	if err := w.db.WithContext(ctx).First(&candidate, "id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("candidate", candidateID)
		}
		return nil, &StoreUnavailableError{Err: err}
	}

	if !candidate.CanTransitionTo(target) {
		return nil, &InvalidTransitionError{From: candidate.Status, To: target}
	}

	result := w.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("id = ? AND version = ?", candidate.ID, candidate.Version).
		Updates(map[string]interface{}{
			"status":  target,
			"version": candidate.Version + 1,
		})
	if result.Error != nil {
		return nil, &StoreUnavailableError{Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return nil, &ConflictError{Resource: "candidate", ID: candidate.ID}
	}

	w.logger.Info("candidate status changed",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("from", string(candidate.Status)),
		zap.String("to", string(target)))

	candidate.Status = target
	candidate.Version++

	w.notifier.CandidateStatusChanged(&candidate)

	return &candidate, nil
}
