package recruitment

import (
	"context"
	"errors"
	"time"

	"ems-portal/internal/models"
	"ems-portal/internal/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultParseTimeout = 30 * time.Second
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 200 * time.Millisecond
)

// SubmissionInput carries one resume upload into the pipeline
type SubmissionInput struct {
	JobID    uuid.UUID
	UserID   *uuid.UUID
	FullName string
	Email    string
	Phone    string
	FileName string
	Data     []byte
}

// SubmissionService runs the submission pipeline: parse the resume, score
// it against the job, persist the candidate. The three steps are atomic
// from the caller's view; a failure at any stage leaves no partial
// candidate behind.
type SubmissionService struct {
	db           *gorm.DB
	parser       ResumeParser
	notifier     notify.Dispatcher
	logger       *zap.Logger
	parseTimeout time.Duration
	maxAttempts  int
	retryBackoff time.Duration
}

// NewSubmissionService creates a submission service with default timeouts
func NewSubmissionService(db *gorm.DB, parser ResumeParser, notifier notify.Dispatcher, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		db:           db,
		parser:       parser,
		notifier:     notifier,
		logger:       logger,
		parseTimeout: defaultParseTimeout,
		maxAttempts:  defaultMaxAttempts,
		retryBackoff: defaultRetryBackoff,
	}
}

// WithParseTimeout overrides the per-document extraction deadline
func (s *SubmissionService) WithParseTimeout(timeout time.Duration) *SubmissionService {
	if timeout > 0 {
		s.parseTimeout = timeout
	}
	return s
}

// Submit processes one resume upload end to end and returns the stored
// candidate in APPLIED state
func (s *SubmissionService) Submit(ctx context.Context, input SubmissionInput) (*models.Candidate, error) {
	if input.JobID == uuid.Nil {
		return nil, &ValidationError{Field: "job_id", Message: "job id is required"}
	}
	if input.FileName == "" {
		return nil, &ValidationError{Field: "resume", Message: "resume file is required"}
	}

	var job models.JobRequirement
	if err := s.db.WithContext(ctx).First(&job, "id = ?", input.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("job", input.JobID)
		}
		return nil, &StoreUnavailableError{Err: err}
	}
	if !job.IsOpen() {
		return nil, &ValidationError{Field: "job_id", Message: "job is closed for applications"}
	}

	parseCtx, cancel := context.WithTimeout(ctx, s.parseTimeout)
	defer cancel()

	parsed, err := s.parser.Parse(parseCtx, input.FileName, input.Data)
	if err != nil {
		s.logger.Warn("resume parsing failed",
			zap.String("file", input.FileName),
			zap.String("job_id", input.JobID.String()),
			zap.Error(err))
		return nil, err
	}

	candidate := s.buildCandidate(input, parsed, &job)
	candidate.FitScore = FitScore(parsed.Resume.Skills, parsed.YearsOfExperience, &job)

	if err := s.createWithRetry(ctx, candidate); err != nil {
		return nil, err
	}

	s.logger.Info("candidate submitted",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("job_id", job.ID.String()),
		zap.Int("fit_score", candidate.FitScore))

	s.notifier.ApplicationReceived(candidate)

	return candidate, nil
}

// buildCandidate merges the caller-supplied contact fields with the parsed
// resume; explicit input wins over extraction
func (s *SubmissionService) buildCandidate(input SubmissionInput, parsed *ParseResult, job *models.JobRequirement) *models.Candidate {
	fullName := input.FullName
	if fullName == "" {
		fullName = parsed.Resume.Name
	}
	email := input.Email
	if email == "" {
		email = parsed.Resume.Email
	}
	phone := input.Phone
	if phone == "" {
		phone = parsed.Resume.Phone
	}

	return &models.Candidate{
		UserID:            input.UserID,
		FullName:          fullName,
		Email:             email,
		Phone:             phone,
		Skills:            models.StringList(parsed.Resume.Skills),
		YearsOfExperience: parsed.YearsOfExperience,
		ResumeFileName:    input.FileName,
		ParsedResume:      parsed.Resume,
		AppliedRoleID:     job.ID,
		AppliedRoleName:   job.RoleName,
		Status:            models.CandidateStatusApplied,
	}
}

// createWithRetry persists the candidate inside a transaction, retrying
// transient store failures with backoff. Validation-class errors are never
// retried.
func (s *SubmissionService) createWithRetry(ctx context.Context, candidate *models.Candidate) error {
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(candidate).Error
		})
		if err == nil {
			return nil
		}
		lastErr = err

		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrInvalidData) {
			return &ValidationError{Field: "candidate", Message: err.Error()}
		}

		if attempt < s.maxAttempts {
			s.logger.Warn("candidate create failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err))

			select {
			case <-ctx.Done():
				return &StoreUnavailableError{Err: ctx.Err()}
			case <-time.After(s.retryBackoff * time.Duration(attempt)):
			}
		}
	}

	return &StoreUnavailableError{Err: lastErr}
}
