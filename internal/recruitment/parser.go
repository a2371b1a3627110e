package recruitment

import (
	"context"
	"errors"
	"fmt"

	"ems-portal/internal/models"
)

type ParseErrorKind string

const (
	ParseErrorUnsupportedFormat ParseErrorKind = "UNSUPPORTED_FORMAT"
	ParseErrorCorruptFile       ParseErrorKind = "CORRUPT_FILE"
	ParseErrorTimeout           ParseErrorKind = "EXTRACTION_TIMEOUT"
	ParseErrorNoText            ParseErrorKind = "NO_EXTRACTABLE_TEXT"
)

// ParseError reports why a resume document could not be turned into a
// ParsedResume
type ParseError struct {
	Kind     ParseErrorKind
	FileName string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.FileName, e.Kind, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.FileName, e.Kind)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError checks if the error came from the parsing stage
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// ParseResult bundles the structured resume with the derived experience
// figure the scorer consumes
type ParseResult struct {
	Resume            models.ParsedResume
	YearsOfExperience int
}

// ResumeParser turns an uploaded resume document into structured candidate
// data. Extraction quality is a plug-in concern; the submission pipeline
// only depends on this contract. Implementations must be pure per call,
// safe for concurrent use, and must honor the context deadline.
type ResumeParser interface {
	Parse(ctx context.Context, fileName string, data []byte) (*ParseResult, error)
}
