package domain

import "strings"

const (
	// QuestionTypeMCQ is the only question type this pipeline produces and the
	// default when the source omits a type tag.
	QuestionTypeMCQ = "mcq"

	// OptionCount is the required number of answer candidates per question.
	OptionCount = 4

	// DefaultPoints is assigned when the source omits or zeroes the weight.
	DefaultPoints = 1
)

// Question is the unit of output of the extraction pipeline. Instances are
// created fresh per extraction call and never mutated by this core once
// returned; the persistence layer owns further mutation.
type Question struct {
	ID            string
	Text          string
	Type          string
	Options       []string
	CorrectAnswer string
	Explanation   string
	Points        int
	TopicID       string
	SubtopicID    string
}

// Validate validates the question shape
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("question text is required")
	}
	if len(q.Options) != OptionCount {
		return NewValidationError("question must have exactly 4 options")
	}
	if q.CorrectAnswer == "" {
		return NewValidationError("correct answer is required")
	}
	if !q.HasOption(q.CorrectAnswer) {
		return NewValidationError("correct answer must match one of the options")
	}
	if q.Points <= 0 {
		return NewValidationError("points must be positive")
	}
	return nil
}

// HasOption reports whether answer equals one of the options byte-for-byte
// after trimming.
func (q *Question) HasOption(answer string) bool {
	trimmed := strings.TrimSpace(answer)
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == trimmed {
			return true
		}
	}
	return false
}

// ValidationError represents a validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}
