package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	"mockanytime/internal/domain"
)

// MaxUploadSize caps accepted document uploads at 20 MiB.
const MaxUploadSize = 20 << 20

var validIdentifier = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateExtractionRequest checks the multipart fields of an extraction
// request before any file processing starts. Extension support is not checked
// here; that is the extractor's decision.
func (v *Validator) ValidateExtractionRequest(filename, topicID, subtopicID string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return domain.NewInvalidInputError("file is required")
	}
	if filepath.Ext(filename) == "" {
		return domain.NewInvalidInputError("filename must carry an extension")
	}
	if size <= 0 {
		return domain.NewInvalidInputError("uploaded file is empty")
	}
	if size > MaxUploadSize {
		return domain.NewInvalidInputError("uploaded file exceeds the 20MB limit")
	}
	if err := validateIdentifier("topicId", topicID); err != nil {
		return err
	}
	return validateIdentifier("subtopicId", subtopicID)
}

// ValidateTopicID checks the topic path parameter of a bank lookup.
func (v *Validator) ValidateTopicID(topicID string) error {
	return validateIdentifier("topicId", topicID)
}

func validateIdentifier(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewInvalidInputError(field + " is required")
	}
	if len(value) > 50 || !validIdentifier.MatchString(value) {
		return domain.NewInvalidInputError(field + " has an invalid format")
	}
	return nil
}
