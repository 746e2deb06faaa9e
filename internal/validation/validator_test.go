package validation

import (
	"errors"
	"strings"
	"testing"

	"mockanytime/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertInvalidInput(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
}

func TestValidateExtractionRequest(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateExtractionRequest("quiz.pdf", "topic-1", "sub_1", 1024))

	assertInvalidInput(t, v.ValidateExtractionRequest("", "topic-1", "sub-1", 1024))
	assertInvalidInput(t, v.ValidateExtractionRequest("noextension", "topic-1", "sub-1", 1024))
	assertInvalidInput(t, v.ValidateExtractionRequest("quiz.pdf", "", "sub-1", 1024))
	assertInvalidInput(t, v.ValidateExtractionRequest("quiz.pdf", "topic-1", "", 1024))
	assertInvalidInput(t, v.ValidateExtractionRequest("quiz.pdf", "topic 1", "sub-1", 1024))
	assertInvalidInput(t, v.ValidateExtractionRequest("quiz.pdf", "topic-1", "sub-1", 0))
	assertInvalidInput(t, v.ValidateExtractionRequest("quiz.pdf", "topic-1", "sub-1", MaxUploadSize+1))
	assertInvalidInput(t, v.ValidateExtractionRequest("quiz.pdf", strings.Repeat("a", 51), "sub-1", 1024))
}

func TestValidateTopicID(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateTopicID("01HYZXM0000000000000000000"))
	assertInvalidInput(t, v.ValidateTopicID(""))
	assertInvalidInput(t, v.ValidateTopicID("has spaces"))
}
