package domain

import (
	"context"
	"time"
)

// TextExtractor converts a file's raw bytes plus its declared filename into
// plain text. The filename is used only for extension sniffing.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// OCREngine returns best-effort recognized text for an image. Implementations
// must not fail for a bad image: any recognition failure yields an empty
// string and a nil error. The single exception is ErrOCRUnavailable, returned
// when the engine itself is missing so callers can stop retrying per image.
type OCREngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// QuestionExtractor turns extracted document text into validated questions.
// The returned slice may be empty; a malformed model response is not an error.
type QuestionExtractor interface {
	ExtractQuestions(ctx context.Context, text, topicID, subtopicID string) ([]*Question, error)
}

// QuestionRepository persists extracted questions into the assessment bank.
type QuestionRepository interface {
	SaveQuestions(ctx context.Context, questions []*Question) error
	GetQuestionsByTopic(ctx context.Context, topicID string) ([]*Question, error)
}

// Cache defines the caching operations the service layer relies on.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
