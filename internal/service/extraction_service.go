package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mockanytime/internal/cache"
	"mockanytime/internal/domain"
	"mockanytime/internal/logger"

	"go.uber.org/zap"
)

// ExtractionService turns an uploaded document into a validated question set
// and persists it into the assessment bank.
type ExtractionService interface {
	ExtractQuestionsFromDocument(ctx context.Context, data []byte, filename, topicID, subtopicID string) ([]*domain.Question, error)
	GetQuestionsByTopic(ctx context.Context, topicID string) ([]*domain.Question, error)
}

type extractionService struct {
	textExtractor     domain.TextExtractor
	questionExtractor domain.QuestionExtractor
	questionRepo      domain.QuestionRepository
	cache             domain.Cache
	cacheTTL          time.Duration
}

// NewExtractionService creates a new ExtractionService. questionRepo and
// resultCache are optional; nil disables persistence or caching respectively.
func NewExtractionService(
	textExtractor domain.TextExtractor,
	questionExtractor domain.QuestionExtractor,
	questionRepo domain.QuestionRepository,
	resultCache domain.Cache,
	cacheTTL time.Duration,
) ExtractionService {
	return &extractionService{
		textExtractor:     textExtractor,
		questionExtractor: questionExtractor,
		questionRepo:      questionRepo,
		cache:             resultCache,
		cacheTTL:          cacheTTL,
	}
}

// ExtractQuestionsFromDocument runs the pipeline for one request: text
// extraction, question generation, then persistence. The three stages run
// strictly in sequence and share no state with concurrent requests.
func (s *extractionService) ExtractQuestionsFromDocument(ctx context.Context, data []byte, filename, topicID, subtopicID string) ([]*domain.Question, error) {
	l := logger.Get()

	cacheKey := ""
	if s.cache != nil {
		cacheKey = cache.ExtractionResultKey(data, topicID, subtopicID)
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var questions []*domain.Question
			if err := json.Unmarshal([]byte(cached), &questions); err == nil {
				l.Info("Returning cached extraction result",
					zap.String("filename", filename),
					zap.Int("count", len(questions)))
				return questions, nil
			}
			l.Warn("Discarding undecodable cached extraction result", zap.String("key", cacheKey))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			// A flaky cache degrades to a miss.
			l.Warn("Extraction cache lookup failed", zap.Error(err))
		}
	}

	text, err := s.textExtractor.Extract(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionExtractor.ExtractQuestions(ctx, text, topicID, subtopicID)
	if err != nil {
		return nil, err
	}

	if s.questionRepo != nil && len(questions) > 0 {
		if err := s.questionRepo.SaveQuestions(ctx, questions); err != nil {
			// The extraction itself succeeded; the caller still gets the
			// questions and can retry persistence.
			l.Error("Failed to persist extracted questions",
				zap.Error(err),
				zap.String("topic_id", topicID))
		}
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(questions); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(encoded), s.cacheTTL); err != nil {
				l.Warn("Failed to cache extraction result", zap.Error(err))
			}
		}
	}

	l.Info("Document extraction completed",
		zap.String("filename", filename),
		zap.String("topic_id", topicID),
		zap.Int("question_count", len(questions)))
	return questions, nil
}

// GetQuestionsByTopic returns previously persisted questions for a topic.
func (s *extractionService) GetQuestionsByTopic(ctx context.Context, topicID string) ([]*domain.Question, error) {
	if s.questionRepo == nil {
		return nil, domain.NewNotFoundError("question bank is not configured")
	}
	questions, err := s.questionRepo.GetQuestionsByTopic(ctx, topicID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load questions for topic", err)
	}
	return questions, nil
}
