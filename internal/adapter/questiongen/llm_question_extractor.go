package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mockanytime/internal/domain"
	"mockanytime/internal/logger"
	"mockanytime/internal/util"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const defaultCallTimeout = 60 * time.Second

// promptTemplate embeds the extracted document text into a fixed instruction
// set. The correctAnswer rule is repeated here as an instruction, but the
// model is not trusted to obey it; see buildQuestion.
const promptTemplate = `Analyze the following text and extract all multiple choice questions.
For each question, identify:
- The question text
- Four options
- The correct answer (must match one of the options exactly)

Respond with ONLY a single JSON object in the following format:
{
  "questions": [
    {
      "text": "The question string",
      "options": ["option 1", "option 2", "option 3", "option 4"],
      "correctAnswer": "one of the strings from the options array",
      "type": "mcq",
      "points": 1
    }
  ]
}

Rules:
1. Each question must have exactly 4 options.
2. correctAnswer must exactly match one of the 4 options.
3. Strip leading enumeration labels such as "110)" or "a)" from question and option text.
4. If a question cannot be reconstructed cleanly from noisy or OCR-damaged fragments, omit it instead of fabricating content.

Text to analyze:
%s`

// llmQuestion is the typed intermediate representation of one question object
// in the model's response, before validation.
type llmQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Type          string   `json:"type"`
	Points        int      `json:"points"`
	Explanation   string   `json:"explanation"`
}

type llmQuestionList struct {
	Questions []llmQuestion `json:"questions"`
}

// LLMQuestionExtractor implements domain.QuestionExtractor on top of a
// langchaingo model.
type LLMQuestionExtractor struct {
	llm     llms.Model
	timeout time.Duration
}

// NewLLMQuestionExtractor creates a new instance of LLMQuestionExtractor.
func NewLLMQuestionExtractor(llm llms.Model, timeout time.Duration) domain.QuestionExtractor {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &LLMQuestionExtractor{llm: llm, timeout: timeout}
}

var _ domain.QuestionExtractor = (*LLMQuestionExtractor)(nil)

// ExtractQuestions implements domain.QuestionExtractor. A failed generation
// call propagates as GENERATION_FAILED; a malformed response degrades to an
// empty slice, because a model formatting slip must not crash the caller's
// request.
func (e *LLMQuestionExtractor) ExtractQuestions(ctx context.Context, text, topicID, subtopicID string) ([]*domain.Question, error) {
	l := logger.Get()

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, text)
	rawResponse, err := llms.GenerateFromSinglePrompt(callCtx, e.llm, prompt, llms.WithTemperature(0.1))
	if err != nil {
		l.Error("LLM generation call failed", zap.Error(err))
		return nil, domain.NewGenerationFailedError(err)
	}

	l.Debug("Raw LLM response received", zap.String("raw_response", rawResponse))

	questions := make([]*domain.Question, 0)
	for _, parsed := range parseResponse(rawResponse) {
		question, ok := buildQuestion(parsed, topicID, subtopicID)
		if !ok {
			l.Warn("Dropping malformed question from LLM response",
				zap.String("question_text", parsed.Text))
			continue
		}
		questions = append(questions, question)
	}

	l.Info("Parsed questions from LLM response",
		zap.Int("count", len(questions)),
		zap.String("topic_id", topicID))
	return questions, nil
}

// parseResponse sanitizes the raw model output and parses it into the typed
// intermediate shape. Malformed output yields nil, never an error: the
// fallback scan for a bare array is best effort only.
func parseResponse(raw string) []llmQuestion {
	cleaned := stripThinkTags(strings.TrimSpace(raw))
	cleaned = stripCodeFences(cleaned)

	var list llmQuestionList
	if err := json.Unmarshal([]byte(cleaned), &list); err == nil {
		return list.Questions
	}

	// Best-effort fallback: locate an embedded bare array between the first
	// '[' and the last ']'.
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start != -1 && end > start {
		var questions []llmQuestion
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &questions); err == nil {
			return questions
		}
	}

	logger.Get().Warn("Could not parse LLM response as question list",
		zap.String("raw_response", raw))
	return nil
}

// stripCodeFences removes surrounding triple-backtick markup, with or without
// a language tag, so that fencing is transparent to parsing.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag such as "json" on the opening fence line.
	if idx := strings.Index(s, "\n"); idx != -1 {
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// stripThinkTags removes <think>...</think> blocks some models prepend to
// their structured output.
func stripThinkTags(s string) string {
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}

// buildQuestion validates one parsed question and backfills the contextual
// fields. The correctAnswer instruction in the prompt is enforced here
// independently: a case- and whitespace-insensitive match is coerced to the
// canonical option text, anything else drops the question.
func buildQuestion(parsed llmQuestion, topicID, subtopicID string) (*domain.Question, bool) {
	text := strings.TrimSpace(parsed.Text)
	if text == "" {
		return nil, false
	}
	if len(parsed.Options) != domain.OptionCount {
		return nil, false
	}

	options := make([]string, domain.OptionCount)
	for i, opt := range parsed.Options {
		options[i] = strings.TrimSpace(opt)
	}

	correct, ok := matchOption(options, parsed.CorrectAnswer)
	if !ok {
		return nil, false
	}

	questionType := strings.TrimSpace(parsed.Type)
	if questionType == "" {
		questionType = domain.QuestionTypeMCQ
	}

	points := parsed.Points
	if points <= 0 {
		points = domain.DefaultPoints
	}

	return &domain.Question{
		ID:            util.NewULID(),
		Text:          text,
		Type:          questionType,
		Options:       options,
		CorrectAnswer: correct,
		Explanation:   strings.TrimSpace(parsed.Explanation),
		Points:        points,
		TopicID:       topicID,
		SubtopicID:    subtopicID,
	}, true
}

// matchOption finds the option matching answer, ignoring case and interior
// whitespace differences, and returns the canonical option text.
func matchOption(options []string, answer string) (string, bool) {
	normalized := normalizeAnswer(answer)
	if normalized == "" {
		return "", false
	}
	for _, opt := range options {
		if normalizeAnswer(opt) == normalized {
			return opt, true
		}
	}
	return "", false
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
