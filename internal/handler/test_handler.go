package handler

import (
	"io"

	"mockanytime/internal/domain"
	"mockanytime/internal/dto"
	"mockanytime/internal/logger"
	"mockanytime/internal/service"
	"mockanytime/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TestHandler handles test-construction HTTP requests
type TestHandler struct {
	service   service.ExtractionService
	validator *validation.Validator
}

// NewTestHandler creates a new TestHandler instance
func NewTestHandler(service service.ExtractionService, validator *validation.Validator) *TestHandler {
	return &TestHandler{
		service:   service,
		validator: validator,
	}
}

// ExtractQuestions handles POST /api/tests/extract-questions. It accepts a
// multipart upload with a "file" part plus topicId and subtopicId fields and
// returns the questions extracted from the document.
func (h *TestHandler) ExtractQuestions(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError("file is required")
	}

	topicID := c.FormValue("topicId")
	subtopicID := c.FormValue("subtopicId")

	if err := h.validator.ValidateExtractionRequest(fileHeader.Filename, topicID, subtopicID, fileHeader.Size); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("failed to open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInternalError("failed to read uploaded file", err)
	}

	logger.Get().Info("Received extraction request",
		zap.String("filename", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size),
		zap.String("topic_id", topicID),
	)

	questions, err := h.service.ExtractQuestionsFromDocument(c.UserContext(), data, fileHeader.Filename, topicID, subtopicID)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewExtractQuestionsResponse(questions))
}

// GetQuestionsByTopic handles GET /api/tests/topics/:topicId/questions.
func (h *TestHandler) GetQuestionsByTopic(c *fiber.Ctx) error {
	topicID := c.Params("topicId")
	if err := h.validator.ValidateTopicID(topicID); err != nil {
		return err
	}

	questions, err := h.service.GetQuestionsByTopic(c.UserContext(), topicID)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewExtractQuestionsResponse(questions))
}
