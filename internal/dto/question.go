package dto

import "mockanytime/internal/domain"

// QuestionResponse represents one extracted question in the API response
type QuestionResponse struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Points        int      `json:"points"`
	TopicID       string   `json:"topicId"`
	SubtopicID    string   `json:"subtopicId"`
}

// ExtractQuestionsResponse represents the result of a document extraction
type ExtractQuestionsResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Count     int                `json:"count"`
}

// HealthResponse reports service readiness
type HealthResponse struct {
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewExtractQuestionsResponse maps domain questions to the response shape.
func NewExtractQuestionsResponse(questions []*domain.Question) ExtractQuestionsResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, QuestionResponse{
			ID:            q.ID,
			Text:          q.Text,
			Type:          q.Type,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Points:        q.Points,
			TopicID:       q.TopicID,
			SubtopicID:    q.SubtopicID,
		})
	}
	return ExtractQuestionsResponse{Questions: responses, Count: len(responses)}
}
