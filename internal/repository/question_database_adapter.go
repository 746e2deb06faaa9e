package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mockanytime/internal/domain"
	"mockanytime/internal/repository/models"
	"mockanytime/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

var _ domain.QuestionRepository = (*QuestionDatabaseAdapter)(nil)

// SaveQuestions persists an extraction's question set in a single
// transaction. Questions arrive with their ids already generated; a missing
// id gets one here as a safety net.
func (a *QuestionDatabaseAdapter) SaveQuestions(ctx context.Context, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO questions (
		id, question_text, question_type, options, correct_answer,
		explanation, points, topic_id, subtopic_id, created_at, updated_at
	) VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11)`

	now := time.Now()
	for _, question := range questions {
		model := toModelQuestion(question, now)
		if model.ID == "" {
			model.ID = util.NewULID()
		}
		optionsValue, err := model.Options.Value()
		if err != nil {
			return fmt.Errorf("failed to encode options for question %s: %w", model.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			model.ID,
			model.Text,
			model.Type,
			optionsValue,
			model.CorrectAnswer,
			model.Explanation,
			model.Points,
			model.TopicID,
			model.SubtopicID,
			model.CreatedAt,
			model.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert question %s: %w", model.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit questions: %w", err)
	}
	return nil
}

// GetQuestionsByTopic returns all questions stored for a topic, oldest first.
func (a *QuestionDatabaseAdapter) GetQuestionsByTopic(ctx context.Context, topicID string) ([]*domain.Question, error) {
	query := `SELECT
		id "id",
		question_text "question_text",
		question_type "question_type",
		options "options",
		correct_answer "correct_answer",
		explanation "explanation",
		points "points",
		topic_id "topic_id",
		subtopic_id "subtopic_id",
		created_at "created_at",
		updated_at "updated_at"
	FROM questions
	WHERE topic_id = :1
	ORDER BY created_at`

	var modelQuestions []models.Question
	if err := a.db.SelectContext(ctx, &modelQuestions, query, topicID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get questions for topic %s: %w", topicID, err)
	}

	questions := make([]*domain.Question, 0, len(modelQuestions))
	for i := range modelQuestions {
		questions = append(questions, toDomainQuestion(&modelQuestions[i]))
	}
	return questions, nil
}

func toModelQuestion(q *domain.Question, now time.Time) *models.Question {
	return &models.Question{
		ID:            q.ID,
		Text:          q.Text,
		Type:          q.Type,
		Options:       models.StringSlice(q.Options),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   util.StringToNullString(q.Explanation),
		Points:        q.Points,
		TopicID:       util.StringToNullString(q.TopicID),
		SubtopicID:    util.StringToNullString(q.SubtopicID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:            m.ID,
		Text:          m.Text,
		Type:          m.Type,
		Options:       []string(m.Options),
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   util.NullStringToString(m.Explanation),
		Points:        m.Points,
		TopicID:       util.NullStringToString(m.TopicID),
		SubtopicID:    util.NullStringToString(m.SubtopicID),
	}
}
