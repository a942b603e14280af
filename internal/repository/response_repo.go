package repository

import (
	"time"

	"lessonclash/internal/database"
	"lessonclash/internal/models"
)

// ResponseRepository stores the append-only audit trail of answer checks.
type ResponseRepository struct {
	db *database.DB
}

// NewResponseRepository creates a new response repository
func NewResponseRepository(db *database.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// RecordResponse appends one evaluated answer to the audit log.
func (r *ResponseRepository) RecordResponse(kidID, lessonID int64, itemID, answer string, isCorrect bool) error {
	query := `
		INSERT INTO item_responses (kid_id, lesson_id, item_id, answer, is_correct, responded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, kidID, lessonID, itemID, answer, isCorrect, time.Now())
	return err
}

// GetLessonResponses returns a kid's recorded answers for a lesson, newest
// first.
func (r *ResponseRepository) GetLessonResponses(kidID, lessonID int64) ([]models.ItemResponse, error) {
	query := `
		SELECT id, kid_id, lesson_id, item_id, answer, is_correct, responded_at
		FROM item_responses
		WHERE kid_id = ? AND lesson_id = ?
		ORDER BY responded_at DESC
	`

	rows, err := r.db.Query(query, kidID, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []models.ItemResponse
	for rows.Next() {
		var resp models.ItemResponse
		if err := rows.Scan(&resp.ID, &resp.KidID, &resp.LessonID, &resp.ItemID, &resp.Answer, &resp.IsCorrect, &resp.RespondedAt); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// CountCorrect returns how many distinct items the kid has answered
// correctly in a lesson.
func (r *ResponseRepository) CountCorrect(kidID, lessonID int64) (int, error) {
	query := `
		SELECT COUNT(DISTINCT item_id)
		FROM item_responses
		WHERE kid_id = ? AND lesson_id = ? AND is_correct = ` + r.db.Dialect.BoolValue(true)

	var count int
	err := r.db.QueryRow(query, kidID, lessonID).Scan(&count)
	return count, err
}
