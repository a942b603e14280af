package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"lessonclash/internal/database"
	"lessonclash/internal/models"
)

// LessonRepository handles lesson and lesson-item database operations. It is
// the read-only item source for the playback engine; authoring happens in an
// external subsystem.
type LessonRepository struct {
	db *database.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *database.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// GetLessons retrieves all lessons with their item counts
func (r *LessonRepository) GetLessons() ([]models.Lesson, error) {
	query := `
		SELECT l.id, l.title, l.created_at, COUNT(i.id)
		FROM lessons l
		LEFT JOIN lesson_items i ON i.lesson_id = l.id
		GROUP BY l.id, l.title, l.created_at
		ORDER BY l.id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		if err := rows.Scan(&lesson.ID, &lesson.Title, &lesson.CreatedAt, &lesson.ItemCount); err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// GetLessonByID retrieves a single lesson, or nil when it does not exist
func (r *LessonRepository) GetLessonByID(lessonID int64) (*models.Lesson, error) {
	query := `
		SELECT l.id, l.title, l.created_at, COUNT(i.id)
		FROM lessons l
		LEFT JOIN lesson_items i ON i.lesson_id = l.id
		WHERE l.id = ?
		GROUP BY l.id, l.title, l.created_at
	`

	lesson := &models.Lesson{}
	err := r.db.QueryRow(query, lessonID).Scan(&lesson.ID, &lesson.Title, &lesson.CreatedAt, &lesson.ItemCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// LoadItems returns the lesson's items in authored order
func (r *LessonRepository) LoadItems(lessonID int64) ([]models.Item, error) {
	query := `
		SELECT id, kind, prompt, options, tokens, correct_answer, reward_value, required
		FROM lesson_items
		WHERE lesson_id = ?
		ORDER BY position
	`

	rows, err := r.db.Query(query, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// scanItem builds the tagged item variant from a lesson_items row
func scanItem(rows *sql.Rows) (models.Item, error) {
	var (
		item          models.Item
		kind          string
		optionsJSON   sql.NullString
		tokensJSON    sql.NullString
		correctAnswer sql.NullString
		rewardValue   sql.NullInt64
	)

	err := rows.Scan(&item.ID, &kind, &item.Prompt, &optionsJSON, &tokensJSON, &correctAnswer, &rewardValue, &item.Required)
	if err != nil {
		return models.Item{}, err
	}

	item.Kind = models.ItemKind(kind)
	item.RewardValue = models.DefaultRewardValue
	if rewardValue.Valid && rewardValue.Int64 >= 0 {
		item.RewardValue = int(rewardValue.Int64)
	}

	switch item.Kind {
	case models.ItemSingleChoice, models.ItemImageChoice:
		spec := &models.ChoiceSpec{CorrectOptionID: correctAnswer.String}
		if optionsJSON.Valid && optionsJSON.String != "" {
			if err := json.Unmarshal([]byte(optionsJSON.String), &spec.Options); err != nil {
				return models.Item{}, fmt.Errorf("item %s: invalid options: %w", item.ID, err)
			}
		}
		item.Choice = spec
	case models.ItemTokenArrangement:
		spec := &models.ArrangementSpec{CorrectAnswer: correctAnswer.String}
		if tokensJSON.Valid && tokensJSON.String != "" {
			if err := json.Unmarshal([]byte(tokensJSON.String), &spec.Tokens); err != nil {
				return models.Item{}, fmt.Errorf("item %s: invalid tokens: %w", item.ID, err)
			}
		}
		item.Arrangement = spec
	}

	return item, nil
}
