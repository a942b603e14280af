package repository

import (
	"database/sql"

	"lessonclash/internal/database"
	"lessonclash/internal/models"
)

// ProgressRepository is the durable progress store behind the persistence
// gateway. One row per (kid, lesson); writes are idempotent upserts.
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// ReadSnapshot retrieves the last persisted snapshot for a kid and lesson,
// or nil when the kid has never played this lesson.
func (r *ProgressRepository) ReadSnapshot(kidID, lessonID int64) (*models.ProgressSnapshot, error) {
	query := `
		SELECT lives, reward, current_index, completed
		FROM progress_snapshots
		WHERE kid_id = ? AND lesson_id = ?
	`

	snap := &models.ProgressSnapshot{}
	err := r.db.QueryRow(query, kidID, lessonID).Scan(&snap.Lives, &snap.Reward, &snap.CurrentIndex, &snap.Completed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// WriteSnapshot persists the snapshot, replacing any previous row for the
// same kid and lesson. Writing the same snapshot twice leaves the stored
// state unchanged.
func (r *ProgressRepository) WriteSnapshot(kidID, lessonID int64, snap models.ProgressSnapshot) error {
	query := `
		INSERT INTO progress_snapshots (kid_id, lesson_id, lives, reward, current_index, completed)
		VALUES (?, ?, ?, ?, ?, ?)
	` + r.db.Dialect.UpsertClause(
		[]string{"kid_id", "lesson_id"},
		[]string{"lives", "reward", "current_index", "completed"},
	)

	_, err := r.db.Exec(query, kidID, lessonID, snap.Lives, snap.Reward, snap.CurrentIndex, snap.Completed)
	return err
}

// DeleteSnapshot removes the stored progress for a kid and lesson. Used by
// the external "reset progress" administration path, not by live playback.
func (r *ProgressRepository) DeleteSnapshot(kidID, lessonID int64) error {
	query := "DELETE FROM progress_snapshots WHERE kid_id = ? AND lesson_id = ?"
	_, err := r.db.Exec(query, kidID, lessonID)
	return err
}
