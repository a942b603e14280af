package models

import "time"

// AttemptStatus is the per-item outcome within a live session
type AttemptStatus int

const (
	AttemptUnattempted AttemptStatus = iota
	AttemptCorrect
	AttemptIncorrect
)

func (s AttemptStatus) String() string {
	switch s {
	case AttemptCorrect:
		return "correct"
	case AttemptIncorrect:
		return "incorrect"
	default:
		return "unattempted"
	}
}

// Lesson is the read-side summary of an authored lesson
type Lesson struct {
	ID        int64
	Title     string
	ItemCount int
	CreatedAt time.Time
}

// ProgressSnapshot is the minimal durable state needed to resume a kid's
// traversal of a lesson. Writing the same snapshot twice must leave the
// stored row unchanged.
type ProgressSnapshot struct {
	Lives        int
	Reward       int
	CurrentIndex int
	Completed    bool
}

// ItemResponse is one row of the append-only answer audit trail
type ItemResponse struct {
	ID          int64
	KidID       int64
	LessonID    int64
	ItemID      string
	Answer      string
	IsCorrect   bool
	RespondedAt time.Time
}
