package player

import (
	"lessonclash/internal/models"
)

// Sequencer owns the ordered item list, the cursor and the per-item attempt
// status. Each item walks idle (unattempted) → evaluated, then the cursor
// advances; advancing past the last item enters the terminal complete state.
type Sequencer struct {
	items    []models.Item
	index    int
	statuses []models.AttemptStatus
	complete bool
}

// NewSequencer creates a sequencer positioned at the first item
func NewSequencer(items []models.Item) *Sequencer {
	return &Sequencer{
		items:    items,
		statuses: make([]models.AttemptStatus, len(items)),
	}
}

// Restore positions the sequencer at a previously persisted index. An index
// at or past the end, or a persisted completion flag, restores the terminal
// complete state.
func (s *Sequencer) Restore(index int, completed bool) {
	if index < 0 {
		index = 0
	}
	if completed || index >= len(s.items) {
		s.index = len(s.items)
		s.complete = true
		return
	}
	s.index = index
}

// Current returns the item under the cursor; ok is false once complete
func (s *Sequencer) Current() (models.Item, bool) {
	if s.complete || s.index >= len(s.items) {
		return models.Item{}, false
	}
	return s.items[s.index], true
}

// Index returns the 0-based cursor position
func (s *Sequencer) Index() int {
	return s.index
}

// Len returns the number of items in the lesson
func (s *Sequencer) Len() int {
	return len(s.items)
}

// Complete reports whether the cursor has advanced past the last item
func (s *Sequencer) Complete() bool {
	return s.complete
}

// CurrentStatus returns the attempt status of the item under the cursor
func (s *Sequencer) CurrentStatus() models.AttemptStatus {
	if s.complete || s.index >= len(s.statuses) {
		return models.AttemptUnattempted
	}
	return s.statuses[s.index]
}

// Evaluated reports whether the current item has already been checked
func (s *Sequencer) Evaluated() bool {
	return s.CurrentStatus() != models.AttemptUnattempted
}

// MarkEvaluated records the check outcome for the current item. Returns
// false when there is no current item or it was already evaluated.
func (s *Sequencer) MarkEvaluated(correct bool) bool {
	if _, ok := s.Current(); !ok {
		return false
	}
	if s.statuses[s.index] != models.AttemptUnattempted {
		return false
	}
	if correct {
		s.statuses[s.index] = models.AttemptCorrect
	} else {
		s.statuses[s.index] = models.AttemptIncorrect
	}
	return true
}

// Advance moves the cursor to the next item, or into the terminal complete
// state past the last one. No-op once complete.
func (s *Sequencer) Advance() bool {
	if s.complete {
		return false
	}
	s.index++
	if s.index >= len(s.items) {
		s.complete = true
	}
	return true
}

// ProgressFraction is the fraction of items the cursor has passed, 1.0 once
// complete (or for an empty lesson).
func (s *Sequencer) ProgressFraction() float64 {
	if len(s.items) == 0 || s.complete {
		return 1
	}
	return float64(s.index) / float64(len(s.items))
}
