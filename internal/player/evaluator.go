package player

import (
	"strings"

	"lessonclash/internal/models"
)

// EvalResult is the outcome of checking one candidate answer
type EvalResult struct {
	IsCorrect bool
}

// Evaluate decides correctness of candidate using the item kind's comparison
// rule. Choice answers are option identifiers and compared exactly (they are
// system-generated, not user text). Token-arrangement answers are the
// space-joined ordered token texts and compared case-insensitively against
// the canonical sentence, with no partial credit and no other normalization.
//
// Non-interactive kinds are never scored; the controller advances those
// without calling Evaluate. An item with no authored correct answer can
// never be evaluated correct.
func Evaluate(item models.Item, candidate string) EvalResult {
	switch item.Kind {
	case models.ItemSingleChoice, models.ItemImageChoice:
		if item.Choice == nil || item.Choice.CorrectOptionID == "" {
			return EvalResult{}
		}
		return EvalResult{IsCorrect: candidate == item.Choice.CorrectOptionID}
	case models.ItemTokenArrangement:
		if item.Arrangement == nil || item.Arrangement.CorrectAnswer == "" {
			return EvalResult{}
		}
		return EvalResult{IsCorrect: strings.EqualFold(candidate, item.Arrangement.CorrectAnswer)}
	case models.ItemSectionBreak, models.ItemStaticContent:
		return EvalResult{}
	}
	return EvalResult{}
}
