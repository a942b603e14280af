package models

// ItemKind identifies which variant of lesson item this is. Kind-specific
// fields live in the Choice/Arrangement payloads; content kinds carry neither.
type ItemKind string

const (
	ItemSectionBreak     ItemKind = "section-break"
	ItemStaticContent    ItemKind = "static-content"
	ItemSingleChoice     ItemKind = "single-choice"
	ItemImageChoice      ItemKind = "image-choice"
	ItemTokenArrangement ItemKind = "token-arrangement"
)

// DefaultRewardValue is used when an authored item carries no explicit reward.
const DefaultRewardValue = 10

// ChoiceOption is one selectable answer for a choice item
type ChoiceOption struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl,omitempty"` // image-choice only
}

// ChoiceSpec holds the fields specific to single-choice and image-choice items
type ChoiceSpec struct {
	Options         []ChoiceOption
	CorrectOptionID string
}

// ArrangementSpec holds the fields specific to token-arrangement items
type ArrangementSpec struct {
	Tokens        []string // candidate tokens in authored order
	CorrectAnswer string   // canonical sentence the ordered tokens must form
}

// Item is an immutable exercise or content unit within a lesson. Items are
// authored externally and read-only to the playback engine.
type Item struct {
	ID          string
	Kind        ItemKind
	Prompt      string
	RewardValue int
	Required    bool
	Choice      *ChoiceSpec      // non-nil for single-choice / image-choice
	Arrangement *ArrangementSpec // non-nil for token-arrangement
}

// Interactive reports whether the item takes an answer at all. Section breaks
// and static content are advanced through without scoring.
func (i Item) Interactive() bool {
	switch i.Kind {
	case ItemSingleChoice, ItemImageChoice, ItemTokenArrangement:
		return true
	}
	return false
}
