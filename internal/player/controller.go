package player

import (
	"log"
	"strings"
	"sync"

	"lessonclash/internal/models"
)

// ResponseLog is the fire-and-forget answer audit collaborator, consumed by
// downstream reporting. Failures never affect play.
type ResponseLog interface {
	RecordResponse(kidID, lessonID int64, itemID, answer string, isCorrect bool) error
}

// CheckOutcome reports what a check intent did. A rejected intent (no answer
// supplied, lives exhausted, lesson complete) leaves Applied false and
// changes no state.
type CheckOutcome struct {
	Applied   bool
	IsCorrect bool
	Advanced  bool // the check acted as an advance instead of an evaluation
}

// ViewState is the UI-facing projection of a live session
type ViewState struct {
	Item             *models.Item
	Status           models.AttemptStatus
	Lives            int
	Reward           int
	Completed        bool
	ProgressFraction float64
	Bank             []Token // token-arrangement items only
	Answer           []Token
}

// Controller owns one kid's live traversal of one lesson: the sequencer, the
// ledger, the current item's token arrangement and the persistence gateway.
// It is constructed per session and released on exit; there is no shared
// global state between sessions. All intents are serialized through its
// mutex, and every successful state-changing intent schedules a snapshot
// write through the gateway.
type Controller struct {
	mu       sync.Mutex
	kidID    int64
	lessonID int64

	seq    *Sequencer
	ledger *Ledger
	arr    *Arrangement // non-nil while the current item is token-arrangement

	gateway *Gateway
	reslog  ResponseLog

	selected   string // pending option ID for choice items
	hasAnswer  bool
	onComplete func()
	notified   bool
}

// NewController builds the session, hydrated from snap when non-nil or
// defaulted (full lives, zero reward, first item) otherwise.
func NewController(kidID, lessonID int64, items []models.Item, snap *models.ProgressSnapshot, maxLives int, gateway *Gateway, reslog ResponseLog) *Controller {
	c := &Controller{
		kidID:    kidID,
		lessonID: lessonID,
		seq:      NewSequencer(items),
		gateway:  gateway,
		reslog:   reslog,
	}
	if snap != nil {
		c.seq.Restore(snap.CurrentIndex, snap.Completed)
		c.ledger = RestoreLedger(maxLives, snap.Lives, snap.Reward)
		c.notified = snap.Completed
	} else {
		c.ledger = NewLedger(maxLives)
	}
	c.resetArrangement()
	return c
}

// SetCompletionHook registers fn to run once, when the session first
// advances into the complete state. It runs on its own goroutine.
func (c *Controller) SetCompletionHook(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onComplete = fn
}

// resetArrangement rebuilds the token model whole for the current item.
// Arrangement state is never carried across items, so stale token identities
// cannot bleed into a new item.
func (c *Controller) resetArrangement() {
	c.arr = nil
	c.selected = ""
	c.hasAnswer = false
	if item, ok := c.seq.Current(); ok && item.Kind == models.ItemTokenArrangement && item.Arrangement != nil {
		c.arr = NewArrangement(item.Arrangement.Tokens)
	}
}

// needsAnswer reports whether the item blocks check until an answer exists.
// Malformed items (a choice with no options, an arrangement with no tokens)
// degrade to content items and are advanced through without scoring.
func needsAnswer(item models.Item) bool {
	switch item.Kind {
	case models.ItemSingleChoice, models.ItemImageChoice:
		return item.Choice != nil && len(item.Choice.Options) > 0
	case models.ItemTokenArrangement:
		return item.Arrangement != nil && len(item.Arrangement.Tokens) > 0
	}
	return false
}

// SubmitAnswer records the selected option for a choice item. Rejected when
// the current item is not a choice item, is already evaluated, or the option
// does not exist.
func (c *Controller) SubmitAnswer(optionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.seq.Current()
	if !ok || c.seq.Evaluated() {
		return false
	}
	switch item.Kind {
	case models.ItemSingleChoice, models.ItemImageChoice:
	default:
		return false
	}
	if item.Choice == nil || !hasOption(item.Choice.Options, optionID) {
		return false
	}
	c.selected = optionID
	c.hasAnswer = true
	c.scheduleSave()
	return true
}

func hasOption(options []models.ChoiceOption, id string) bool {
	for _, opt := range options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// MoveToken routes an arrange intent to the current item's token model
func (c *Controller) MoveToken(tokenID string, target Container, index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.arr == nil || !c.arr.Move(tokenID, target, index) {
		return false
	}
	c.scheduleSave()
	return true
}

// BeginDrag starts a drag interaction on the current token arrangement
func (c *Controller) BeginDrag(tokenID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.arr != nil && c.arr.BeginDrag(tokenID)
}

// DragHover applies the provisional position for the dragged token
func (c *Controller) DragHover(target Container, index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.arr != nil && c.arr.DragHover(target, index)
}

// DropCommit finalizes the drag at its last provisional position
func (c *Controller) DropCommit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.arr == nil || !c.arr.DropCommit() {
		return false
	}
	c.scheduleSave()
	return true
}

// DropCancel reverts the drag to the pre-drag arrangement
func (c *Controller) DropCancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.arr != nil && c.arr.DropCancel()
}

// Check evaluates the current item's candidate answer. Guard order: an
// exhausted ledger rejects the intent outright; an item that requires an
// answer rejects it when none is set. Content items, and items whose
// feedback is already showing, treat check as an advance. On evaluation the
// ledger and sequencer are updated together, the response is logged, and a
// snapshot write is scheduled.
func (c *Controller) Check() CheckOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ledger.Exhausted() {
		return CheckOutcome{}
	}
	item, ok := c.seq.Current()
	if !ok {
		return CheckOutcome{}
	}
	if !needsAnswer(item) || c.seq.Evaluated() {
		advanced := c.advanceLocked()
		return CheckOutcome{Applied: advanced, Advanced: advanced}
	}
	candidate, ok := c.candidateAnswer(item)
	if !ok {
		return CheckOutcome{}
	}

	result := Evaluate(item, candidate)
	c.ledger.ApplyResult(result.IsCorrect, item.RewardValue)
	c.seq.MarkEvaluated(result.IsCorrect)
	if c.arr != nil {
		c.arr.Disable()
	}
	c.recordResponse(item, candidate, result.IsCorrect)
	c.scheduleSave()
	return CheckOutcome{Applied: true, IsCorrect: result.IsCorrect}
}

// candidateAnswer derives the answer to evaluate: the space-joined ordered
// token texts for arrangements, the selected option ID for choices. ok is
// false when no answer has been supplied yet.
func (c *Controller) candidateAnswer(item models.Item) (string, bool) {
	switch item.Kind {
	case models.ItemTokenArrangement:
		if c.arr == nil {
			return "", false
		}
		parts := c.arr.CurrentAnswer()
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, " "), true
	case models.ItemSingleChoice, models.ItemImageChoice:
		if !c.hasAnswer {
			return "", false
		}
		return c.selected, true
	}
	return "", false
}

// Advance moves to the next item, or to the terminal complete state past the
// last one. A required item that has not been evaluated blocks advancing;
// further advances after completion are no-ops.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked()
}

func (c *Controller) advanceLocked() bool {
	item, ok := c.seq.Current()
	if !ok {
		return false
	}
	if item.Required && needsAnswer(item) && !c.seq.Evaluated() {
		return false
	}
	c.seq.Advance()
	c.resetArrangement()
	c.scheduleSave()
	if c.seq.Complete() && !c.notified {
		c.notified = true
		if c.onComplete != nil {
			go c.onComplete()
		}
	}
	return true
}

// ViewState derives the UI-facing state. Read-only and callable at any time,
// including after exhaustion or completion.
func (c *Controller) ViewState() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := ViewState{
		Status:           c.seq.CurrentStatus(),
		Lives:            c.ledger.Lives(),
		Reward:           c.ledger.Reward(),
		Completed:        c.seq.Complete(),
		ProgressFraction: c.seq.ProgressFraction(),
	}
	if item, ok := c.seq.Current(); ok {
		state.Item = &item
	}
	if c.arr != nil {
		state.Bank = c.arr.Bank()
		state.Answer = c.arr.Answer()
	}
	return state
}

// Snapshot returns the current durable state
func (c *Controller) Snapshot() models.ProgressSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() models.ProgressSnapshot {
	return models.ProgressSnapshot{
		Lives:        c.ledger.Lives(),
		Reward:       c.ledger.Reward(),
		CurrentIndex: c.seq.Index(),
		Completed:    c.seq.Complete(),
	}
}

// scheduleSave hands the latest state to the gateway. Fire-and-forget: play
// never blocks on storage.
func (c *Controller) scheduleSave() {
	if c.gateway != nil {
		c.gateway.Schedule(c.snapshotLocked())
	}
}

// recordResponse appends to the audit trail on its own goroutine. Failures
// are logged and play continues; the audit trail is independent of the
// snapshot write.
func (c *Controller) recordResponse(item models.Item, answer string, isCorrect bool) {
	if c.reslog == nil {
		return
	}
	kidID, lessonID := c.kidID, c.lessonID
	go func() {
		if err := c.reslog.RecordResponse(kidID, lessonID, item.ID, answer, isCorrect); err != nil {
			log.Printf("Error recording response for item %s: %v", item.ID, err)
		}
	}()
}

// Close flushes pending persistence. The session must not be used after.
func (c *Controller) Close() {
	c.mu.Lock()
	gateway := c.gateway
	c.mu.Unlock()
	if gateway != nil {
		gateway.Close()
	}
}
