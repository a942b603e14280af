package player

import (
	"sync"
	"testing"
	"time"

	"lessonclash/internal/models"
)

type fakeResponseLog struct {
	mu      sync.Mutex
	records []models.ItemResponse
}

func (f *fakeResponseLog) RecordResponse(kidID, lessonID int64, itemID, answer string, isCorrect bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, models.ItemResponse{
		KidID:     kidID,
		LessonID:  lessonID,
		ItemID:    itemID,
		Answer:    answer,
		IsCorrect: isCorrect,
	})
	return nil
}

func (f *fakeResponseLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func choiceItem(id, correct string, required bool) models.Item {
	return models.Item{
		ID:          id,
		Kind:        models.ItemSingleChoice,
		RewardValue: models.DefaultRewardValue,
		Required:    required,
		Choice: &models.ChoiceSpec{
			Options: []models.ChoiceOption{
				{ID: "a", Label: "first"},
				{ID: "b", Label: "second"},
			},
			CorrectOptionID: correct,
		},
	}
}

func arrangementItem(id, correct string, tokens ...string) models.Item {
	return models.Item{
		ID:          id,
		Kind:        models.ItemTokenArrangement,
		RewardValue: models.DefaultRewardValue,
		Arrangement: &models.ArrangementSpec{Tokens: tokens, CorrectAnswer: correct},
	}
}

func newTestController(items []models.Item, snap *models.ProgressSnapshot, maxLives int, store ProgressStore, reslog ResponseLog) *Controller {
	gateway := NewGateway(store, 7, 9, 10*time.Millisecond)
	return NewController(7, 9, items, snap, maxLives, gateway, reslog)
}

// moveByText moves the bank token with the given display text to the end of
// the answer container.
func moveByText(t *testing.T, c *Controller, text string) {
	t.Helper()
	state := c.ViewState()
	for _, tok := range state.Bank {
		if tok.Text == text {
			if !c.MoveToken(tok.ID, ContainerAnswer, len(state.Answer)) {
				t.Fatalf("MoveToken(%q) = false", text)
			}
			return
		}
	}
	t.Fatalf("token %q not in bank", text)
}

// Arranging "A red car" from a shuffled bank and checking scores correct and
// credits the item's reward.
func TestArrangeAndCheckCorrect(t *testing.T) {
	store := &fakeProgressStore{}
	c := newTestController([]models.Item{
		arrangementItem("i1", "A red car", "car", "A", "red"),
	}, nil, 5, store, nil)

	moveByText(t, c, "A")
	moveByText(t, c, "red")
	moveByText(t, c, "car")

	outcome := c.Check()
	if !outcome.Applied || !outcome.IsCorrect {
		t.Fatalf("Check() = %+v, want applied and correct", outcome)
	}

	state := c.ViewState()
	if state.Reward != models.DefaultRewardValue {
		t.Errorf("Reward = %d, want %d", state.Reward, models.DefaultRewardValue)
	}
	if state.Lives != 5 {
		t.Errorf("Lives = %d, want 5 (correct answer costs nothing)", state.Lives)
	}
	if state.Status != models.AttemptCorrect {
		t.Errorf("Status = %v, want correct", state.Status)
	}
}

func TestWrongChoiceCostsLife(t *testing.T) {
	store := &fakeProgressStore{}
	c := newTestController([]models.Item{choiceItem("i1", "b", false)}, nil, 5, store, nil)

	if !c.SubmitAnswer("a") {
		t.Fatal("SubmitAnswer(a) = false")
	}
	outcome := c.Check()
	if !outcome.Applied || outcome.IsCorrect {
		t.Fatalf("Check() = %+v, want applied and incorrect", outcome)
	}

	state := c.ViewState()
	if state.Lives != 4 {
		t.Errorf("Lives = %d, want 4", state.Lives)
	}
	if state.Reward != 0 {
		t.Errorf("Reward = %d, want 0", state.Reward)
	}
}

// With one life, one wrong answer exhausts the ledger; every later check is
// rejected with no state change and no scheduled write.
func TestExhaustionBlocksCheck(t *testing.T) {
	store := &fakeProgressStore{}
	c := newTestController([]models.Item{
		choiceItem("i1", "b", false),
		choiceItem("i2", "b", false),
	}, nil, 1, store, nil)

	c.SubmitAnswer("a")
	if outcome := c.Check(); !outcome.Applied {
		t.Fatalf("first Check() = %+v, want applied", outcome)
	}
	if got := c.ViewState().Lives; got != 0 {
		t.Fatalf("Lives = %d, want 0", got)
	}

	// Even a correct answer on the next item is refused
	c.Advance()
	c.SubmitAnswer("b")
	if outcome := c.Check(); outcome.Applied {
		t.Errorf("Check() while exhausted = %+v, want rejected", outcome)
	}

	state := c.ViewState()
	if state.Lives != 0 || state.Reward != 0 {
		t.Errorf("state mutated by rejected check: lives=%d reward=%d", state.Lives, state.Reward)
	}
}

// A rejected check schedules nothing: freeze the write count with no other
// intents in between.
func TestRejectedCheckSchedulesNoWrite(t *testing.T) {
	store := &fakeProgressStore{}
	c := newTestController([]models.Item{choiceItem("i1", "b", false)}, nil, 5, store, nil)

	// No answer submitted yet: guard rejects the intent
	if outcome := c.Check(); outcome.Applied {
		t.Fatalf("Check() without answer = %+v, want rejected", outcome)
	}
	time.Sleep(60 * time.Millisecond)
	if got := store.writeCount(); got != 0 {
		t.Errorf("write count after rejected check = %d, want 0", got)
	}
}

func TestContentItemCheckAdvances(t *testing.T) {
	c := newTestController([]models.Item{
		{ID: "i1", Kind: models.ItemSectionBreak},
		choiceItem("i2", "b", false),
	}, nil, 5, &fakeProgressStore{}, nil)

	outcome := c.Check()
	if !outcome.Applied || !outcome.Advanced {
		t.Fatalf("Check() on section break = %+v, want advance", outcome)
	}
	if item := c.ViewState().Item; item == nil || item.ID != "i2" {
		t.Error("section break did not advance to the next item")
	}
}

// After feedback is showing, a second check acts as the advance click, so an
// incorrect answer costs a life but never blocks progression.
func TestCheckAfterFeedbackAdvances(t *testing.T) {
	c := newTestController([]models.Item{
		choiceItem("i1", "b", true),
		choiceItem("i2", "b", false),
	}, nil, 5, &fakeProgressStore{}, nil)

	c.SubmitAnswer("a")
	if outcome := c.Check(); outcome.IsCorrect {
		t.Fatal("expected incorrect first check")
	}
	outcome := c.Check()
	if !outcome.Applied || !outcome.Advanced {
		t.Fatalf("second Check() = %+v, want advance past incorrect item", outcome)
	}
	if item := c.ViewState().Item; item == nil || item.ID != "i2" {
		t.Error("incorrect answer blocked progression")
	}
}

func TestRequiredItemBlocksAdvance(t *testing.T) {
	c := newTestController([]models.Item{
		choiceItem("i1", "b", true),
		choiceItem("i2", "b", false),
	}, nil, 5, &fakeProgressStore{}, nil)

	if c.Advance() {
		t.Fatal("Advance() past unanswered required item = true, want false")
	}
	c.SubmitAnswer("b")
	c.Check()
	if !c.Advance() {
		t.Error("Advance() after evaluation = false, want true")
	}
}

func TestAdvancePastLastItemIsTerminal(t *testing.T) {
	c := newTestController([]models.Item{
		{ID: "i1", Kind: models.ItemStaticContent},
	}, nil, 5, &fakeProgressStore{}, nil)

	if !c.Advance() {
		t.Fatal("Advance() = false")
	}
	state := c.ViewState()
	if !state.Completed || state.Item != nil {
		t.Fatalf("state = %+v, want completed with no current item", state)
	}
	if c.Advance() {
		t.Error("Advance() after completion = true, want no-op")
	}
	if outcome := c.Check(); outcome.Applied {
		t.Error("Check() after completion applied, want no-op")
	}
}

func TestHydrationFromSnapshot(t *testing.T) {
	snap := &models.ProgressSnapshot{Lives: 2, Reward: 30, CurrentIndex: 1}
	c := newTestController([]models.Item{
		choiceItem("i1", "b", false),
		choiceItem("i2", "b", false),
		choiceItem("i3", "b", false),
	}, snap, 5, &fakeProgressStore{}, nil)

	state := c.ViewState()
	if state.Item == nil || state.Item.ID != "i2" {
		t.Errorf("resumed at %v, want i2", state.Item)
	}
	if state.Lives != 2 || state.Reward != 30 {
		t.Errorf("lives=%d reward=%d, want 2/30", state.Lives, state.Reward)
	}
}

func TestArrangementRebuiltBetweenItems(t *testing.T) {
	c := newTestController([]models.Item{
		arrangementItem("i1", "b a", "a", "b"),
		arrangementItem("i2", "c d", "c", "d"),
	}, nil, 5, &fakeProgressStore{}, nil)

	moveByText(t, c, "b")
	moveByText(t, c, "a")
	c.Check()

	// Post-evaluation the arrangement is frozen but still inspectable
	frozen := c.ViewState()
	if len(frozen.Answer) != 2 {
		t.Fatalf("answer tokens = %d, want 2", len(frozen.Answer))
	}
	if c.MoveToken(frozen.Answer[0].ID, ContainerBank, 0) {
		t.Error("MoveToken() after evaluation = true, want rejected")
	}

	c.Advance()
	state := c.ViewState()
	if len(state.Answer) != 0 {
		t.Error("answer container leaked into the next item")
	}
	if len(state.Bank) != 2 || state.Bank[0].Text != "c" {
		t.Errorf("bank = %v, want fresh tokens for i2", state.Bank)
	}
	// Old item's token IDs mean nothing to the new arrangement
	if c.MoveToken(frozen.Answer[0].ID, ContainerAnswer, 0) {
		t.Error("stale token ID accepted by the new arrangement")
	}
}

func TestDragThroughController(t *testing.T) {
	c := newTestController([]models.Item{
		arrangementItem("i1", "a b", "a", "b"),
	}, nil, 5, &fakeProgressStore{}, nil)

	tok := c.ViewState().Bank[0]
	if !c.BeginDrag(tok.ID) {
		t.Fatal("BeginDrag() = false")
	}
	c.DragHover(ContainerAnswer, 0)
	if !c.DropCancel() {
		t.Fatal("DropCancel() = false")
	}
	if got := len(c.ViewState().Answer); got != 0 {
		t.Errorf("answer tokens after cancelled drag = %d, want 0", got)
	}
}

func TestSubmitAnswerValidation(t *testing.T) {
	c := newTestController([]models.Item{choiceItem("i1", "b", false)}, nil, 5, &fakeProgressStore{}, nil)

	if c.SubmitAnswer("nope") {
		t.Error("SubmitAnswer() of unknown option = true, want false")
	}
	if !c.SubmitAnswer("a") {
		t.Fatal("SubmitAnswer(a) = false")
	}
	c.Check()
	if c.SubmitAnswer("b") {
		t.Error("SubmitAnswer() after evaluation = true, want false")
	}
}

func TestResponseAuditRecorded(t *testing.T) {
	reslog := &fakeResponseLog{}
	c := newTestController([]models.Item{choiceItem("i1", "b", false)}, nil, 5, &fakeProgressStore{}, reslog)

	c.SubmitAnswer("b")
	c.Check()

	deadline := time.Now().Add(time.Second)
	for reslog.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if reslog.count() != 1 {
		t.Fatalf("response records = %d, want 1", reslog.count())
	}
	rec := reslog.records[0]
	if rec.ItemID != "i1" || rec.Answer != "b" || !rec.IsCorrect {
		t.Errorf("record = %+v, want i1/b/correct", rec)
	}
}

func TestCompletionHookFiresOnce(t *testing.T) {
	c := newTestController([]models.Item{
		{ID: "i1", Kind: models.ItemStaticContent},
	}, nil, 5, &fakeProgressStore{}, nil)

	fired := make(chan struct{}, 2)
	c.SetCompletionHook(func() { fired <- struct{}{} })

	c.Advance()
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("completion hook did not fire")
	}

	c.Advance() // no-op, must not re-fire
	select {
	case <-fired:
		t.Error("completion hook fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

// Five rapid check+advance cycles inside the debounce window produce exactly
// one write, carrying the final state.
func TestRapidCyclesCoalesceToOneWrite(t *testing.T) {
	store := &fakeProgressStore{}
	items := make([]models.Item, 5)
	for i := range items {
		items[i] = models.Item{ID: "c" + string(rune('1'+i)), Kind: models.ItemStaticContent}
	}
	gateway := NewGateway(store, 7, 9, 50*time.Millisecond)
	c := NewController(7, 9, items, nil, 5, gateway, nil)

	for i := 0; i < 5; i++ {
		c.Check() // content items: check advances
	}

	time.Sleep(250 * time.Millisecond)
	if got := store.writeCount(); got != 1 {
		t.Fatalf("write count = %d, want 1", got)
	}
	want := models.ProgressSnapshot{Lives: 5, CurrentIndex: 5, Completed: true}
	if got := store.lastWrite(); got != want {
		t.Errorf("written snapshot = %+v, want %+v", got, want)
	}
}

func TestCloseFlushesPendingWrite(t *testing.T) {
	store := &fakeProgressStore{}
	gateway := NewGateway(store, 7, 9, time.Hour)
	c := NewController(7, 9, []models.Item{
		{ID: "i1", Kind: models.ItemStaticContent},
		{ID: "i2", Kind: models.ItemStaticContent},
	}, nil, 5, gateway, nil)

	c.Advance()
	c.Close()

	if got := store.writeCount(); got != 1 {
		t.Fatalf("write count after Close = %d, want 1", got)
	}
	if got := store.lastWrite(); got.CurrentIndex != 1 {
		t.Errorf("flushed index = %d, want 1", got.CurrentIndex)
	}
}
