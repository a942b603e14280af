package player

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func answerTexts(a *Arrangement) []string {
	return a.CurrentAnswer()
}

func bankTexts(a *Arrangement) []string {
	tokens := a.Bank()
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	return texts
}

func TestNewArrangement(t *testing.T) {
	a := NewArrangement([]string{"the", "cat", "the"})

	if got := bankTexts(a); !reflect.DeepEqual(got, []string{"the", "cat", "the"}) {
		t.Errorf("bank = %v, want input order preserved", got)
	}
	if got := a.CurrentAnswer(); len(got) != 0 {
		t.Errorf("answer = %v, want empty", got)
	}

	// Repeated display text must still get distinct identifiers
	seen := make(map[string]bool)
	for _, tok := range a.Bank() {
		if seen[tok.ID] {
			t.Errorf("duplicate token ID %s", tok.ID)
		}
		seen[tok.ID] = true
	}
}

func TestMoveClamping(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		expect []string
	}{
		{name: "negative index clamps to front", index: -5, expect: []string{"b", "a", "c"}},
		{name: "zero index", index: 0, expect: []string{"b", "a", "c"}},
		{name: "past end clamps to back", index: 99, expect: []string{"a", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArrangement([]string{"a", "b", "c"})
			for _, tok := range a.Bank() {
				a.Move(tok.ID, ContainerAnswer, len(a.Answer()))
			}
			// answer is now [a b c]; move "b" to tt.index
			b := a.Answer()[1]
			if !a.Move(b.ID, ContainerAnswer, tt.index) {
				t.Fatal("Move() = false, want true")
			}
			if got := a.CurrentAnswer(); !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("answer = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestMoveUnknownToken(t *testing.T) {
	a := NewArrangement([]string{"a", "b"})
	if a.Move("no-such-token", ContainerAnswer, 0) {
		t.Error("Move() of unknown token = true, want false")
	}
	if got := bankTexts(a); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("bank changed to %v after rejected move", got)
	}
}

// Token conservation: any sequence of moves keeps the multiset of token IDs
// across bank+answer equal to the initial multiset.
func TestTokenConservation(t *testing.T) {
	a := NewArrangement([]string{"one", "two", "three", "two", "five"})

	initial := make([]string, 0, 5)
	for _, tok := range a.Bank() {
		initial = append(initial, tok.ID)
	}
	sort.Strings(initial)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		id := initial[rng.Intn(len(initial))]
		target := Container(rng.Intn(2))
		a.Move(id, target, rng.Intn(8)-1)

		current := make([]string, 0, 5)
		for _, tok := range a.Bank() {
			current = append(current, tok.ID)
		}
		for _, tok := range a.Answer() {
			current = append(current, tok.ID)
		}
		sort.Strings(current)
		if !reflect.DeepEqual(current, initial) {
			t.Fatalf("token multiset diverged after move %d: %v != %v", i, current, initial)
		}
	}
}

func TestCurrentAnswerPure(t *testing.T) {
	a := NewArrangement([]string{"red", "car"})
	for _, tok := range a.Bank() {
		a.Move(tok.ID, ContainerAnswer, len(a.Answer()))
	}
	first := a.CurrentAnswer()
	second := a.CurrentAnswer()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("CurrentAnswer() not pure: %v then %v", first, second)
	}
}

func TestDisabledRejectsMutation(t *testing.T) {
	a := NewArrangement([]string{"a", "b"})
	tok := a.Bank()[0]
	a.Move(tok.ID, ContainerAnswer, 0)
	a.Disable()

	if a.Move(tok.ID, ContainerBank, 0) {
		t.Error("Move() on disabled arrangement = true, want false")
	}
	if a.BeginDrag(tok.ID) {
		t.Error("BeginDrag() on disabled arrangement = true, want false")
	}
	// The evaluated answer stays inspectable
	if got := a.CurrentAnswer(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("CurrentAnswer() after disable = %v, want [a]", got)
	}
}

func TestDragCommit(t *testing.T) {
	a := NewArrangement([]string{"a", "b", "c"})
	tok := a.Bank()[2] // "c"

	if !a.BeginDrag(tok.ID) {
		t.Fatal("BeginDrag() = false")
	}
	a.DragHover(ContainerAnswer, 0)
	a.DragHover(ContainerAnswer, 0) // pointer keeps moving; last position wins
	if !a.DropCommit() {
		t.Fatal("DropCommit() = false")
	}
	if got := a.CurrentAnswer(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("answer = %v, want [c]", got)
	}
	if got := bankTexts(a); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("bank = %v, want [a b]", got)
	}
}

func TestDragCancelReverts(t *testing.T) {
	a := NewArrangement([]string{"a", "b", "c"})
	first := a.Bank()[0]
	a.Move(first.ID, ContainerAnswer, 0)

	tok := a.Bank()[0] // "b"
	if !a.BeginDrag(tok.ID) {
		t.Fatal("BeginDrag() = false")
	}
	a.DragHover(ContainerAnswer, 1)
	a.DragHover(ContainerAnswer, 0)
	if !a.DropCancel() {
		t.Fatal("DropCancel() = false")
	}

	if got := a.CurrentAnswer(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("answer after cancel = %v, want pre-drag [a]", got)
	}
	if got := bankTexts(a); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("bank after cancel = %v, want pre-drag [b c]", got)
	}
	// The cancelled token is in exactly one container
	total := len(a.Bank()) + len(a.Answer())
	if total != 3 {
		t.Errorf("token count = %d, want 3", total)
	}
}

func TestDragLifecycleGuards(t *testing.T) {
	a := NewArrangement([]string{"a"})
	tok := a.Bank()[0]

	if a.DragHover(ContainerAnswer, 0) {
		t.Error("DragHover() before BeginDrag = true, want false")
	}
	if a.DropCommit() {
		t.Error("DropCommit() before BeginDrag = true, want false")
	}
	if a.DropCancel() {
		t.Error("DropCancel() before BeginDrag = true, want false")
	}
	if !a.BeginDrag(tok.ID) {
		t.Fatal("BeginDrag() = false")
	}
	if a.BeginDrag(tok.ID) {
		t.Error("second BeginDrag() during active drag = true, want false")
	}
}

func TestEmptyTokenList(t *testing.T) {
	a := NewArrangement(nil)
	if got := a.CurrentAnswer(); len(got) != 0 {
		t.Errorf("CurrentAnswer() = %v, want empty", got)
	}
	if a.Move("anything", ContainerAnswer, 0) {
		t.Error("Move() on empty arrangement = true, want false")
	}
}

func TestInsertionIndex(t *testing.T) {
	tests := []struct {
		name           string
		hovered        int
		beforeMidpoint bool
		expected       int
	}{
		{name: "leading half inserts before", hovered: 2, beforeMidpoint: true, expected: 2},
		{name: "trailing half inserts after", hovered: 2, beforeMidpoint: false, expected: 3},
		{name: "first token leading half", hovered: 0, beforeMidpoint: true, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsertionIndex(tt.hovered, tt.beforeMidpoint); got != tt.expected {
				t.Errorf("InsertionIndex(%d, %v) = %d, want %d", tt.hovered, tt.beforeMidpoint, got, tt.expected)
			}
		})
	}
}
