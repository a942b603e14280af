package player

import (
	"github.com/google/uuid"
)

// Container identifies which of the two token containers is addressed
type Container int

const (
	ContainerBank Container = iota
	ContainerAnswer
)

// Token is a single draggable unit of text in a word-ordering exercise.
// Identifiers are unique even when display text repeats.
type Token struct {
	ID   string
	Text string
}

// dragState remembers the pre-drag containers so a cancelled drag can revert
type dragState struct {
	tokenID string
	bank    []string
	answer  []string
}

// Arrangement models the two-container word-ordering interaction: an
// unordered bank of candidate tokens and an ordered answer sequence. Every
// token lives in exactly one container at all times; a move is an atomic
// remove-and-insert, so no sequence of moves can lose or duplicate a token.
type Arrangement struct {
	tokens   map[string]Token
	bank     []string // token IDs, in order
	answer   []string // token IDs, in order
	disabled bool
	drag     *dragState
}

// NewArrangement populates the bank with one token per input string, order
// preserved, and an empty answer container.
func NewArrangement(texts []string) *Arrangement {
	a := &Arrangement{
		tokens: make(map[string]Token, len(texts)),
		bank:   make([]string, 0, len(texts)),
	}
	for _, text := range texts {
		id := uuid.New().String()
		a.tokens[id] = Token{ID: id, Text: text}
		a.bank = append(a.bank, id)
	}
	return a
}

// Move removes the token from its current container and inserts it into
// target at index, clamped to the container's new bounds. Returns false
// (state unchanged) for unknown tokens or when the arrangement is disabled.
func (a *Arrangement) Move(tokenID string, target Container, index int) bool {
	if a.disabled {
		return false
	}
	if _, ok := a.tokens[tokenID]; !ok {
		return false
	}

	var removed bool
	a.bank, removed = removeID(a.bank, tokenID)
	if !removed {
		a.answer, removed = removeID(a.answer, tokenID)
	}
	if !removed {
		return false
	}

	dst := &a.bank
	if target == ContainerAnswer {
		dst = &a.answer
	}
	if index < 0 {
		index = 0
	}
	if index > len(*dst) {
		index = len(*dst)
	}
	*dst = append(*dst, "")
	copy((*dst)[index+1:], (*dst)[index:])
	(*dst)[index] = tokenID
	return true
}

// removeID removes the first occurrence of id from ids
func removeID(ids []string, id string) ([]string, bool) {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...), true
		}
	}
	return ids, false
}

// BeginDrag starts a drag for tokenID, snapshotting the current containers so
// a cancelled drag can revert. Only one drag may be active at a time.
func (a *Arrangement) BeginDrag(tokenID string) bool {
	if a.disabled || a.drag != nil {
		return false
	}
	if _, ok := a.tokens[tokenID]; !ok {
		return false
	}
	a.drag = &dragState{
		tokenID: tokenID,
		bank:    append([]string(nil), a.bank...),
		answer:  append([]string(nil), a.answer...),
	}
	return true
}

// DragHover applies the provisional position for the dragged token while the
// pointer is over a drop target. It may be called repeatedly as the pointer
// moves; each call replaces the previous provisional position.
func (a *Arrangement) DragHover(target Container, index int) bool {
	if a.drag == nil {
		return false
	}
	return a.Move(a.drag.tokenID, target, index)
}

// DropCommit finalizes the last provisional position and ends the drag.
func (a *Arrangement) DropCommit() bool {
	if a.drag == nil {
		return false
	}
	a.drag = nil
	return true
}

// DropCancel ends the drag and reverts to the pre-drag arrangement, e.g. when
// the token is released outside any container.
func (a *Arrangement) DropCancel() bool {
	if a.drag == nil {
		return false
	}
	a.bank = a.drag.bank
	a.answer = a.drag.answer
	a.drag = nil
	return true
}

// InsertionIndex converts a hover position into an insertion index: hovering
// the leading half of the token at position hovered inserts before it, the
// trailing half inserts after it.
func InsertionIndex(hovered int, beforeMidpoint bool) int {
	if beforeMidpoint {
		return hovered
	}
	return hovered + 1
}

// CurrentAnswer returns the answer container's display texts in order. It is
// pure and remains queryable after the arrangement has been disabled.
func (a *Arrangement) CurrentAnswer() []string {
	texts := make([]string, len(a.answer))
	for i, id := range a.answer {
		texts[i] = a.tokens[id].Text
	}
	return texts
}

// Bank returns a copy of the bank container's tokens in order
func (a *Arrangement) Bank() []Token {
	return a.containerTokens(a.bank)
}

// Answer returns a copy of the answer container's tokens in order
func (a *Arrangement) Answer() []Token {
	return a.containerTokens(a.answer)
}

func (a *Arrangement) containerTokens(ids []string) []Token {
	tokens := make([]Token, len(ids))
	for i, id := range ids {
		tokens[i] = a.tokens[id]
	}
	return tokens
}

// Disable rejects all further mutating operations. The evaluated answer
// stays inspectable through CurrentAnswer.
func (a *Arrangement) Disable() {
	a.disabled = true
	a.drag = nil
}

// Disabled reports whether mutating operations are being rejected
func (a *Arrangement) Disabled() bool {
	return a.disabled
}
