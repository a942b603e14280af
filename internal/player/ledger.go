package player

// Ledger tracks the bounded lives counter and the reward total for one
// session. Lives are clamped to [0, max] and never replenished during play;
// reward only ever grows.
type Ledger struct {
	lives    int
	maxLives int
	reward   int
}

// NewLedger creates a ledger with a full complement of lives
func NewLedger(maxLives int) *Ledger {
	if maxLives < 0 {
		maxLives = 0
	}
	return &Ledger{lives: maxLives, maxLives: maxLives}
}

// RestoreLedger rebuilds a ledger from durable snapshot values, clamping
// them back into range.
func RestoreLedger(maxLives, lives, reward int) *Ledger {
	l := NewLedger(maxLives)
	if lives < 0 {
		lives = 0
	}
	if lives > l.maxLives {
		lives = l.maxLives
	}
	l.lives = lives
	if reward > 0 {
		l.reward = reward
	}
	return l
}

// ApplyResult credits the reward on a correct answer and costs a life on an
// incorrect one. Negative reward values count as zero. Never fails.
func (l *Ledger) ApplyResult(isCorrect bool, rewardValue int) {
	if isCorrect {
		if rewardValue > 0 {
			l.reward += rewardValue
		}
		return
	}
	if l.lives > 0 {
		l.lives--
	}
}

// Exhausted reports whether no lives remain. The controller refuses further
// check intents once exhausted.
func (l *Ledger) Exhausted() bool {
	return l.lives == 0
}

// Lives returns the remaining lives
func (l *Ledger) Lives() int {
	return l.lives
}

// Reward returns the accumulated reward
func (l *Ledger) Reward() int {
	return l.reward
}
