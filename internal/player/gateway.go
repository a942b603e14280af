package player

import (
	"log"
	"sync"
	"time"

	"lessonclash/internal/models"
)

// ProgressStore is the durable-snapshot collaborator. ReadSnapshot returns
// nil (no error) when no snapshot exists yet; WriteSnapshot must be
// idempotent so that applying the same snapshot twice leaves the stored
// state unchanged.
type ProgressStore interface {
	ReadSnapshot(kidID, lessonID int64) (*models.ProgressSnapshot, error)
	WriteSnapshot(kidID, lessonID int64, snap models.ProgressSnapshot) error
}

// DefaultDebounce is the write-coalescing window for progress snapshots
const DefaultDebounce = time.Second

// Gateway debounces and deduplicates progress snapshots on their way to the
// store. A burst of rapid state changes collapses into a single write
// carrying the latest state: each Schedule call resets the timer rather than
// queueing, since only the final state matters for durability. Close flushes
// whatever is still pending so navigating away does not lose the last window.
type Gateway struct {
	store    ProgressStore
	kidID    int64
	lessonID int64
	interval time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	pending     *models.ProgressSnapshot
	pendingSeq  uint64
	seq         uint64
	lastWritten *models.ProgressSnapshot
	closed      bool

	// wmu serializes store writes; writtenSeq (guarded by it) keeps a slow
	// write from landing after a newer one
	wmu        sync.Mutex
	writtenSeq uint64
}

// NewGateway creates a gateway for one kid's traversal of one lesson
func NewGateway(store ProgressStore, kidID, lessonID int64, interval time.Duration) *Gateway {
	if interval <= 0 {
		interval = DefaultDebounce
	}
	return &Gateway{
		store:    store,
		kidID:    kidID,
		lessonID: lessonID,
		interval: interval,
	}
}

// Schedule records snap as the latest state and starts (or restarts) the
// debounce timer. Scheduling a snapshot identical to the last durable one,
// with nothing already pending, is dropped outright.
func (g *Gateway) Schedule(snap models.ProgressSnapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	if g.pending == nil && g.lastWritten != nil && *g.lastWritten == snap {
		return
	}

	g.seq++
	g.pending = &snap
	g.pendingSeq = g.seq
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.interval, g.fire)
}

// fire runs on the timer goroutine and writes whatever is pending by then
func (g *Gateway) fire() {
	g.mu.Lock()
	snap := g.pending
	seq := g.pendingSeq
	g.pending = nil
	g.timer = nil
	g.mu.Unlock()

	if snap != nil {
		g.write(*snap, seq)
	}
}

// write is best-effort: a failure is logged and the in-memory session stays
// authoritative. The next successful write carries the latest state forward,
// so a transient failure self-heals. Writes are serialized, and a snapshot
// older than the last durable one is dropped rather than written.
func (g *Gateway) write(snap models.ProgressSnapshot, seq uint64) {
	g.wmu.Lock()
	defer g.wmu.Unlock()

	if seq <= g.writtenSeq {
		return
	}
	if err := g.store.WriteSnapshot(g.kidID, g.lessonID, snap); err != nil {
		log.Printf("Error writing progress snapshot (kid=%d, lesson=%d): %v", g.kidID, g.lessonID, err)
		return
	}
	g.writtenSeq = seq

	g.mu.Lock()
	g.lastWritten = &snap
	g.mu.Unlock()
}

// Flush cancels the debounce timer and writes any pending snapshot now
func (g *Gateway) Flush() {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	snap := g.pending
	seq := g.pendingSeq
	g.pending = nil
	g.mu.Unlock()

	if snap != nil {
		g.write(*snap, seq)
	}
}

// Close flushes the pending write and stops accepting further schedules.
// Called on session teardown (exit or navigation away).
func (g *Gateway) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	g.Flush()
}
