package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"lessonclash/internal/models"
	"lessonclash/internal/player"
)

// ItemSource loads lesson metadata and playable items.
type ItemSource interface {
	GetLessonByID(lessonID int64) (*models.Lesson, error)
	LoadItems(lessonID int64) ([]models.Item, error)
}

// sessionKey identifies one kid's run through one lesson.
type sessionKey struct {
	kidID    int64
	lessonID int64
}

// PlayerService owns the live playback sessions. Each (kid, lesson) pair
// has at most one controller; starting again replaces the old one.
type PlayerService struct {
	lessons  ItemSource
	progress player.ProgressStore
	reslog   player.ResponseLog
	email    *EmailService

	maxLives     int
	saveDebounce time.Duration

	mu       sync.Mutex
	sessions map[sessionKey]*player.Controller
}

// NewPlayerService creates a new player service
func NewPlayerService(lessons ItemSource, progress player.ProgressStore, reslog player.ResponseLog, email *EmailService, maxLives int, saveDebounce time.Duration) *PlayerService {
	return &PlayerService{
		lessons:      lessons,
		progress:     progress,
		reslog:       reslog,
		email:        email,
		maxLives:     maxLives,
		saveDebounce: saveDebounce,
		sessions:     make(map[sessionKey]*player.Controller),
	}
}

// Start loads the lesson and creates a playback session, resuming from the
// kid's saved progress when there is any. An existing session for the same
// kid and lesson is closed and replaced.
func (s *PlayerService) Start(kidID, lessonID int64) (*player.Controller, error) {
	lesson, err := s.lessons.GetLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, errors.New("lesson not found")
	}

	items, err := s.lessons.LoadItems(lessonID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("lesson has no items")
	}

	// An existing session must flush before hydration reads the snapshot,
	// or progress still inside its debounce window is invisible here and
	// the replacement session writes the stale state back.
	key := sessionKey{kidID: kidID, lessonID: lessonID}
	s.mu.Lock()
	old := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}

	// A failed read falls back to a fresh run rather than blocking play.
	snap, err := s.progress.ReadSnapshot(kidID, lessonID)
	if err != nil {
		log.Printf("Failed to read progress for kid %d lesson %d, starting fresh: %v", kidID, lessonID, err)
		snap = nil
	}

	gateway := player.NewGateway(s.progress, kidID, lessonID, s.saveDebounce)
	ctrl := player.NewController(kidID, lessonID, items, snap, s.maxLives, gateway, s.reslog)
	ctrl.SetCompletionHook(func() {
		s.notifyCompletion(kidID, lesson, ctrl.ViewState().Reward)
	})

	s.mu.Lock()
	s.sessions[key] = ctrl
	s.mu.Unlock()

	log.Printf("Playback started: kid=%d lesson=%d items=%d resumed=%v", kidID, lessonID, len(items), snap != nil)
	return ctrl, nil
}

// Get returns the live session for a kid and lesson, or nil when none exists.
func (s *PlayerService) Get(kidID, lessonID int64) *player.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionKey{kidID: kidID, lessonID: lessonID}]
}

// Release ends a session, flushing any pending progress write.
func (s *PlayerService) Release(kidID, lessonID int64) {
	key := sessionKey{kidID: kidID, lessonID: lessonID}
	s.mu.Lock()
	ctrl := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()

	if ctrl != nil {
		ctrl.Close()
		log.Printf("Playback released: kid=%d lesson=%d", kidID, lessonID)
	}
}

// Shutdown closes every live session. Called on server exit so pending
// progress writes reach the store.
func (s *PlayerService) Shutdown() {
	s.mu.Lock()
	ctrls := make([]*player.Controller, 0, len(s.sessions))
	for key, ctrl := range s.sessions {
		ctrls = append(ctrls, ctrl)
		delete(s.sessions, key)
	}
	s.mu.Unlock()

	for _, ctrl := range ctrls {
		ctrl.Close()
	}
}

func (s *PlayerService) notifyCompletion(kidID int64, lesson *models.Lesson, reward int) {
	if s.email == nil {
		return
	}
	if err := s.email.SendLessonComplete(context.Background(), kidID, lesson.Title, reward); err != nil {
		log.Printf("Failed to send completion email for kid %d lesson %d: %v", kidID, lesson.ID, err)
	}
}
