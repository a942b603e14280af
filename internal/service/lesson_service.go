package service

import (
	"lessonclash/internal/models"
	"lessonclash/internal/repository"
)

// LessonService handles lesson catalogue business logic
type LessonService struct {
	lessonRepo *repository.LessonRepository
}

// NewLessonService creates a new lesson service
func NewLessonService(lessonRepo *repository.LessonRepository) *LessonService {
	return &LessonService{lessonRepo: lessonRepo}
}

// GetLessons returns all lessons with their item counts
func (s *LessonService) GetLessons() ([]models.Lesson, error) {
	return s.lessonRepo.GetLessons()
}

// GetLessonByID returns a single lesson, or nil when it does not exist
func (s *LessonService) GetLessonByID(lessonID int64) (*models.Lesson, error) {
	return s.lessonRepo.GetLessonByID(lessonID)
}

// LoadItems returns a lesson's items in playback order
func (s *LessonService) LoadItems(lessonID int64) ([]models.Item, error) {
	return s.lessonRepo.LoadItems(lessonID)
}
