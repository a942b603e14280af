package handlers

import (
	"net/http"

	"lessonclash/internal/models"
	"lessonclash/internal/service"
)

// LessonHandler serves the lesson catalogue
type LessonHandler struct {
	lessonService *service.LessonService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService *service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

type lessonView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	ItemCount int    `json:"itemCount"`
}

// List returns all lessons
func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.lessonService.GetLessons()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load lessons", "Error loading lessons", err)
		return
	}

	views := make([]lessonView, len(lessons))
	for i, lesson := range lessons {
		views[i] = toLessonView(lesson)
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "lessons": views})
}

// Get returns a single lesson summary
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := pathID(r, "lessonId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID", "", nil)
		return
	}

	lesson, err := h.lessonService.GetLessonByID(lessonID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load lesson", "Error loading lesson", err)
		return
	}
	if lesson == nil {
		respondWithError(w, http.StatusNotFound, "Lesson not found", "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "lesson": toLessonView(*lesson)})
}

func toLessonView(lesson models.Lesson) lessonView {
	return lessonView{ID: lesson.ID, Title: lesson.Title, ItemCount: lesson.ItemCount}
}
