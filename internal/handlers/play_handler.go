package handlers

import (
	"net/http"
	"strconv"

	"lessonclash/internal/models"
	"lessonclash/internal/player"
	"lessonclash/internal/service"
)

// PlayHandler handles lesson playback HTTP requests. All endpoints take the
// kid identity as a `kid` query or form value and, except for start, a
// `lesson` value naming the live session. Rejected intents are not errors:
// they return 200 with ok=false and the unchanged state.
type PlayHandler struct {
	playerService *service.PlayerService
}

// NewPlayHandler creates a new play handler
func NewPlayHandler(playerService *service.PlayerService) *PlayHandler {
	return &PlayHandler{playerService: playerService}
}

// tokenView is the wire shape of one draggable token
type tokenView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// itemView is the wire shape of the current item, with the answer key
// stripped out
type itemView struct {
	ID      string                `json:"id"`
	Kind    string                `json:"kind"`
	Prompt  string                `json:"prompt"`
	Reward  int                   `json:"reward"`
	Options []models.ChoiceOption `json:"options,omitempty"`
}

type stateView struct {
	Item             *itemView   `json:"item"`
	Status           string      `json:"status"`
	Lives            int         `json:"lives"`
	Reward           int         `json:"reward"`
	Completed        bool        `json:"completed"`
	ProgressFraction float64     `json:"progressFraction"`
	Bank             []tokenView `json:"bank,omitempty"`
	Answer           []tokenView `json:"answer,omitempty"`
}

func toTokenViews(tokens []player.Token) []tokenView {
	if tokens == nil {
		return nil
	}
	views := make([]tokenView, len(tokens))
	for i, tok := range tokens {
		views[i] = tokenView{ID: tok.ID, Text: tok.Text}
	}
	return views
}

func toStateView(state player.ViewState) stateView {
	view := stateView{
		Status:           state.Status.String(),
		Lives:            state.Lives,
		Reward:           state.Reward,
		Completed:        state.Completed,
		ProgressFraction: state.ProgressFraction,
		Bank:             toTokenViews(state.Bank),
		Answer:           toTokenViews(state.Answer),
	}
	if state.Item != nil {
		view.Item = &itemView{
			ID:     state.Item.ID,
			Kind:   string(state.Item.Kind),
			Prompt: state.Item.Prompt,
			Reward: state.Item.RewardValue,
		}
		if state.Item.Choice != nil {
			view.Item.Options = state.Item.Choice.Options
		}
	}
	return view
}

// session resolves the live controller for the request, writing the error
// response itself when there is none.
func (h *PlayHandler) session(w http.ResponseWriter, r *http.Request) *player.Controller {
	kidID, ok := kidIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid kid", "", nil)
		return nil
	}

	lessonID, err := strconv.ParseInt(r.FormValue("lesson"), 10, 64)
	if err != nil || lessonID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid lesson", "", nil)
		return nil
	}

	ctrl := h.playerService.Get(kidID, lessonID)
	if ctrl == nil {
		respondWithError(w, http.StatusNotFound, "No active session", "", nil)
		return nil
	}
	return ctrl
}

func (h *PlayHandler) respondState(w http.ResponseWriter, ctrl *player.Controller, ok bool, extra map[string]any) {
	payload := map[string]any{
		"ok":    ok,
		"state": toStateView(ctrl.ViewState()),
	}
	for k, v := range extra {
		payload[k] = v
	}
	respondWithJSON(w, http.StatusOK, payload)
}

// Start begins or resumes playback of a lesson
func (h *PlayHandler) Start(w http.ResponseWriter, r *http.Request) {
	kidID, ok := kidIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid kid", "", nil)
		return
	}

	lessonID, ok := pathID(r, "lessonId")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID", "", nil)
		return
	}

	ctrl, err := h.playerService.Start(kidID, lessonID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Failed to start lesson", "Error starting playback", err)
		return
	}

	h.respondState(w, ctrl, true, nil)
}

// State returns the current view of the live session
func (h *PlayHandler) State(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	if ctrl == nil {
		return
	}
	h.respondState(w, ctrl, true, nil)
}

// Answer records a pending choice selection for the current item
func (h *PlayHandler) Answer(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	if ctrl == nil {
		return
	}
	ok := ctrl.SubmitAnswer(r.FormValue("option"))
	h.respondState(w, ctrl, ok, nil)
}

// Move relocates a token to a container position in one step
func (h *PlayHandler) Move(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	if ctrl == nil {
		return
	}

	target, okTarget := parseContainer(r.FormValue("target"))
	index, err := strconv.Atoi(r.FormValue("index"))
	if !okTarget || err != nil {
		h.respondState(w, ctrl, false, nil)
		return
	}

	ok := ctrl.MoveToken(r.FormValue("token"), target, index)
	h.respondState(w, ctrl, ok, nil)
}

// DragStart begins a drag gesture on a token
func (h *PlayHandler) DragStart(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	if ctrl == nil {
		return
	}
	ok := ctrl.BeginDrag(r.FormValue("token"))
	h.respondState(w, ctrl, ok, nil)
}

// DragHover previews the dragged token at the hovered token position. The
// `before` flag says whether the pointer is over the leading half of that
// token; the insertion index is derived from the pair.
func (h *PlayHandler) DragHover(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	if ctrl == nil {
		return
	}

	target, okTarget := parseContainer(r.FormValue("target"))
	hovered, err := strconv.Atoi(r.FormValue("hovered"))
	if !okTarget || err != nil {
		h.respondState(w, ctrl, false, nil)
		return
	}
	index := player.InsertionIndex(hovered, r.FormValue("before") == "true")

	ok := ctrl.DragHover(target, index)
	h.respondState(w, ctrl, ok, nil)
}

// DragDrop commits the drag at its current preview position
func (h *PlayHandler) DragDrop(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	if ctrl == nil {
		return
	}
	ok := ctrl.DropCommit()
	h.respondState(w, ctrl, ok, nil)
}

// DragCancel abandons the drag and restores the pre-drag arrangement
func (h *PlayHandler) DragCancel(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	if ctrl == nil {
		return
	}
	ok := ctrl.DropCancel()
	h.respondState(w, ctrl, ok, nil)
}

// Check evaluates the current answer, or advances when the item already has
// feedback showing
func (h *PlayHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	if ctrl == nil {
		return
	}

	outcome := ctrl.Check()
	extra := map[string]any{"advanced": outcome.Advanced}
	if outcome.Applied && !outcome.Advanced {
		extra["correct"] = outcome.IsCorrect
	}
	h.respondState(w, ctrl, outcome.Applied, extra)
}

// Advance moves to the next item
func (h *PlayHandler) Advance(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	if ctrl == nil {
		return
	}
	ok := ctrl.Advance()
	h.respondState(w, ctrl, ok, nil)
}

// Exit ends the session, flushing any pending progress write
func (h *PlayHandler) Exit(w http.ResponseWriter, r *http.Request) {
	kidID, ok := kidIDFromRequest(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid kid", "", nil)
		return
	}
	lessonID, err := strconv.ParseInt(r.FormValue("lesson"), 10, 64)
	if err != nil || lessonID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid lesson", "", nil)
		return
	}

	h.playerService.Release(kidID, lessonID)
	respondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func parseContainer(s string) (player.Container, bool) {
	switch s {
	case "bank":
		return player.ContainerBank, true
	case "answer":
		return player.ContainerAnswer, true
	default:
		return 0, false
	}
}
