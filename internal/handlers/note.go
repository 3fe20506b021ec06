package handlers

import (
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"github.com/DutsAndrew/ck-api-sub000/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type NoteHandler struct {
	noteService NoteServiceInterface
	logger      *zap.Logger
}

func NewNoteHandler(noteService NoteServiceInterface, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

func noteInput(req dto.NoteRequest) services.NoteInput {
	return services.NoteInput{
		Note:      req.Note,
		Type:      req.NoteType,
		StartDate: req.Dates.StartDate.Time,
		EndDate:   req.Dates.EndDate.Time,
	}
}

func (h *NoteHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.BindJSON(&req); err != nil {
		respondDetail(c, 422, "invalid request body")
		return
	}

	cal, err := h.noteService.Create(c.Request.Context(), userID, calendarID, noteInput(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UpdatedCalendarResponse{Detail: "note added", UpdatedCalendar: cal})
}

// Update edits a note. The path calendar is where the note should end up;
// the note's current calendar is looked up server-side.
func (h *NoteHandler) Update(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	noteID, ok := objectIDParam(c, "note_id")
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := c.BindJSON(&req); err != nil {
		respondDetail(c, 422, "invalid request body")
		return
	}

	note, err := h.noteService.Update(c.Request.Context(), userID, calendarID, noteID, noteInput(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UpdatedNoteResponse{Detail: "note updated", UpdatedNote: note})
}

func (h *NoteHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	noteID, ok := objectIDParam(c, "note_id")
	if !ok {
		return
	}

	cal, err := h.noteService.Delete(c.Request.Context(), userID, calendarID, noteID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UpdatedCalendarResponse{Detail: "note deleted", UpdatedCalendar: cal})
}
