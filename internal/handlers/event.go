package handlers

import (
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"github.com/DutsAndrew/ck-api-sub000/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type EventHandler struct {
	eventService EventServiceInterface
	logger       *zap.Logger
}

func NewEventHandler(eventService EventServiceInterface, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

func eventInput(req dto.EventRequest) services.EventInput {
	return services.EventInput{
		Name:                req.EventName,
		Description:         req.EventDescription,
		EventDate:           req.EventDate.Ptr(),
		EventTime:           req.EventTime,
		CombinedDateAndTime: req.CombinedDateAndTime.Ptr(),
		Repeats:             req.Repeats,
		RepeatOption:        req.RepeatOption,
	}
}

func (h *EventHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.EventRequest
	if err := c.BindJSON(&req); err != nil {
		respondDetail(c, 422, "invalid request body")
		return
	}

	cal, err := h.eventService.Create(c.Request.Context(), userID, calendarID, eventInput(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UpdatedCalendarResponse{Detail: "event created", UpdatedCalendar: cal})
}

func (h *EventHandler) Update(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	eventID, ok := objectIDParam(c, "event_id")
	if !ok {
		return
	}

	var req dto.EventRequest
	if err := c.BindJSON(&req); err != nil {
		respondDetail(c, 422, "invalid request body")
		return
	}

	cal, err := h.eventService.Update(c.Request.Context(), userID, calendarID, eventID, eventInput(req))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UpdatedCalendarResponse{Detail: "event updated", UpdatedCalendar: cal})
}

func (h *EventHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	eventID, ok := objectIDParam(c, "event_id")
	if !ok {
		return
	}

	cal, err := h.eventService.Delete(c.Request.Context(), userID, calendarID, eventID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UpdatedCalendarResponse{Detail: "event deleted", UpdatedCalendar: cal})
}
