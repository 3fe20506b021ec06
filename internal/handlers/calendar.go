package handlers

import (
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"github.com/DutsAndrew/ck-api-sub000/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	calendarService CalendarServiceInterface
	appDataService  AppDataServiceInterface
	logger          *zap.Logger
}

func NewCalendarHandler(calendarService CalendarServiceInterface, appDataService AppDataServiceInterface, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		appDataService:  appDataService,
		logger:          logger,
	}
}

func (h *CalendarHandler) GetAppData(c *drift.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	data, err := h.appDataService.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.AppDataResponse{Detail: "calendar data loaded", Data: data})
}

func (h *CalendarHandler) GetUserCalendarData(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.calendarService.GetUserCalendarData(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UserCalendarDataResponse{Detail: "calendar data loaded", UpdatedUser: user})
}

func (h *CalendarHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateCalendarRequest
	if err := c.BindJSON(&req); err != nil {
		respondDetail(c, 422, "invalid request body")
		return
	}

	createdBy, err := primitive.ObjectIDFromHex(req.CreatedBy)
	if err != nil {
		respondDetail(c, 422, "invalid createdBy")
		return
	}
	authorized, ok := inviteeIDs(c, req.AuthorizedUsers)
	if !ok {
		return
	}
	viewOnly, ok := inviteeIDs(c, req.ViewOnlyUsers)
	if !ok {
		return
	}

	res, err := h.calendarService.Create(c.Request.Context(), userID, services.CreateCalendarInput{
		Name:            req.CalendarName,
		Color:           req.CalendarColor,
		CreatedBy:       createdBy,
		AuthorizedUsers: authorized,
		ViewOnlyUsers:   viewOnly,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.CreateCalendarResponse{
		Detail:            res.Detail,
		Calendar:          res.Calendar,
		PopulatedCalendar: res.Populated,
	})
}

func inviteeIDs(c *drift.Context, invitees []dto.Invitee) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(invitees))
	for _, inv := range invitees {
		id, err := primitive.ObjectIDFromHex(inv.ID())
		if err != nil {
			respondDetail(c, 422, "invalid invited user id")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (h *CalendarHandler) GetPopulated(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	cal, err := h.calendarService.GetPopulated(c.Request.Context(), userID, calendarID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.CalendarResponse{Detail: "calendar loaded", Calendar: cal})
}

func (h *CalendarHandler) AddUser(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := objectIDParam(c, "user_id")
	if !ok {
		return
	}
	role, err := models.ParseInviteRole(c.Param("type"))
	if err != nil {
		respondDetail(c, 422, err.Error())
		return
	}

	cal, err := h.calendarService.Invite(c.Request.Context(), userID, calendarID, targetID, role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UpdatedCalendarResponse{Detail: "user invited", UpdatedCalendar: cal})
}

func (h *CalendarHandler) RemoveUser(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	role, ok := roleParam(c, "type")
	if !ok {
		return
	}
	targetID, ok := objectIDParam(c, "user_id")
	if !ok {
		return
	}

	cal, err := h.calendarService.RemoveUser(c.Request.Context(), userID, calendarID, targetID, role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	detail := "user removed from calendar"
	if targetID == userID {
		detail = "you left the calendar"
	}
	_ = c.JSON(200, dto.UpdatedCalendarResponse{Detail: detail, UpdatedCalendar: cal})
}

func (h *CalendarHandler) ChangePermission(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := objectIDParam(c, "user_id")
	if !ok {
		return
	}
	role, ok := roleParam(c, "new_type")
	if !ok {
		return
	}

	cal, err := h.calendarService.ChangePermission(c.Request.Context(), userID, calendarID, targetID, role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UpdatedCalendarResponse{Detail: "permission changed", UpdatedCalendar: cal})
}

func (h *CalendarHandler) Accept(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	cal, err := h.calendarService.Accept(c.Request.Context(), userID, calendarID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.UpdatedCalendarResponse{Detail: "invitation accepted", UpdatedCalendar: cal})
}

func (h *CalendarHandler) Delete(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	claimedID, ok := objectIDParam(c, "user_id")
	if !ok {
		return
	}

	res, err := h.calendarService.Delete(c.Request.Context(), userID, calendarID, claimedID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.DeleteCalendarResponse{
		Detail:             res.Detail(),
		CalendarID:         res.CalendarID.Hex(),
		UsersUpdated:       res.UsersUpdated,
		UserUpdateFailures: res.UserUpdateFailures,
		NotesDeleted:       res.NotesDeleted,
		EventsDeleted:      res.EventsDeleted,
	})
}

func (h *CalendarHandler) SetPreferredColor(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PreferredColorRequest
	if err := c.BindJSON(&req); err != nil {
		respondDetail(c, 422, "invalid request body")
		return
	}

	scheme, err := h.calendarService.SetPreferredColor(c.Request.Context(), userID, calendarID, req.PreferredColor, req.FontColor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.PreferredColorResponse{Detail: "preferred color saved", PreferredColor: scheme})
}

func (h *CalendarHandler) Export(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	calendarID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	body, err := h.calendarService.Export(c.Request.Context(), userID, calendarID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Response.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	c.Response.Header().Set("Content-Disposition", `attachment; filename="`+calendarID.Hex()+`.ics"`)
	c.Response.WriteHeader(200)
	_, _ = c.Response.Write(body)
	c.Abort()
}
