package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/emersion/go-ical"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const icalProductID = "-//ck-api//Calendar Export//EN"

// Export renders the calendar's events and notes as an iCalendar document.
// Recurrence is not expanded; repeating events carry X-CK-REPEATS instead.
func (s *CalendarService) Export(ctx context.Context, requesterID, calendarID primitive.ObjectID) ([]byte, error) {
	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !cal.MayRead(requesterID) {
		return nil, ErrForbidden
	}

	populated, err := s.populator.Calendar(ctx, cal)
	if err != nil {
		return nil, err
	}
	return encodeICal(populated, time.Now())
}

func encodeICal(cal *models.PopulatedCalendar, stamp time.Time) ([]byte, error) {
	out := ical.NewCalendar()
	out.Props.SetText(ical.PropProductID, icalProductID)
	out.Props.SetText(ical.PropVersion, "2.0")
	out.Props.SetText(ical.PropName, cal.Name)
	if cal.CalendarColor != "" {
		out.Props.SetText(ical.PropColor, cal.CalendarColor)
	}

	for _, e := range cal.Events {
		if comp := eventComponent(e, stamp); comp != nil {
			out.Children = append(out.Children, comp)
		}
	}
	for _, n := range cal.CalendarNotes {
		out.Children = append(out.Children, noteComponent(n, stamp))
	}
	if len(out.Children) == 0 {
		return nil, fmt.Errorf("calendar has no dated events or notes to export: %w", ErrNoOp)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func eventComponent(e models.Event, stamp time.Time) *ical.Component {
	comp := &ical.Component{Name: ical.CompEvent, Props: make(ical.Props)}
	comp.Props.SetText(ical.PropUID, e.ID.Hex()+"@ck-api")
	comp.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	comp.Props.SetText(ical.PropSummary, e.EventName)
	if e.EventDescription != "" {
		comp.Props.SetText(ical.PropDescription, e.EventDescription)
	}

	switch {
	case e.CombinedDateAndTime != nil:
		comp.Props.SetDateTime(ical.PropDateTimeStart, e.CombinedDateAndTime.UTC())
	case e.EventDate != nil:
		comp.Props.SetDate(ical.PropDateTimeStart, e.EventDate.UTC())
	default:
		return nil
	}

	if e.Repeats {
		comp.Props.SetText("X-CK-REPEATS", strconv.FormatBool(e.Repeats))
		if e.RepeatOption != "" {
			comp.Props.SetText("X-CK-REPEAT-OPTION", e.RepeatOption)
		}
	}
	return comp
}

// noteComponent spans whole days; DTEND is exclusive so it lands the day
// after end_date.
func noteComponent(n models.CalendarNote, stamp time.Time) *ical.Component {
	comp := &ical.Component{Name: ical.CompEvent, Props: make(ical.Props)}
	comp.Props.SetText(ical.PropUID, n.ID.Hex()+"@ck-api")
	comp.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	comp.Props.SetText(ical.PropSummary, noteSummary(n))
	comp.Props.SetDate(ical.PropDateTimeStart, n.StartDate.UTC())
	comp.Props.SetDate(ical.PropDateTimeEnd, n.EndDate.UTC().AddDate(0, 0, 1))
	if n.Type != "" {
		comp.Props.SetText(ical.PropCategories, n.Type)
	}
	return comp
}

func noteSummary(n models.CalendarNote) string {
	var fields map[string]any
	switch v := n.Note.(type) {
	case string:
		if v != "" {
			return v
		}
	case primitive.M:
		fields = v
	case map[string]any:
		fields = v
	}
	for _, key := range []string{"title", "text", "note"} {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}
	if n.Type != "" {
		return n.Type
	}
	return "Note"
}
