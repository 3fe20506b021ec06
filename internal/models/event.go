package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrEventDates = errors.New("event_date and combined_date_and_time must fall on the same day")

type Event struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CalendarID          primitive.ObjectID `bson:"calendar_id" json:"calendar_id"`
	EventName           string             `bson:"event_name" json:"event_name"`
	EventDescription    string             `bson:"event_description" json:"event_description"`
	EventDate           *time.Time         `bson:"event_date,omitempty" json:"event_date,omitempty"`
	EventTime           string             `bson:"event_time,omitempty" json:"event_time,omitempty"`
	CombinedDateAndTime *time.Time         `bson:"combined_date_and_time,omitempty" json:"combined_date_and_time,omitempty"`
	Repeats             bool               `bson:"repeats" json:"repeats"`
	RepeatOption        string             `bson:"repeat_option,omitempty" json:"repeat_option,omitempty"`
	CreatedBy           UserRef            `bson:"created_by" json:"created_by"`
}

func (e *Event) Validate() error {
	if e.EventDate == nil || e.CombinedDateAndTime == nil {
		return nil
	}
	if !SameUTCDay(*e.EventDate, *e.CombinedDateAndTime) {
		return ErrEventDates
	}
	return nil
}

func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
