package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNoteDates = errors.New("end_date must not be before start_date")

type CalendarNote struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CalendarID primitive.ObjectID `bson:"calendar_id" json:"calendar_id"`
	Note       any                `bson:"note" json:"note"`
	Type       string             `bson:"type" json:"type"`
	StartDate  time.Time          `bson:"start_date" json:"start_date"`
	EndDate    time.Time          `bson:"end_date" json:"end_date"`
	CreatedBy  UserRef            `bson:"created_by" json:"created_by"`
}

func (n *CalendarNote) Validate() error {
	if n.EndDate.Before(n.StartDate) {
		return ErrNoteDates
	}
	return nil
}
