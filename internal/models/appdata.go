package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const AppDataTypeCalendar = "calendar"

const (
	HolidayFederal    = "federal"
	HolidayObservance = "observance"
)

type MonthLayout struct {
	Days          int    `bson:"days" json:"days"`
	MonthStartsOn string `bson:"month_starts_on" json:"month_starts_on"`
}

type Holiday struct {
	Date string `bson:"date" json:"date"`
	Name string `bson:"name" json:"name"`
	Type string `bson:"type" json:"type"`
}

// AppData is the static reference document served by GET /calendar/. Year
// keys are decimal strings since document keys must be strings.
type AppData struct {
	ID            primitive.ObjectID                `bson:"_id,omitempty" json:"_id"`
	AppDataType   string                            `bson:"app_data_type" json:"app_data_type"`
	CalendarDates map[string]map[string]MonthLayout `bson:"calendar_dates" json:"calendar_dates"`
	HolidayDates  map[string][]Holiday              `bson:"holiday_dates" json:"holiday_dates"`
	UpdatedAt     time.Time                         `bson:"updated_at" json:"updated_at"`
}
