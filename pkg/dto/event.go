package dto

type EventRequest struct {
	EventName           string `json:"eventName"`
	EventDescription    string `json:"eventDescription"`
	EventDate           *Date  `json:"eventDate"`
	EventTime           string `json:"eventTime"`
	CombinedDateAndTime *Date  `json:"combinedDateAndTime"`
	Repeats             bool   `json:"repeats"`
	RepeatOption        string `json:"repeatOption"`
}
