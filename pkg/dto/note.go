package dto

import "github.com/DutsAndrew/ck-api-sub000/internal/models"

type NoteDates struct {
	StartDate Date `json:"startDate"`
	EndDate   Date `json:"endDate"`
}

type NoteRequest struct {
	Note     any       `json:"note"`
	NoteType string    `json:"noteType"`
	Dates    NoteDates `json:"dates"`
}

type UpdatedNoteResponse struct {
	Detail      string               `json:"detail"`
	UpdatedNote *models.CalendarNote `json:"updated_note"`
}
