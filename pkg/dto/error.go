package dto

type ErrorResponse struct {
	Detail string `json:"detail"`
}
