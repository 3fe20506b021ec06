package dto

import "github.com/DutsAndrew/ck-api-sub000/internal/models"

type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	JobTitle        string `json:"job_title,omitempty"`
	Company         string `json:"company,omitempty"`
}

// SignupEcho is the submitted form minus the passwords, returned when the
// email is already registered so the client can refill it.
type SignupEcho struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	JobTitle  string `json:"job_title,omitempty"`
	Company   string `json:"company,omitempty"`
}

func (r SignupRequest) Echo() SignupEcho {
	return SignupEcho{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		JobTitle:  r.JobTitle,
		Company:   r.Company,
	}
}

type SignupResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	User    any    `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message      string       `json:"message"`
	RefreshToken string       `json:"refresh_token"`
	Status       int          `json:"status"`
	User         *models.User `json:"user,omitempty"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	Message   string `json:"message"`
	ExpiresIn int64  `json:"expires_in"`
}
