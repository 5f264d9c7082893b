package handler

import "github.com/phxevent/eventbook-console/internal/core/domain"

type loginForm struct {
	Email    string `form:"email"    json:"email"    validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
}

type registerForm struct {
	Email       string `form:"email"       json:"email"       validate:"required,email"`
	Password    string `form:"password"    json:"password"    validate:"required,min=6"`
	FirstName   string `form:"firstName"   json:"firstName"   validate:"required"`
	LastName    string `form:"lastName"    json:"lastName"    validate:"required"`
	Role        string `form:"role"        json:"role"        validate:"required,oneof=VENDOR ADMIN PUBLIC_USER"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber"`
	Location    string `form:"location"    json:"location"`
}

// redisplay drops the password before the form is echoed back to the page.
func (f loginForm) redisplay() loginForm {
	f.Password = ""
	return f
}

func (f registerForm) redisplay() registerForm {
	f.Password = ""
	return f
}

func (f loginForm) toRequest() domain.LoginRequest {
	return domain.LoginRequest{Email: f.Email, Password: f.Password}
}

func (f registerForm) toRequest() domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:       f.Email,
		Password:    f.Password,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Role:        domain.Role(f.Role),
		PhoneNumber: f.PhoneNumber,
		Location:    f.Location,
	}
}

type statusResponse struct {
	Status string `json:"status"`
}
