// Package domain holds actor types and ports
package domain

import "time"

// User is a persisted actor that change sets can be attributed to
type User struct {
	ID        string    `json:"id" example:"3f2b6a2e-3b1c-4a53-9d55-1f7f1b7e2c11"`
	Email     string    `json:"email" example:"ada@example.com"`
	Name      string    `json:"name,omitempty" example:"Ada"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput is the payload for registering an actor
type CreateInput struct {
	Email string `json:"email" validate:"required,email,max=254" example:"ada@example.com"`
	Name  string `json:"name,omitempty" validate:"omitempty,max=200" example:"Ada"`
}
