// Package users, as part of the user registration module.
// This file, `dto.go`, defines the request payloads accepted by the users handlers.
package users

// RegisterRequest represents the registration request payload.
// Any other fields a client sends (id, tasks) are ignored.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"x"`
}
