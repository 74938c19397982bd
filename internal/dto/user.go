package dto

import "time"

// UserResponse is the sanitized external view of a user. The password hash
// and super flag never appear here.
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Picture   *string   `json:"picture,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateCredentialsRequest is a partial update keyed by email. Only supplied
// fields are validated and written.
type UpdateCredentialsRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=30"`
	Picture  *string `json:"picture"`
	Password *string `json:"password" binding:"omitempty,min=6,max=128"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive suspended deleted"`
}
