package dto

import "marketplace/src/core/usecase"

// RegisterUserRequest is the payload for POST /v1/users.
type RegisterUserRequest struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

func (r RegisterUserRequest) ToInput() usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		ID:          r.ID,
		FullName:    r.FullName,
		DisplayName: r.DisplayName,
	}
}

// UpdateFullNameRequest is the payload for PUT /v1/users/:id/full-name.
type UpdateFullNameRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

// UpdateDisplayNameRequest is the payload for PUT /v1/users/:id/display-name.
type UpdateDisplayNameRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}
